package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DigitsOnly(t *testing.T) {
	assert.Equal(t, "5551234567", DigitsOnly("(555) 123-4567"))
	assert.Equal(t, "5551234567", DigitsOnly("555.123.4567"))
	assert.Equal(t, "15551234567", DigitsOnly("+1 555 123 4567"))
	assert.Equal(t, "", DigitsOnly("no digits here"))
}

func Test_SanitizeFileName(t *testing.T) {
	assert.Equal(t, "contract.pdf", SanitizeFileName("contract.pdf"))
	assert.Equal(t, "purchase_agreement.pdf", SanitizeFileName("purchase agreement.pdf"))
	assert.Equal(t, "contract.pdf", SanitizeFileName("../../contract.pdf"))
	assert.Equal(t, "contract.pdf", SanitizeFileName("C:\\Users\\me\\contract.pdf"))
}
