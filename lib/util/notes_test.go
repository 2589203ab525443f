package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_StampNote(t *testing.T) {
	at := time.Date(2024, 5, 1, 16, 2, 7, 0, time.UTC)
	assert.Equal(t, "[2024-05-01T16:02:07Z] called seller", StampNote(at, "called seller"))
}

func Test_StampNote_NormalizesToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	at := time.Date(2024, 5, 1, 11, 2, 7, 0, est)
	assert.Equal(t, "[2024-05-01T16:02:07Z] offer countered", StampNote(at, " offer countered "))
}
