package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PublicURL(t *testing.T) {
	//Arrange
	client := &StorageClient{
		bucket:        "deal-documents",
		publicBaseURL: "https://files.example.com",
	}

	//Act
	url := client.PublicURL("deals/abc/contract.pdf")

	//Assert
	assert.Equal(t, "https://files.example.com/deal-documents/deals/abc/contract.pdf", url)
}

func Test_PublicURL_EmptyKey(t *testing.T) {
	//Arrange
	client := &StorageClient{
		bucket:        "deal-documents",
		publicBaseURL: "https://files.example.com",
	}

	//Act + Assert
	assert.Equal(t, "", client.PublicURL(""))
}
