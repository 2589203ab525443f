package auth

import (
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func Test_CheckPassword(t *testing.T) {
	assert.True(t, CheckPassword("hunter2", "hunter2"))
	assert.False(t, CheckPassword("hunter2", "hunter3"))
	assert.False(t, CheckPassword("hunter2", ""))
	// An unconfigured secret must never authenticate anything.
	assert.False(t, CheckPassword("", ""))
}

func Test_IssueAndValidateToken(t *testing.T) {
	token, expiresAt, err := IssueToken(testSecret, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	assert.NoError(t, ValidateToken(testSecret, token))
}

func Test_ValidateToken_WrongSecret(t *testing.T) {
	token, _, err := IssueToken(testSecret, time.Hour)
	assert.NoError(t, err)

	assert.Error(t, ValidateToken("other-secret", token))
}

func Test_ValidateToken_Expired(t *testing.T) {
	token, _, err := IssueToken(testSecret, -time.Minute)
	assert.NoError(t, err)

	assert.Error(t, ValidateToken(testSecret, token))
}

func Test_ValidateToken_Garbage(t *testing.T) {
	assert.Error(t, ValidateToken(testSecret, "not.a.token"))
	assert.Error(t, ValidateToken(testSecret, ""))
}

func Test_IssueToken_NoSecret(t *testing.T) {
	_, _, err := IssueToken("", time.Hour)
	assert.Error(t, err)
}

func Test_BearerFromRequest(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{"Authorization": "Bearer abc123"},
	}
	token, err := BearerFromRequest(req)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func Test_BearerFromRequest_LowercaseHeader(t *testing.T) {
	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{"authorization": "bearer abc123"},
	}
	token, err := BearerFromRequest(req)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)
}

func Test_BearerFromRequest_Malformed(t *testing.T) {
	for _, header := range []string{"", "abc123", "Basic abc123", "Bearer "} {
		req := events.APIGatewayProxyRequest{Headers: map[string]string{"Authorization": header}}
		_, err := BearerFromRequest(req)
		assert.Error(t, err, header)
	}
}

func Test_Authenticate_EndToEnd(t *testing.T) {
	token, _, err := IssueToken(testSecret, time.Hour)
	assert.NoError(t, err)

	req := events.APIGatewayProxyRequest{
		Headers: map[string]string{"Authorization": "Bearer " + token},
	}
	assert.NoError(t, Authenticate(req, testSecret))
	assert.Error(t, Authenticate(req, "rotated-secret"))
}
