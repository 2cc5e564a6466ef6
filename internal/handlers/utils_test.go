// internal/handlers/utils_test.go
package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCookieToken(t *testing.T) {
	header := "session=abc123; auth_token=tok.en.value; theme=dark"

	assert.Equal(t, "tok.en.value", extractCookieToken(header, "auth_token"))
	assert.Equal(t, "abc123", extractCookieToken(header, "session"))
	assert.Equal(t, "dark", extractCookieToken(header, "theme"))
	assert.Equal(t, "", extractCookieToken(header, "missing"))
	assert.Equal(t, "", extractCookieToken("", "auth_token"))
}
