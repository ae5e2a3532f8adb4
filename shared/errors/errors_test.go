package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	transport := fmt.Errorf("login: %w", Transport("backend unavailable", cause))

	assert.True(t, IsTransport(transport))
	assert.False(t, IsUnauthorized(transport))
	assert.ErrorIs(t, transport, cause)
	assert.Equal(t, http.StatusBadGateway, StatusOf(transport))

	assert.True(t, IsUnauthorized(Unauthorized("no")))
	assert.True(t, IsInvalidInput(InvalidInput("title is required")))

	k, ok := KindOf(&ErrorWithStatusCode{Message: "Invalid code", StatusCode: 400})
	assert.True(t, ok)
	assert.Equal(t, KindBackend, k)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Invalid code", Message(&ErrorWithStatusCode{Message: "Invalid code"}, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("raw")))
}
