package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"pod-design-backend/internal/apperr"
)

func TestProviderError_KeepsStatusAndBody(t *testing.T) {
	err := apperr.Provider("imagegen: generate", 500, `{"detail":"model overloaded"}`)

	assert.Equal(t, `imagegen: generate: status 500, body: {"detail":"model overloaded"}`, err.Error())
	assert.Equal(t, http.StatusBadGateway, apperr.HTTPStatus(err))
}

func TestKindOf_Wrapped(t *testing.T) {
	base := apperr.Timeout("generation: poll", "no terminal state after %d attempts", 15)
	wrapped := fmt.Errorf("batch: %w", base)

	assert.Equal(t, apperr.KindTimeout, apperr.KindOf(wrapped))
	assert.True(t, apperr.Is(wrapped, apperr.KindTimeout))
	assert.False(t, apperr.Is(wrapped, apperr.KindProviderFailure))
	assert.Equal(t, http.StatusGatewayTimeout, apperr.HTTPStatus(wrapped))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, apperr.Kind(""), apperr.KindOf(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(errors.New("boom")))
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &apperr.Error{Kind: apperr.KindProvider, Op: "printify: upload", Message: "request failed", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "printify: upload: request failed: connection refused", err.Error())
}

func TestHTTPStatus_InputKinds(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(apperr.InvalidInput("op", "prompt is required")))
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(apperr.Validation("op", "bad id")))
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(apperr.Configuration("op", "missing key")))
}
