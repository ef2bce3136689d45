package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom_FindsWrappedError(t *testing.T) {
	base := NotFound("diagnostic")
	wrapped := fmt.Errorf("load: %w", base)

	got := From(wrapped)
	assert.Same(t, base, got)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "diagnostic not found", got.Error())
}

func TestFrom_PlainErrorIsInternal(t *testing.T) {
	got := From(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "internal", got.Code)
}

func TestError_UnwrapsSentinel(t *testing.T) {
	sentinel := errors.New("email taken")
	err := Conflict("email_taken", sentinel)
	assert.ErrorIs(t, err, sentinel)
}

func TestError_MessageFallbacks(t *testing.T) {
	assert.Equal(t, "x_code", (&Error{Code: "x_code"}).Error())
	assert.Equal(t, "api error (418)", (&Error{Status: 418}).Error())
	var nilErr *Error
	assert.Equal(t, "", nilErr.Error())
}
