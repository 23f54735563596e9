package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Invalid("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Forbidden("nope"), http.StatusForbidden},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), "kind %s", tc.err.Kind)
	}
}

func TestFromAndIsKind(t *testing.T) {
	err := NotFound("missing")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindInvalidRequest))

	wrapped := fmt.Errorf("context: %w", err)
	e := From(wrapped)
	assert.NotNil(t, e)
	assert.Equal(t, KindNotFound, e.Kind)

	assert.Nil(t, From(errors.New("plain")))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
}
