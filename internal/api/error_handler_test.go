package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", domain.Errorf(domain.ErrValidation, "invalid status"), http.StatusBadRequest, "invalid status"},
		{"duplicate", domain.Errorf(domain.ErrUserExists, "username already taken"), http.StatusBadRequest, "username already taken"},
		{"unauthenticated", domain.Errorf(domain.ErrUnauthenticated, "token has expired"), http.StatusUnauthorized, "token has expired"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", domain.Errorf(domain.ErrForbidden, "only sellers can access this"), http.StatusForbidden, "only sellers can access this"},
		{"not found", domain.ErrPetNotFound, http.StatusNotFound, "pet not found"},
		{"stale write", fmt.Errorf("update products: %w", domain.ErrStaleWrite), http.StatusConflict, domain.ErrStaleWrite.Error()},
		{"dependents", domain.Errorf(domain.ErrUserHasDependents, "user still owns 2 products"), http.StatusConflict, "user still owns 2 products"},
		{"echo", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"internal", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			assert.Equal(t, tc.code, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}
