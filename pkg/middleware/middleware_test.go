package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"movie-catalog/pkg/auth"
	"movie-catalog/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	userID int64
	err    error
	staff  bool
}

func (s stubVerifier) GetUserID(ctx context.Context, token string) (int64, error) {
	if token != "good" && s.err == nil {
		return 0, fmt.Errorf("%w: malformed", auth.ErrInvalidToken)
	}
	return s.userID, s.err
}

func (s stubVerifier) IsStaff(ctx context.Context, userID int64) (bool, error) {
	return s.staff, s.err
}

func okHandler(t *testing.T, wantUser int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.GetUserIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantUser, id)
		token, _ := utils.GetTokenFromContext(r.Context())
		assert.Equal(t, "good", token)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestBearerAuth(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		verifier stubVerifier
		code     int
	}{
		{"ok", "Bearer good", stubVerifier{userID: 3}, http.StatusNoContent},
		{"lowercase scheme", "bearer good", stubVerifier{userID: 3}, http.StatusNoContent},
		{"missing header", "", stubVerifier{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", stubVerifier{}, http.StatusUnauthorized},
		{"no token", "Bearer ", stubVerifier{}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", stubVerifier{}, http.StatusUnauthorized},
		{"expired", "Bearer good", stubVerifier{err: auth.ErrTokenExpired}, http.StatusUnauthorized},
		{"deleted user", "Bearer good", stubVerifier{err: auth.ErrInvalidCredentials}, http.StatusUnauthorized},
		{"database down", "Bearer good", stubVerifier{err: errors.New("conn reset")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := BearerAuth(tc.verifier, zap.NewNop())(okHandler(t, 3))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestStaff(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	withUser := httptest.NewRequest(http.MethodPost, "/movies", nil)
	withUser = withUser.WithContext(utils.SetUserContext(withUser.Context(), 9))

	rec := httptest.NewRecorder()
	Staff(stubVerifier{staff: true}, zap.NewNop())(next).ServeHTTP(rec, withUser)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	Staff(stubVerifier{staff: false}, zap.NewNop())(next).ServeHTTP(rec, withUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	Staff(stubVerifier{staff: true}, zap.NewNop())(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/movies", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimitIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limit := RateLimitIP(ctx, utils.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}, zap.NewNop())
	h := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"), "buckets are per IP")
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	aborting := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLogger_PassesStatusThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
