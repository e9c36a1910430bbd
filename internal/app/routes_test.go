package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/itd-social/core/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.AppConfig{
		Port: 5000,
		Env:  "production",
		Paths: config.PathsConfig{
			Data: dir,
			Logs: dir,
		},
		Admin: config.AdminConfig{
			Username: "admin",
			Password: "admin123",
		},
	}

	a, err := New(zap.NewNop(), cfg)
	require.NoError(t, err)
	return a
}

func (a *App) hit(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestRateClassesAreIndependentPerRoute(t *testing.T) {
	a := newTestApp(t)

	// Exhaust the generic requests budget through the reports endpoint.
	for i := 0; i < 60; i++ {
		w := a.hit(http.MethodPost, "/api/reports")
		require.Equal(t, http.StatusBadRequest, w.Code, "admitted but invalid payload")
	}
	w := a.hit(http.MethodPost, "/api/reports")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// The posts budget is untouched by the generic traffic.
	w = a.hit(http.MethodPost, "/api/posts")
	require.Equal(t, http.StatusBadRequest, w.Code, "posts answer from their own budget")
}

func TestAdminConsoleIsNotRateLimited(t *testing.T) {
	a := newTestApp(t)

	for i := 0; i < 61; i++ {
		a.hit(http.MethodPost, "/api/reports")
	}

	w := a.hit(http.MethodGet, "/api/admin/dashboard")
	require.Equal(t, http.StatusUnauthorized, w.Code, "rejected for the missing token, never for rate")
}
