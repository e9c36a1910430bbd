package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdempotenceRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	router := gin.New()
	router.Use(Idempotence(rdb))
	router.POST("/api/posts", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.POST("/api/admin/login", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "нет"})
	})
	return router, mr
}

func post(router *gin.Engine, path, body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("x-idempotence", key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotenceBlocksDuplicate(t *testing.T) {
	router, _ := newIdempotenceRouter(t)

	w := post(router, "/api/posts", `{"content":"x"}`, "key-1")
	require.Equal(t, http.StatusOK, w.Code)

	w = post(router, "/api/posts", `{"content":"x"}`, "key-1")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotenceDistinctKeysPass(t *testing.T) {
	router, _ := newIdempotenceRouter(t)

	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"content":"x"}`, "key-1").Code)
	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"content":"x"}`, "key-2").Code)
}

func TestIdempotenceDuplicateBodyWithoutHeader(t *testing.T) {
	router, _ := newIdempotenceRouter(t)

	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"content":"same"}`, "").Code)
	require.Equal(t, http.StatusConflict, post(router, "/api/posts", `{"content":"same"}`, "").Code)
	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"content":"different"}`, "").Code)
}

func TestIdempotenceExpires(t *testing.T) {
	router, mr := newIdempotenceRouter(t)

	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"content":"x"}`, "key-1").Code)

	mr.FastForward(idempotenceTTL + 1)
	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"content":"x"}`, "key-1").Code)
}

func TestIdempotenceSkipsLogin(t *testing.T) {
	router, _ := newIdempotenceRouter(t)

	require.Equal(t, http.StatusUnauthorized, post(router, "/api/admin/login", `{"username":"a"}`, "key-1").Code)
	require.Equal(t, http.StatusUnauthorized, post(router, "/api/admin/login", `{"username":"a"}`, "key-1").Code)
}

func TestIdempotenceFailedRequestNotRemembered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	router := gin.New()
	router.Use(Idempotence(rdb))
	router.POST("/api/posts", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "плохо"})
	})

	require.Equal(t, http.StatusBadRequest, post(router, "/api/posts", `{"x":1}`, "key-1").Code)
	// A failed attempt may be retried immediately.
	require.Equal(t, http.StatusBadRequest, post(router, "/api/posts", `{"x":1}`, "key-1").Code)
}

func TestIdempotenceNilClientNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Idempotence(nil))
	router.POST("/api/posts", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"x":1}`, "key-1").Code)
	require.Equal(t, http.StatusOK, post(router, "/api/posts", `{"x":1}`, "key-1").Code)
}
