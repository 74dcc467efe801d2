package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-nft-lifecycle/internal/api/middleware"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.REQUEST_ID_KEY))
	})

	t.Run("generated when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(middleware.REQUEST_ID_HEADER)
		require.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("caller id reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.REQUEST_ID_HEADER, "7c9e6679-7425-40de-944b-e07fc1f90ae7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", w.Header().Get(middleware.REQUEST_ID_HEADER))
	})

	t.Run("malformed caller id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.REQUEST_ID_HEADER, "<script>")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		id := w.Header().Get(middleware.REQUEST_ID_HEADER)
		assert.NotEqual(t, "<script>", id)
		assert.Len(t, id, 36)
	})
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestSetupCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		wantHeader string
	}{
		{name: "all origins", origin: "https://any.example", wantHeader: "*"},
		{name: "listed origin", allowed: []string{"https://app.example"}, origin: "https://app.example", wantHeader: "https://app.example"},
		{name: "unlisted origin", allowed: []string{"https://app.example"}, origin: "https://evil.example", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(middleware.SetupCORS(tt.allowed))
			router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestNewAuthenticator_InvalidKey(t *testing.T) {
	_, err := middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: "not a pem"})
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{APIKeys: []string{"k1", ""}})
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantOK   bool
		wantType string
	}{
		{name: "api key", header: "ApiKey k1", wantOK: true, wantType: middleware.AUTH_TYPE_APIKEY},
		{name: "scheme is case insensitive", header: "apikey k1", wantOK: true, wantType: middleware.AUTH_TYPE_APIKEY},
		{name: "empty key ignored", header: "ApiKey ", wantOK: false},
		{name: "bearer without public key", header: "Bearer abc.def.ghi", wantOK: false},
		{name: "no credentials", header: "ApiKey", wantOK: false},
		{name: "empty", header: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := auth.Authenticate(tt.header)
			assert.Equal(t, tt.wantOK, result.Success)
			if tt.wantOK {
				assert.Equal(t, tt.wantType, result.AuthType)
			} else {
				assert.Error(t, result.Error)
			}
		})
	}
}
