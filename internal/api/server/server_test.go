package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-nft-lifecycle/internal/api/middleware"
	"github.com/feral-file/ff-nft-lifecycle/internal/api/server"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{APIKeys: []string{"k"}})
	require.NoError(t, err)

	srv := server.New(server.Config{AllowedOrigins: []string{"https://app.example"}},
		st, mocks.NewMockCoordinator(ctrl), mocks.NewMockPageCache(ctrl), auth)
	router := srv.Router()

	t.Run("health carries request id and cors headers", func(t *testing.T) {
		st.EXPECT().Ping(gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.REQUEST_ID_HEADER))
		assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("claim without credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/0x00000000000000000000000000000000000000aa/nfts/item-1/claim", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/nothing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	shutdownOK := srv.Shutdown(t.Context())
	assert.NoError(t, shutdownOK)
}
