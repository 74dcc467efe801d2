package rest_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-nft-lifecycle/internal/api/middleware"
	"github.com/feral-file/ff-nft-lifecycle/internal/api/rest"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/mocks"
	"github.com/feral-file/ff-nft-lifecycle/internal/pagecache"
)

const (
	wallet = "0x00000000000000000000000000000000000000aa"
	apiKey = "test-api-key"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testMocks struct {
	ctrl        *gomock.Controller
	coordinator *mocks.MockCoordinator
	pages       *mocks.MockPageCache
	store       *mocks.MockStore
	signingKey  *rsa.PrivateKey
	router      *gin.Engine
}

func setupTest(t *testing.T) *testMocks {
	ctrl := gomock.NewController(t)
	m := &testMocks{
		ctrl:        ctrl,
		coordinator: mocks.NewMockCoordinator(ctrl),
		pages:       mocks.NewMockPageCache(ctrl),
		store:       mocks.NewMockStore(ctrl),
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	m.signingKey = key

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	auth, err := middleware.NewAuthenticator(middleware.AuthConfig{
		JWTPublicKey: string(publicPEM),
		APIKeys:      []string{apiKey},
	})
	require.NoError(t, err)

	m.router = gin.New()
	rest.SetupRoutes(m.router, rest.NewHandler(m.coordinator, m.pages, m.store), auth)
	return m
}

func (m *testMocks) tearDown() {
	m.ctrl.Finish()
}

func (m *testMocks) token(t *testing.T, subject string, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(m.signingKey)
	require.NoError(t, err)
	return signed
}

func (m *testMocks) do(method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
	}{
		{name: "database up", wantStatus: http.StatusOK},
		{name: "database down", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTest(t)
			defer m.tearDown()

			m.store.EXPECT().Ping(gomock.Any()).Return(tt.pingErr)

			w := m.do(http.MethodGet, "/health", "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestInvalidWallet(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	for _, path := range []string{
		"/api/v1/wallets/not-a-wallet/nfts",
		"/api/v1/wallets/0x123/nfts/offchain",
		"/api/v1/wallets/abc/nfts/onchain",
		"/api/v1/wallets/abc/nfts/status",
		"/api/v1/wallets/abc/nfts/item-1/claim-status",
	} {
		w := m.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestListNFTs(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	// Mixed-case wallet is normalized before reaching the coordinator
	mixed := "0x00000000000000000000000000000000000000AA"

	m.coordinator.EXPECT().
		LoadOffchainNFTs(gomock.Any(), wallet).
		Return([]domain.OffchainItem{{ID: "item-1", OwnerWallet: wallet, Status: domain.StatusOffchain}})
	m.coordinator.EXPECT().
		LoadOnchainNFTs(gomock.Any(), wallet).
		Return([]domain.OnchainItem{{ID: "item-2", TokenID: "2", Status: domain.StatusOnchain}})
	m.coordinator.EXPECT().
		GetNFTStatus(gomock.Any(), wallet).
		Return(domain.NFTStatus{TotalOffchain: 1, TotalOnchain: 1})

	w := m.do(http.MethodGet, "/api/v1/wallets/"+mixed+"/nfts/offchain", "")
	require.Equal(t, http.StatusOK, w.Code)
	var offchain []domain.OffchainItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &offchain))
	require.Len(t, offchain, 1)
	assert.Equal(t, "item-1", offchain[0].ID)

	w = m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts/onchain", "")
	require.Equal(t, http.StatusOK, w.Code)
	var onchain []domain.OnchainItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &onchain))
	require.Len(t, onchain, 1)
	assert.Equal(t, "2", onchain[0].TokenID)

	w = m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status domain.NFTStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 1, status.TotalOffchain)
	assert.Equal(t, 1, status.TotalOnchain)
}

func TestLoadPage(t *testing.T) {
	t.Run("defaults and preload when more pages exist", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.pages.EXPECT().
			LoadPage(gomock.Any(), wallet, 1, rest.DEFAULT_PAGE_SIZE, pagecache.Options{}).
			Return(&pagecache.Page{HasMore: true, TotalCount: 45, CurrentPage: 1}, nil)
		m.pages.EXPECT().PreloadNextBatch(wallet, 1, rest.DEFAULT_PAGE_SIZE, pagecache.Options{})

		w := m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts", "")
		require.Equal(t, http.StatusOK, w.Code)

		var page pagecache.Page
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.True(t, page.HasMore)
		assert.Equal(t, 45, page.TotalCount)
	})

	t.Run("options and capped page size", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		opts := pagecache.Options{IncludeStaked: true, ForceRefresh: true}
		m.pages.EXPECT().
			LoadPage(gomock.Any(), wallet, 3, rest.MAX_PAGE_SIZE, opts).
			Return(&pagecache.Page{HasMore: false, CurrentPage: 3}, nil)

		w := m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts?page=3&page_size=500&include_staked=true&refresh=true", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("preload does not force a refresh", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.pages.EXPECT().
			LoadPage(gomock.Any(), wallet, 2, 10, pagecache.Options{ForceRefresh: true}).
			Return(&pagecache.Page{HasMore: true, CurrentPage: 2}, nil)
		m.pages.EXPECT().PreloadNextBatch(wallet, 2, 10, pagecache.Options{})

		w := m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts?page=2&page_size=10&refresh=true", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid page", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.pages.EXPECT().
			LoadPage(gomock.Any(), wallet, 0, rest.DEFAULT_PAGE_SIZE, pagecache.Options{}).
			Return(nil, fmt.Errorf("%w: page 0 size 20", domain.ErrInvalidPage))

		w := m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts?page=0", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed query", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		w := m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts?page=abc", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("load failure", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.pages.EXPECT().
			LoadPage(gomock.Any(), wallet, 1, rest.DEFAULT_PAGE_SIZE, pagecache.Options{}).
			Return(nil, context.DeadlineExceeded)

		w := m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetClaimStatus(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	m.coordinator.EXPECT().
		CheckClaimStatus(gomock.Any(), "item-1", wallet).
		Return(domain.ClaimStatus{CanClaim: true})

	w := m.do(http.MethodGet, "/api/v1/wallets/"+wallet+"/nfts/item-1/claim-status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var status domain.ClaimStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.CanClaim)
	assert.False(t, status.IsClaimed)
}

func TestClaimNFT_Authentication(t *testing.T) {
	path := "/api/v1/wallets/" + wallet + "/nfts/item-1/claim"
	other := "0x00000000000000000000000000000000000000bb"

	tests := []struct {
		name       string
		auth       func(m *testMocks, t *testing.T) string
		wantStatus int
	}{
		{
			name:       "missing header",
			auth:       func(*testMocks, *testing.T) string { return "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong api key",
			auth:       func(*testMocks, *testing.T) string { return "ApiKey nope" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unsupported scheme",
			auth:       func(*testMocks, *testing.T) string { return "Basic dXNlcjpwYXNz" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			auth: func(m *testMocks, t *testing.T) string {
				return "Bearer " + m.token(t, wallet, -time.Minute)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token for another wallet",
			auth: func(m *testMocks, t *testing.T) string {
				return "Bearer " + m.token(t, other, time.Hour)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTest(t)
			defer m.tearDown()

			w := m.do(http.MethodPost, path, tt.auth(m, t))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestClaimNFT(t *testing.T) {
	path := "/api/v1/wallets/" + wallet + "/nfts/item-1/claim"
	minted := &domain.OnchainItem{ID: "item-1", TokenID: "9", OwnerWallet: wallet, Status: domain.StatusOnchain}

	t.Run("token subject matches wallet", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.coordinator.EXPECT().ClaimNFTToBlockchain(gomock.Any(), "item-1", wallet).Return(minted, nil)
		m.pages.EXPECT().Invalidate(wallet)

		// Checksummed subject still matches the lowercased route
		w := m.do(http.MethodPost, path, "Bearer "+m.token(t, "0x00000000000000000000000000000000000000AA", time.Hour))
		require.Equal(t, http.StatusOK, w.Code)

		var result domain.ClaimResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Success)
		require.NotNil(t, result.OnchainItem)
		assert.Equal(t, "9", result.OnchainItem.TokenID)
		assert.Empty(t, result.Error)
	})

	t.Run("api key acts for any wallet", func(t *testing.T) {
		m := setupTest(t)
		defer m.tearDown()

		m.coordinator.EXPECT().ClaimNFTToBlockchain(gomock.Any(), "item-1", wallet).Return(minted, nil)
		m.pages.EXPECT().Invalidate(wallet)

		w := m.do(http.MethodPost, path, "ApiKey "+apiKey)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	failures := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: domain.ErrItemNotFound, wantStatus: http.StatusNotFound},
		{name: "not owner", err: domain.ErrNotOwner, wantStatus: http.StatusForbidden},
		{name: "already claimed", err: domain.ErrAlreadyClaimed, wantStatus: http.StatusConflict},
		{name: "in progress", err: domain.ErrClaimInProgress, wantStatus: http.StatusAccepted},
		{name: "mint failure", err: errors.New("execution reverted"), wantStatus: http.StatusBadGateway},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			m := setupTest(t)
			defer m.tearDown()

			m.coordinator.EXPECT().
				ClaimNFTToBlockchain(gomock.Any(), "item-1", wallet).
				Return(nil, fmt.Errorf("claim item-1: %w", tt.err))

			w := m.do(http.MethodPost, path, "ApiKey "+apiKey)
			require.Equal(t, tt.wantStatus, w.Code)

			var result domain.ClaimResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.False(t, result.Success)
			assert.Nil(t, result.OnchainItem)
			assert.Contains(t, result.Error, tt.err.Error())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := setupTest(t)
	defer m.tearDown()

	w := m.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
