package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/lifecycle"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
	"github.com/feral-file/ff-nft-lifecycle/internal/pagecache"
	"github.com/feral-file/ff-nft-lifecycle/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// ListOffchainNFTs returns the wallet's unclaimed items
	// GET /api/v1/wallets/:wallet/nfts/offchain
	ListOffchainNFTs(c *gin.Context)

	// ListOnchainNFTs returns the wallet's tokens across networks
	// GET /api/v1/wallets/:wallet/nfts/onchain
	ListOnchainNFTs(c *gin.Context)

	// GetNFTStatus returns both phases with totals
	// GET /api/v1/wallets/:wallet/nfts/status
	GetNFTStatus(c *gin.Context)

	// LoadPage returns one page of the combined list
	// GET /api/v1/wallets/:wallet/nfts?page=<n>&page_size=<n>&include_staked=<bool>&refresh=<bool>
	LoadPage(c *gin.Context)

	// GetClaimStatus reports whether the wallet can claim an item
	// GET /api/v1/wallets/:wallet/nfts/:item_id/claim-status
	GetClaimStatus(c *gin.Context)

	// ClaimNFT mints an offchain item to the wallet (requires authentication)
	// POST /api/v1/wallets/:wallet/nfts/:item_id/claim
	ClaimNFT(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

type handler struct {
	coordinator lifecycle.Coordinator
	pages       pagecache.Cache
	store       store.Store
}

// NewHandler creates a new REST API handler
func NewHandler(coordinator lifecycle.Coordinator, pages pagecache.Cache, st store.Store) Handler {
	return &handler{
		coordinator: coordinator,
		pages:       pages,
		store:       st,
	}
}

// walletParam validates the :wallet path parameter, responding on failure
func walletParam(c *gin.Context) (string, bool) {
	wallet, err := domain.ValidateWallet(c.Param("wallet"))
	if err != nil {
		respondBadRequest(c, "Invalid wallet address", err.Error())
		return "", false
	}
	return wallet, true
}

func (h *handler) ListOffchainNFTs(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.coordinator.LoadOffchainNFTs(c.Request.Context(), wallet))
}

func (h *handler) ListOnchainNFTs(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.coordinator.LoadOnchainNFTs(c.Request.Context(), wallet))
}

func (h *handler) GetNFTStatus(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.coordinator.GetNFTStatus(c.Request.Context(), wallet))
}

func (h *handler) LoadPage(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}

	params, err := ParseLoadPageQuery(c)
	if err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid query parameters: %v", err))
		return
	}

	opts := pagecache.Options{IncludeStaked: params.IncludeStaked, ForceRefresh: params.Refresh}
	page, err := h.pages.LoadPage(c.Request.Context(), wallet, params.Page, params.PageSize, opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPage) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to load page", zap.String("wallet", wallet))
		return
	}

	if page.HasMore {
		h.pages.PreloadNextBatch(wallet, params.Page, params.PageSize, pagecache.Options{IncludeStaked: params.IncludeStaked})
	}

	c.JSON(http.StatusOK, page)
}

func (h *handler) GetClaimStatus(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	itemID := c.Param("item_id")
	if itemID == "" {
		respondBadRequest(c, "item_id is required")
		return
	}

	c.JSON(http.StatusOK, h.coordinator.CheckClaimStatus(c.Request.Context(), itemID, wallet))
}

// ClaimNFT answers with the claim envelope. The status code carries the
// failure class.
func (h *handler) ClaimNFT(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	itemID := c.Param("item_id")
	if itemID == "" {
		respondBadRequest(c, "item_id is required")
		return
	}

	item, err := h.coordinator.ClaimNFTToBlockchain(c.Request.Context(), itemID, wallet)
	if err != nil {
		status := claimErrorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorCtx(c.Request.Context(), fmt.Errorf("claim failed: %w", err),
				zap.String("wallet", wallet),
				zap.String("itemID", itemID))
		}
		c.JSON(status, domain.ClaimResult{Success: false, Error: err.Error()})
		return
	}

	h.pages.Invalidate(wallet)
	c.JSON(http.StatusOK, domain.ClaimResult{Success: true, OnchainItem: item})
}

func claimErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrClaimInProgress):
		return http.StatusAccepted
	default:
		return http.StatusBadGateway
	}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		respondServiceUnavailable(c, "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-nft-lifecycle-api",
	})
}
