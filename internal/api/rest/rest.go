package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-nft-lifecycle/internal/api/middleware"
	"github.com/feral-file/ff-nft-lifecycle/internal/metrics"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, auth *middleware.Authenticator) {
	// Health check and metrics (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		wallets := v1.Group("/wallets/:wallet")

		// Read endpoints (public)
		wallets.GET("/nfts", handler.LoadPage)
		wallets.GET("/nfts/offchain", handler.ListOffchainNFTs)
		wallets.GET("/nfts/onchain", handler.ListOnchainNFTs)
		wallets.GET("/nfts/status", handler.GetNFTStatus)
		wallets.GET("/nfts/:item_id/claim-status", handler.GetClaimStatus)

		// Claim requires a token for the wallet or an API key
		wallets.POST("/nfts/:item_id/claim", middleware.Auth(auth), middleware.WalletOwner("wallet"), handler.ClaimNFT)
	}
}
