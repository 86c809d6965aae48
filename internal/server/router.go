package server

import (
	"gem-auction/internal/auth"
	handler "gem-auction/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(service handler.AuctionServiceInterface, tokens *auth.Tokens, allowedOrigins []string, opts ...handler.Option) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(CORSMiddleware(allowedOrigins))
	router.Use(tokens.Optional())

	auctionHandler := handler.NewAuctionHandler(service, opts...)
	required := tokens.Required()

	router.GET("/health", auctionHandler.HealthHandler)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidsHandler)
		auctions.POST("/:auction_id/bids", required, auctionHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/winning", auctionHandler.GetWinningBidHandler)
		auctions.GET("/:auction_id/messages", auctionHandler.GetMessagesHandler)
		auctions.POST("/:auction_id/messages", required, auctionHandler.PostMessageHandler)
		auctions.GET("/:auction_id/events", auctionHandler.StreamEventsHandler)
		auctions.POST("/:auction_id/buy-now", required, auctionHandler.BuyNowHandler)
	}

	router.GET("/membership/plans", auctionHandler.ListPlansHandler)

	me := router.Group("/users/me", required)
	{
		me.GET("/membership", auctionHandler.GetMyMembershipHandler)
		me.PUT("/membership", auctionHandler.UpsertMyMembershipHandler)
		me.GET("/auctions", auctionHandler.GetMyAuctionsHandler)
	}

	return router
}
