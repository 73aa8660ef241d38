package server

import (
	"github.com/gin-gonic/gin"

	"vehicle-auction/internal/bidding"
	handler "vehicle-auction/services/auction/handler"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *bidding.Service) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateListingHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidHistoryHandler)
		auctions.GET("/:auction_id/highest", auctionHandler.GetHighestBidHandler)
		auctions.GET("/:auction_id/time-left", auctionHandler.GetTimeLeftHandler)
		auctions.POST("/:auction_id/status", auctionHandler.SetStatusHandler)
		auctions.POST("/:auction_id/auto-bid", auctionHandler.SetAutoBidHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/auctions", auctionHandler.GetUserBidsHandler)
		users.GET("/:user_id/won", auctionHandler.GetUserWonHandler)
	}

	return router
}
