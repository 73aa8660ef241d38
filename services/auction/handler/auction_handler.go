package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vehicle-auction/internal/auctionerrors"
	model "vehicle-auction/internal/models"
	"vehicle-auction/services/auction/helpers"
	"vehicle-auction/utils"
)

type AuctionServiceInterface interface {
	PlaceBid(auctionID, bidderID string, amount decimal.Decimal) (model.Bid, model.Auction, error)
	CreateListing(auction model.Auction) (model.Auction, error)
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions() []model.Auction
	GetBidHistory(auctionID string) ([]model.Bid, error)
	GetHighestBid(auctionID string) (model.Bid, error)
	RemainingTimeFor(auctionID string) (model.TimeLeft, bool, error)
	SetStatus(auctionID string, status model.AuctionStatus) (model.Auction, error)
	SetAutoBid(auctionID, userID string, maxAmount decimal.Decimal) error
	UserBids(userID string) ([]model.Auction, error)
	UserWonAuctions(userID string) ([]model.Auction, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// PlaceBidHandler handles POST /bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, auction, err := h.service.PlaceBid(req.AuctionID, req.BidderID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": req.AuctionID,
			"bidder_id":  req.BidderID,
			"error":      err.Error(),
		})
		return
	}

	resp := helpers.PlaceBidResponse{
		Bid:        helpers.ToBidResponse(bid),
		CurrentBid: auction.CurrentBid.String(),
		BidCount:   auction.BidCount,
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount.String(),
	})
}

// CreateListingHandler handles POST /auctions
func (h *AuctionHandler) CreateListingHandler(c *gin.Context) {
	var req helpers.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateListingHandler", err)
		return
	}

	auction := model.Auction{
		Brand:         req.Brand,
		Model:         req.Model,
		Year:          req.Year,
		Type:          req.Type,
		Color:         req.Color,
		Mileage:       req.Mileage,
		Description:   req.Description,
		Images:        req.Images,
		SellerID:      req.SellerID,
		StartingPrice: decimal.NewFromFloat(req.StartingPrice),
	}
	if req.ReservePrice > 0 {
		auction.ReservePrice = decimal.NewFromFloat(req.ReservePrice)
	}
	if req.MinIncrement > 0 {
		auction.MinIncrement = decimal.NewFromFloat(req.MinIncrement)
	}
	if req.EndTime != "" {
		endTime, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			helpers.HandleBindError(c, "CreateListingHandler", fmt.Errorf("invalid end_time: %w", err))
			return
		}
		auction.EndTime = endTime
	}

	created, err := h.service.CreateListing(auction)
	if err != nil {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Error("CreateListingHandler: failed to create listing", map[string]any{
			"seller_id": req.SellerID,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, created, "listing created successfully")
	helpers.LogSuccess("CreateListingHandler", "listing created successfully", map[string]any{
		"auction_id": created.AuctionID,
		"seller_id":  created.SellerID,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions := h.service.ListAuctions()
	if auctions == nil {
		auctions = []model.Auction{}
	}
	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction, "auction retrieved successfully")
}

// GetBidHistoryHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) GetBidHistoryHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBidHistory(auctionID)
	if err != nil && !errors.Is(err, auctionerrors.ErrNoBids) {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Warn("GetBidHistoryHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.ToBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bid history retrieved successfully")
	helpers.LogSuccess("GetBidHistoryHandler", "bid history retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// GetHighestBidHandler handles GET /auctions/:auction_id/highest
func (h *AuctionHandler) GetHighestBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetHighestBid(auctionID)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "NO_BIDS")
			utils.Info("GetHighestBidHandler: no bids yet", map[string]any{"auction_id": auctionID})
			return
		}
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Warn("GetHighestBidHandler: highest bid error", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), "highest bid retrieved successfully")
}

// GetTimeLeftHandler handles GET /auctions/:auction_id/time-left
func (h *AuctionHandler) GetTimeLeftHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	left, expired, err := h.service.RemainingTimeFor(auctionID)
	if err != nil {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Warn("GetTimeLeftHandler: error computing time left", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := helpers.TimeLeftResponse{
		Expired: expired,
		Days:    left.Days,
		Hours:   left.Hours,
		Minutes: left.Minutes,
		Seconds: left.Seconds,
	}
	utils.JSONResponse(c, http.StatusOK, resp, "time left retrieved successfully")
}

// SetStatusHandler handles POST /auctions/:auction_id/status
func (h *AuctionHandler) SetStatusHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetStatusHandler", err)
		return
	}

	auction, err := h.service.SetStatus(auctionID, model.AuctionStatus(req.Status))
	if err != nil {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Error("SetStatusHandler: failed to update status", map[string]any{
			"auction_id": auctionID,
			"status":     req.Status,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, auction, "auction status updated successfully")
	helpers.LogSuccess("SetStatusHandler", "auction status updated successfully", map[string]any{
		"auction_id": auctionID,
		"status":     req.Status,
	})
}

// SetAutoBidHandler handles POST /auctions/:auction_id/auto-bid
func (h *AuctionHandler) SetAutoBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.AutoBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetAutoBidHandler", err)
		return
	}

	if err := h.service.SetAutoBid(auctionID, req.BidderID, decimal.NewFromFloat(req.MaxAmount)); err != nil {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Error("SetAutoBidHandler: failed to set auto-bid", map[string]any{
			"auction_id": auctionID,
			"bidder_id":  req.BidderID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, gin.H{"auction_id": auctionID, "bidder_id": req.BidderID}, "auto-bid registered successfully")
	helpers.LogSuccess("SetAutoBidHandler", "auto-bid registered successfully", map[string]any{
		"auction_id": auctionID,
		"bidder_id":  req.BidderID,
	})
}

// GetUserBidsHandler handles GET /users/:user_id/auctions
func (h *AuctionHandler) GetUserBidsHandler(c *gin.Context) {
	userID := c.Param("user_id")
	auctions, err := h.service.UserBids(userID)
	if err != nil && !errors.Is(err, auctionerrors.ErrUserNoBids) {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Warn("GetUserBidsHandler: error retrieving auctions", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if auctions == nil {
		auctions = []model.Auction{}
	}

	utils.JSONResponse(c, http.StatusOK, auctions, "auctions retrieved successfully")
	helpers.LogSuccess("GetUserBidsHandler", "auctions retrieved successfully", map[string]any{
		"user_id": userID,
		"count":   len(auctions),
	})
}

// GetUserWonHandler handles GET /users/:user_id/won
func (h *AuctionHandler) GetUserWonHandler(c *gin.Context) {
	userID := c.Param("user_id")
	won, err := h.service.UserWonAuctions(userID)
	if err != nil {
		status, code := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, code)
		utils.Warn("GetUserWonHandler: error retrieving won auctions", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if won == nil {
		won = []model.Auction{}
	}

	utils.JSONResponse(c, http.StatusOK, won, "won auctions retrieved successfully")
}
