package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vehicle-auction/internal/auctionerrors"
	model "vehicle-auction/internal/models"
	"vehicle-auction/utils"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "INVALID_PAYLOAD")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain errors to an HTTP status and a stable
// rejection code. The codes are the contract with the presentation
// layer; localization happens there.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "AUCTION_NOT_FOUND"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "INVALID_BID"
	case errors.Is(err, auctionerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "INVALID_LISTING"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "BID_TOO_LOW"
	case errors.Is(err, auctionerrors.ErrBelowMinIncrement):
		return http.StatusConflict, "BELOW_MIN_INCREMENT"
	// STALE_BID tells the client to refresh the snapshot and retry;
	// the user's input was admissible but lost a race.
	case errors.Is(err, auctionerrors.ErrStaleBid):
		return http.StatusConflict, "STALE_BID"
	case errors.Is(err, auctionerrors.ErrAuctionNotActive):
		return http.StatusConflict, "AUCTION_NOT_ACTIVE"
	case errors.Is(err, auctionerrors.ErrAuctionEnded):
		return http.StatusGone, "AUCTION_ENDED"
	case errors.Is(err, auctionerrors.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, auctionerrors.ErrNoBids):
		return http.StatusNotFound, "NO_BIDS"
	case errors.Is(err, auctionerrors.ErrUserNoBids):
		return http.StatusOK, "NO_USER_BIDS"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// ToBidResponse converts a domain bid to its wire representation.
func ToBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount.String(),
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
