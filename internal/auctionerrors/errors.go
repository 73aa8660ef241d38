package auctionerrors

import "errors"

// Ledger-level errors
var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrNoBids            = errors.New("no bids found for auction")
	ErrUserNoBids        = errors.New("user has not placed any bids")
	ErrStaleBid          = errors.New("bid lost race against a concurrent bid")
	ErrInvalidTransition = errors.New("invalid auction status transition")
)

// Business logic errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrInvalidAuction    = errors.New("invalid auction listing")
	ErrAuctionNotActive  = errors.New("auction is not active")
	ErrAuctionEnded      = errors.New("auction has ended")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrBelowMinIncrement = errors.New("bid below minimum increment")
)
