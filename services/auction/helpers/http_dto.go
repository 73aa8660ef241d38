package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	BidderID  string  `json:"bidder_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type CreateListingRequest struct {
	Brand         string   `json:"brand" binding:"required"`
	Model         string   `json:"model" binding:"required"`
	Year          int      `json:"year" binding:"required,gte=1900"`
	Type          string   `json:"type"`
	Color         string   `json:"color"`
	Mileage       int      `json:"mileage" binding:"gte=0"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	SellerID      string   `json:"seller_id" binding:"required"`
	StartingPrice float64  `json:"starting_price" binding:"required,gt=0"`
	ReservePrice  float64  `json:"reserve_price" binding:"omitempty,gt=0"`
	MinIncrement  float64  `json:"min_increment" binding:"omitempty,gt=0"`
	// EndTime is RFC3339; empty means open-ended.
	EndTime string `json:"end_time"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=sold cancelled"`
}

type AutoBidRequest struct {
	BidderID  string  `json:"bidder_id" binding:"required"`
	MaxAmount float64 `json:"max_amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID     string `json:"bid_id"`
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type PlaceBidResponse struct {
	Bid        BidResponse `json:"bid"`
	CurrentBid string      `json:"current_bid"`
	BidCount   int         `json:"bid_count"`
}

type TimeLeftResponse struct {
	Expired bool `json:"expired"`
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
}
