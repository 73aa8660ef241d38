package bidding

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"vehicle-auction/internal/auctionerrors"
	model "vehicle-auction/internal/models"
	"vehicle-auction/utils"
)

// maxAutoBidRounds bounds the ping-pong between competing auto-bidders
// on a single placed bid.
const maxAutoBidRounds = 1000

// autoBidBook tracks each user's standing maximum per auction. It is
// derived configuration, not audit state; the bid log stays in the
// ledger.
type autoBidBook struct {
	mu   sync.RWMutex
	maxs map[string]map[string]decimal.Decimal // auctionID -> userID -> max amount
}

func newAutoBidBook() *autoBidBook {
	return &autoBidBook{maxs: make(map[string]map[string]decimal.Decimal)}
}

func (b *autoBidBook) set(auctionID, userID string, max decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxs[auctionID] == nil {
		b.maxs[auctionID] = make(map[string]decimal.Decimal)
	}
	b.maxs[auctionID][userID] = max
}

// nextChallenger picks the auto-bidder able to top the current price by
// the given amount, excluding the current leader. The highest standing
// maximum wins; ties break on the lexicographically smaller user ID so
// the outcome is deterministic.
func (b *autoBidBook) nextChallenger(auctionID, leaderID string, required decimal.Decimal) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var (
		bestUser string
		bestMax  decimal.Decimal
		found    bool
	)
	for userID, max := range b.maxs[auctionID] {
		if userID == leaderID || max.LessThan(required) {
			continue
		}
		if !found || max.GreaterThan(bestMax) || (max.Equal(bestMax) && userID < bestUser) {
			bestUser, bestMax, found = userID, max, true
		}
	}
	return bestUser, found
}

// SetAutoBid registers a standing maximum bid for a user. The maximum
// must exceed the auction's current bid to be useful.
func (s *Service) SetAutoBid(auctionID, userID string, maxAmount decimal.Decimal) error {
	if auctionID == "" || userID == "" {
		return fmt.Errorf("service: %w - missing auctionID or userID", auctionerrors.ErrInvalidBid)
	}
	if !maxAmount.IsPositive() {
		return fmt.Errorf("service: %w - non-positive auto-bid maximum", auctionerrors.ErrInvalidBid)
	}

	snapshot, err := s.ledger.Snapshot(auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if snapshot.Status != model.StatusActive {
		return fmt.Errorf("service: auction %s is %s: %w", auctionID, snapshot.Status, auctionerrors.ErrAuctionNotActive)
	}
	if !maxAmount.GreaterThan(snapshot.CurrentBid) {
		return fmt.Errorf("service: auto-bid maximum must exceed current bid %s: %w", snapshot.CurrentBid, auctionerrors.ErrBidTooLow)
	}

	s.auto.set(auctionID, userID, maxAmount)
	return nil
}

// applyAutoBids lets registered auto-bidders respond to a freshly
// accepted bid, each response topping the price by exactly one minimum
// increment. Rounds continue until no standing maximum can answer.
// Every response goes through the same ledger append as a manual bid,
// so a lost race simply ends the round.
func (s *Service) applyAutoBids(snapshot model.Auction) model.Auction {
	for round := 0; round < maxAutoBidRounds; round++ {
		leader, err := s.ledger.HighestBid(snapshot.AuctionID)
		if err != nil {
			return snapshot
		}

		required := snapshot.CurrentBid.Add(s.policy.MinIncrementFor(snapshot))
		challenger, ok := s.auto.nextChallenger(snapshot.AuctionID, leader.BidderID, required)
		if !ok {
			return snapshot
		}

		bid := model.Bid{
			BidID:     utils.GenerateID(),
			AuctionID: snapshot.AuctionID,
			BidderID:  challenger,
			Amount:    required,
			CreatedAt: s.now(),
		}
		updated, err := s.ledger.AppendBid(bid)
		if err != nil {
			return snapshot
		}
		snapshot = updated

		utils.Info("auto-bid placed", map[string]any{
			"auction_id": snapshot.AuctionID,
			"bidder_id":  challenger,
			"amount":     bid.Amount.String(),
		})
	}
	return snapshot
}
