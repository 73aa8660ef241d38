package ledger

import (
	"fmt"
	"sync"
	"time"

	"vehicle-auction/internal/auctionerrors"
	model "vehicle-auction/internal/models"
)

// Ledger is the single source of truth for auction state and the
// append-only bid log. Implementations must make AppendBid atomic per
// auction: the compare against the current bid and the write of the new
// price happen in one critical section, so concurrent bids cannot both
// win the same price point.
type Ledger interface {
	AddAuction(auction model.Auction) (model.Auction, error)
	Snapshot(auctionID string) (model.Auction, error)
	ListAuctions() []model.Auction
	HighestBid(auctionID string) (model.Bid, error)
	AppendBid(bid model.Bid) (model.Auction, error)
	BidHistory(auctionID string) ([]model.Bid, error)
	MarkStatus(auctionID string, status model.AuctionStatus) (model.Auction, error)
	FinalizeExpired(now time.Time) ([]model.Settlement, error)
	AuctionsByBidder(userID string) ([]model.Auction, error)
	WonAuctions(userID string) ([]model.Auction, error)
}

// auctionState pairs one auction with its bid log behind a dedicated
// lock, so bidding on different auctions never contends.
type auctionState struct {
	mu      sync.Mutex
	auction model.Auction
	bids    []model.Bid // append order; amounts are strictly increasing
}

// MemoryLedger is a concurrency-safe in-memory implementation of Ledger.
type MemoryLedger struct {
	mu       sync.RWMutex
	auctions map[string]*auctionState

	userMu   sync.RWMutex
	byBidder map[string][]string // userID -> auctionIDs the user has bid on
}

// NewMemoryLedger creates an empty in-memory ledger instance.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		auctions: make(map[string]*auctionState),
		byBidder: make(map[string][]string),
	}
}

// AddAuction registers a new listing produced by the seller workflow.
// CurrentBid starts at the starting price and status defaults to active.
func (l *MemoryLedger) AddAuction(auction model.Auction) (model.Auction, error) {
	if auction.AuctionID == "" {
		return model.Auction{}, fmt.Errorf("ledger: %w - missing auction ID", auctionerrors.ErrInvalidAuction)
	}
	if !auction.StartingPrice.IsPositive() {
		return model.Auction{}, fmt.Errorf("ledger: %w - non-positive starting price", auctionerrors.ErrInvalidAuction)
	}
	if auction.CreatedAt.IsZero() {
		auction.CreatedAt = time.Now().UTC()
	}
	if !auction.EndTime.IsZero() && !auction.EndTime.After(auction.CreatedAt) {
		return model.Auction{}, fmt.Errorf("ledger: %w - end time must be after creation", auctionerrors.ErrInvalidAuction)
	}
	if auction.Status == "" {
		auction.Status = model.StatusActive
	}
	if !auction.Status.Valid() {
		return model.Auction{}, fmt.Errorf("ledger: %w - unknown status %q", auctionerrors.ErrInvalidAuction, auction.Status)
	}
	auction.CurrentBid = auction.StartingPrice
	auction.BidCount = 0

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.auctions[auction.AuctionID]; exists {
		return model.Auction{}, fmt.Errorf("ledger: %w - duplicate auction ID %s", auctionerrors.ErrInvalidAuction, auction.AuctionID)
	}
	l.auctions[auction.AuctionID] = &auctionState{auction: auction}
	return auction, nil
}

// Snapshot returns the current denormalized view of an auction.
func (l *MemoryLedger) Snapshot(auctionID string) (model.Auction, error) {
	st, err := l.state(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("get snapshot for auction %s: %w", auctionID, err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.auction, nil
}

// ListAuctions returns a snapshot of every known auction.
func (l *MemoryLedger) ListAuctions() []model.Auction {
	l.mu.RLock()
	states := make([]*auctionState, 0, len(l.auctions))
	for _, st := range l.auctions {
		states = append(states, st)
	}
	l.mu.RUnlock()

	auctions := make([]model.Auction, 0, len(states))
	for _, st := range states {
		st.mu.Lock()
		auctions = append(auctions, st.auction)
		st.mu.Unlock()
	}
	return auctions
}

// HighestBid returns the winning bid for an auction. Ties on amount are
// broken by the earliest timestamp, though accepted amounts are strictly
// increasing so ties cannot occur through AppendBid.
func (l *MemoryLedger) HighestBid(auctionID string) (model.Bid, error) {
	st, err := l.state(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.bids) == 0 {
		return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	winning := st.bids[0]
	for _, b := range st.bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) ||
			(b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// AppendBid inserts a bid record and updates the auction's current price
// and bid count in one atomic step. The admissibility pre-check belongs
// to the validator; the comparison here is re-run under the auction lock
// and fails with ErrStaleBid when a concurrent bid got there first.
//
// A non-positive amount is a caller contract violation and panics.
func (l *MemoryLedger) AppendBid(bid model.Bid) (model.Auction, error) {
	if !bid.Amount.IsPositive() {
		panic(fmt.Sprintf("ledger: AppendBid called with non-positive amount %s for auction %s", bid.Amount, bid.AuctionID))
	}

	st, err := l.state(bid.AuctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.auction.Status != model.StatusActive {
		return model.Auction{}, fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotActive)
	}
	if st.auction.Ended(bid.CreatedAt) {
		return model.Auction{}, fmt.Errorf("append bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionEnded)
	}
	if !bid.Amount.GreaterThan(st.auction.CurrentBid) {
		return model.Auction{}, fmt.Errorf("append bid for auction %s: current bid is %s: %w",
			bid.AuctionID, st.auction.CurrentBid, auctionerrors.ErrStaleBid)
	}

	st.bids = append(st.bids, bid)
	st.auction.CurrentBid = bid.Amount
	st.auction.BidCount = len(st.bids)

	l.trackBidder(bid.BidderID, bid.AuctionID)

	return st.auction, nil
}

// BidHistory returns the auction's accepted bids, newest first.
func (l *MemoryLedger) BidHistory(auctionID string) ([]model.Bid, error) {
	st, err := l.state(auctionID)
	if err != nil {
		return nil, fmt.Errorf("get bid history for auction %s: %w", auctionID, err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	history := make([]model.Bid, len(st.bids))
	for i, b := range st.bids {
		history[len(st.bids)-1-i] = b
	}
	return history, nil
}

// MarkStatus transitions an active auction to sold or cancelled. Selling
// requires at least one bid. Terminal states reject every transition.
func (l *MemoryLedger) MarkStatus(auctionID string, status model.AuctionStatus) (model.Auction, error) {
	if status != model.StatusSold && status != model.StatusCancelled {
		return model.Auction{}, fmt.Errorf("mark auction %s as %q: %w", auctionID, status, auctionerrors.ErrInvalidTransition)
	}

	st, err := l.state(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("mark auction %s as %q: %w", auctionID, status, err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.auction.Status != model.StatusActive {
		return model.Auction{}, fmt.Errorf("mark auction %s as %q: already %s: %w",
			auctionID, status, st.auction.Status, auctionerrors.ErrInvalidTransition)
	}
	if status == model.StatusSold && st.auction.BidCount == 0 {
		return model.Auction{}, fmt.Errorf("mark auction %s as sold: no bids placed: %w",
			auctionID, auctionerrors.ErrInvalidTransition)
	}

	st.auction.Status = status
	return st.auction, nil
}

// FinalizeExpired transitions every active auction whose end time has
// passed: sold when a bid exists and the reserve is met, cancelled
// otherwise. Each auction is settled under its own lock.
func (l *MemoryLedger) FinalizeExpired(now time.Time) ([]model.Settlement, error) {
	l.mu.RLock()
	states := make([]*auctionState, 0, len(l.auctions))
	for _, st := range l.auctions {
		states = append(states, st)
	}
	l.mu.RUnlock()

	var settlements []model.Settlement
	for _, st := range states {
		st.mu.Lock()
		if st.auction.Status != model.StatusActive || !st.auction.Ended(now) {
			st.mu.Unlock()
			continue
		}

		settlement := model.Settlement{
			AuctionID:  st.auction.AuctionID,
			FinalPrice: st.auction.CurrentBid,
		}
		if st.auction.BidCount > 0 && st.auction.ReserveMet() {
			st.auction.Status = model.StatusSold
			settlement.Status = model.StatusSold
			settlement.WinnerID = st.bids[len(st.bids)-1].BidderID
		} else {
			st.auction.Status = model.StatusCancelled
			settlement.Status = model.StatusCancelled
		}
		st.mu.Unlock()

		settlements = append(settlements, settlement)
	}
	return settlements, nil
}

// AuctionsByBidder returns every auction the user has placed a bid on.
func (l *MemoryLedger) AuctionsByBidder(userID string) ([]model.Auction, error) {
	l.userMu.RLock()
	auctionIDs, ok := l.byBidder[userID]
	ids := append([]string(nil), auctionIDs...)
	l.userMu.RUnlock()

	if !ok || len(ids) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}

	auctions := make([]model.Auction, 0, len(ids))
	for _, id := range ids {
		if a, err := l.Snapshot(id); err == nil {
			auctions = append(auctions, a)
		}
	}
	return auctions, nil
}

// WonAuctions returns the sold auctions whose winning bid belongs to the
// user. Won state is derived from the bid log, never stored separately.
func (l *MemoryLedger) WonAuctions(userID string) ([]model.Auction, error) {
	l.userMu.RLock()
	auctionIDs := append([]string(nil), l.byBidder[userID]...)
	l.userMu.RUnlock()

	var won []model.Auction
	for _, id := range auctionIDs {
		st, err := l.state(id)
		if err != nil {
			continue
		}
		st.mu.Lock()
		if st.auction.Status == model.StatusSold && len(st.bids) > 0 &&
			st.bids[len(st.bids)-1].BidderID == userID {
			won = append(won, st.auction)
		}
		st.mu.Unlock()
	}
	return won, nil
}

func (l *MemoryLedger) state(auctionID string) (*auctionState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st, ok := l.auctions[auctionID]
	if !ok {
		return nil, auctionerrors.ErrAuctionNotFound
	}
	return st, nil
}

func (l *MemoryLedger) trackBidder(userID, auctionID string) {
	l.userMu.Lock()
	defer l.userMu.Unlock()

	for _, id := range l.byBidder[userID] {
		if id == auctionID {
			return
		}
	}
	l.byBidder[userID] = append(l.byBidder[userID], auctionID)
}
