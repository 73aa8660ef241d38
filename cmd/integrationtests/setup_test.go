package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vehicle-auction/internal/bidding"
	"vehicle-auction/internal/config"
	"vehicle-auction/internal/ledger"
	model "vehicle-auction/internal/models"
	"vehicle-auction/internal/server"
)

// testPolicy matches the default configuration: flat $500 increments.
func testPolicy() bidding.IncrementPolicy {
	return bidding.IncrementPolicy{
		Mode:           config.IncrementModeFlat,
		FlatIncrement:  decimal.NewFromInt(500),
		ReservePercent: decimal.RequireFromString("0.05"),
	}
}

// SetupTestRouter initializes the router with an in-memory ledger for
// integration testing.
func SetupTestRouter() (*gin.Engine, *ledger.MemoryLedger) {
	gin.SetMode(gin.TestMode)
	auctionLedger := ledger.NewMemoryLedger()
	service := bidding.NewService(auctionLedger, testPolicy())
	router := server.SetupRouter(service)
	return router, auctionLedger
}

// SetupTestRouterWithAuctions initializes the router and seeds auctions.
func SetupTestRouterWithAuctions(t *testing.T, auctions ...model.Auction) *gin.Engine {
	t.Helper()

	router, auctionLedger := SetupTestRouter()
	for _, a := range auctions {
		if _, err := auctionLedger.AddAuction(a); err != nil {
			t.Fatalf("failed to seed auction %s: %v", a.AuctionID, err)
		}
	}
	return router
}

// ExecuteRequestAndParse executes an HTTP request on the given router and
// parses the JSON envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}
