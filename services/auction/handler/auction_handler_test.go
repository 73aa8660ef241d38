package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vehicle-auction/internal/auctionerrors"
	model "vehicle-auction/internal/models"
	"vehicle-auction/services/auction/helpers"
)

func performRequest(t *testing.T, router *gin.Engine, method, url string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/bids", h.PlaceBidHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedCode   string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name: "success_valid_bid",
			requestBody: helpers.PlaceBidRequest{
				AuctionID: "a1",
				BidderID:  "u1",
				Amount:    25500,
			},
			mockSetup: func() {
				bid := model.Bid{
					BidID:     uuid.NewString(),
					AuctionID: "a1",
					BidderID:  "u1",
					Amount:    decimal.NewFromInt(25500),
					CreatedAt: now,
				}
				auction := model.Auction{
					AuctionID:  "a1",
					Status:     model.StatusActive,
					CurrentBid: decimal.NewFromInt(25500),
					BidCount:   1,
				}
				mockService.EXPECT().
					PlaceBid("a1", "u1", decimal.NewFromFloat(25500)).
					Return(bid, auction, nil)
			},
			expectedStatus: http.StatusCreated,
			validateData: func(t *testing.T, data map[string]any) {
				bid := data["bid"].(map[string]any)
				require.Equal(t, "a1", bid["auction_id"])
				require.Equal(t, "u1", bid["bidder_id"])
				require.Equal(t, "25500", bid["amount"])
				_, parseErr := uuid.Parse(bid["bid_id"].(string))
				require.NoError(t, parseErr)
				require.Equal(t, "25500", data["current_bid"])
				require.Equal(t, float64(1), data["bid_count"])
			},
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_PAYLOAD",
		},
		{
			name: "missing_auction_id",
			requestBody: helpers.PlaceBidRequest{
				BidderID: "u1",
				Amount:   100,
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_PAYLOAD",
		},
		{
			name: "non_positive_amount",
			requestBody: helpers.PlaceBidRequest{
				AuctionID: "a1",
				BidderID:  "u1",
				Amount:    0,
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_PAYLOAD",
		},
		{
			name: "bid_too_low",
			requestBody: helpers.PlaceBidRequest{
				AuctionID: "a1",
				BidderID:  "u1",
				Amount:    25000,
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("a1", "u1", decimal.NewFromFloat(25000)).
					Return(model.Bid{}, model.Auction{}, auctionerrors.ErrBidTooLow)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "BID_TOO_LOW",
		},
		{
			name: "race_lost_maps_to_stale_bid",
			requestBody: helpers.PlaceBidRequest{
				AuctionID: "a1",
				BidderID:  "u1",
				Amount:    26000,
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("a1", "u1", decimal.NewFromFloat(26000)).
					Return(model.Bid{}, model.Auction{}, auctionerrors.ErrStaleBid)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "STALE_BID",
		},
		{
			name: "auction_ended_maps_to_gone",
			requestBody: helpers.PlaceBidRequest{
				AuctionID: "a1",
				BidderID:  "u1",
				Amount:    26000,
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("a1", "u1", decimal.NewFromFloat(26000)).
					Return(model.Bid{}, model.Auction{}, auctionerrors.ErrAuctionEnded)
			},
			expectedStatus: http.StatusGone,
			expectedCode:   "AUCTION_ENDED",
		},
		{
			name: "unknown_auction",
			requestBody: helpers.PlaceBidRequest{
				AuctionID: "missing",
				BidderID:  "u1",
				Amount:    100,
			},
			mockSetup: func() {
				mockService.EXPECT().
					PlaceBid("missing", "u1", decimal.NewFromFloat(100)).
					Return(model.Bid{}, model.Auction{}, auctionerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "AUCTION_NOT_FOUND",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w, resp := performRequest(t, router, http.MethodPost, "/bids", tc.requestBody)
			require.Equal(t, tc.expectedStatus, w.Code)

			if tc.expectedCode != "" {
				require.Equal(t, tc.expectedCode, resp["code"])
			}
			if tc.validateData != nil {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetTimeLeftHandler
func TestGetTimeLeftHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id/time-left", h.GetTimeLeftHandler)

	t.Run("counting_down", func(t *testing.T) {
		mockService.EXPECT().
			RemainingTimeFor("a1").
			Return(model.TimeLeft{Minutes: 59, Seconds: 59}, false, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/auctions/a1/time-left", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, false, data["expired"])
		require.Equal(t, float64(0), data["days"])
		require.Equal(t, float64(59), data["minutes"])
		require.Equal(t, float64(59), data["seconds"])
	})

	t.Run("expired", func(t *testing.T) {
		mockService.EXPECT().
			RemainingTimeFor("a1").
			Return(model.TimeLeft{}, true, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/auctions/a1/time-left", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, true, data["expired"])
	})

	t.Run("open_ended", func(t *testing.T) {
		mockService.EXPECT().
			RemainingTimeFor("a1").
			Return(model.TimeLeft{}, false, auctionerrors.ErrInvalidAuction)

		w, resp := performRequest(t, router, http.MethodGet, "/auctions/a1/time-left", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "INVALID_LISTING", resp["code"])
	})
}

// Test SetStatusHandler
func TestSetStatusHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions/:auction_id/status", h.SetStatusHandler)

	t.Run("mark_sold", func(t *testing.T) {
		sold := model.Auction{AuctionID: "a1", Status: model.StatusSold}
		mockService.EXPECT().
			SetStatus("a1", model.StatusSold).
			Return(sold, nil)

		w, resp := performRequest(t, router, http.MethodPost, "/auctions/a1/status", helpers.StatusRequest{Status: "sold"})
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, "sold", data["status"])
	})

	t.Run("sold_without_bids_conflicts", func(t *testing.T) {
		mockService.EXPECT().
			SetStatus("a1", model.StatusSold).
			Return(model.Auction{}, auctionerrors.ErrInvalidTransition)

		w, resp := performRequest(t, router, http.MethodPost, "/auctions/a1/status", helpers.StatusRequest{Status: "sold"})
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "INVALID_TRANSITION", resp["code"])
	})

	t.Run("unknown_target_status_rejected_by_binding", func(t *testing.T) {
		w, resp := performRequest(t, router, http.MethodPost, "/auctions/a1/status", helpers.StatusRequest{Status: "archived"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "INVALID_PAYLOAD", resp["code"])
	})
}

// Test GetHighestBidHandler
func TestGetHighestBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auctions/:auction_id/highest", h.GetHighestBidHandler)

	t.Run("with_winning_bid", func(t *testing.T) {
		mockService.EXPECT().
			GetHighestBid("a1").
			Return(model.Bid{
				BidID:     uuid.NewString(),
				AuctionID: "a1",
				BidderID:  "u1",
				Amount:    decimal.NewFromInt(26000),
				CreatedAt: time.Now().UTC(),
			}, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/auctions/a1/highest", nil)
		require.Equal(t, http.StatusOK, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, "26000", data["amount"])
		require.Equal(t, "u1", data["bidder_id"])
	})

	t.Run("no_bids_yet", func(t *testing.T) {
		mockService.EXPECT().
			GetHighestBid("a1").
			Return(model.Bid{}, auctionerrors.ErrNoBids)

		w, resp := performRequest(t, router, http.MethodGet, "/auctions/a1/highest", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "NO_BIDS", resp["code"])
	})
}

// Test GetUserBidsHandler
func TestGetUserBidsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/users/:user_id/auctions", h.GetUserBidsHandler)

	t.Run("user_without_bids_gets_empty_list", func(t *testing.T) {
		mockService.EXPECT().
			UserBids("u9").
			Return(nil, auctionerrors.ErrUserNoBids)

		w, resp := performRequest(t, router, http.MethodGet, "/users/u9/auctions", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, []any{}, resp["data"])
	})

	t.Run("user_with_bids", func(t *testing.T) {
		mockService.EXPECT().
			UserBids("u1").
			Return([]model.Auction{{AuctionID: "a1", Status: model.StatusActive}}, nil)

		w, resp := performRequest(t, router, http.MethodGet, "/users/u1/auctions", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp["data"].([]any), 1)
	})
}

// Test CreateListingHandler
func TestCreateListingHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auctions", h.CreateListingHandler)

	t.Run("valid_listing", func(t *testing.T) {
		mockService.EXPECT().
			CreateListing(gomock.Any()).
			DoAndReturn(func(a model.Auction) (model.Auction, error) {
				require.Equal(t, "Toyota", a.Brand)
				require.True(t, a.StartingPrice.Equal(decimal.NewFromFloat(25000)))
				require.True(t, a.ReservePrice.Equal(decimal.NewFromFloat(30000)))
				a.AuctionID = uuid.NewString()
				a.Status = model.StatusActive
				return a, nil
			})

		w, resp := performRequest(t, router, http.MethodPost, "/auctions", helpers.CreateListingRequest{
			Brand:         "Toyota",
			Model:         "Supra",
			Year:          2020,
			SellerID:      "seller1",
			StartingPrice: 25000,
			ReservePrice:  30000,
			EndTime:       time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		})
		require.Equal(t, http.StatusCreated, w.Code)

		data := resp["data"].(map[string]any)
		require.Equal(t, "active", data["status"])
		require.NotEmpty(t, data["auction_id"])
	})

	t.Run("bad_end_time", func(t *testing.T) {
		w, resp := performRequest(t, router, http.MethodPost, "/auctions", helpers.CreateListingRequest{
			Brand:         "Toyota",
			Model:         "Supra",
			Year:          2020,
			SellerID:      "seller1",
			StartingPrice: 25000,
			EndTime:       "tomorrow",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "INVALID_PAYLOAD", resp["code"])
	})

	t.Run("missing_starting_price", func(t *testing.T) {
		w, resp := performRequest(t, router, http.MethodPost, "/auctions", helpers.CreateListingRequest{
			Brand:    "Toyota",
			Model:    "Supra",
			Year:     2020,
			SellerID: "seller1",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "INVALID_PAYLOAD", resp["code"])
	})
}
