package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheckout struct {
	result    *usecase.CheckoutResult
	gotInput  *usecase.PlaceOrderInput
	gotCustID uuid.UUID
}

func (s *stubCheckout) PlaceOrder(_ context.Context, customerID uuid.UUID, input *usecase.PlaceOrderInput) (*usecase.CheckoutResult, error) {
	s.gotCustID = customerID
	s.gotInput = input

	return s.result, nil
}

func servePlaceOrder(t *testing.T, stub *stubCheckout, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	h := NewCheckoutHandler(CheckoutHandlerParams{
		CheckoutUC: stub,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	deliverycontext.SetPrincipal(c, uuid.New(), entity.RoleCustomer)

	require.NoError(t, h.PlaceOrder(c))

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	order := &entity.Order{
		ID:          uuid.New(),
		Status:      entity.OrderStatusPending,
		Total:       decimal.RequireFromString("350"),
		ShippingFee: decimal.RequireFromString("200"),
		Items: []*entity.OrderItem{
			{ProductID: uuid.New(), ProductName: "Rice", Quantity: 3, Price: decimal.RequireFromString("50")},
		},
	}
	shortfall := usecase.StockShortfall{ProductID: uuid.New(), ProductName: "Milk", Requested: 5, Available: 2}

	tests := []struct {
		name       string
		result     *usecase.CheckoutResult
		wantStatus int
		wantCode   string
	}{
		{
			name:       "placed",
			result:     &usecase.CheckoutResult{Order: order},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty cart",
			result:     &usecase.CheckoutResult{Failure: usecase.FailureEmptyCart},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "EMPTY_CART",
		},
		{
			name:       "stock shortfall",
			result:     &usecase.CheckoutResult{Failure: usecase.FailureStockShortfall, Shortfalls: []usecase.StockShortfall{shortfall}},
			wantStatus: http.StatusConflict,
			wantCode:   "STOCK_SHORTFALL",
		},
		{
			name:       "transaction failed",
			result:     &usecase.CheckoutResult{Failure: usecase.FailureInternal},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "CHECKOUT_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := servePlaceOrder(t, &stubCheckout{result: tt.result}, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode == "" {
				assert.True(t, resp.Success)
				assert.Contains(t, rec.Body.String(), `"total":"350.00"`)
				assert.Contains(t, rec.Body.String(), `"line_total":"150.00"`)

				return
			}

			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestCheckoutHandler_ShortfallListsEveryLine(t *testing.T) {
	shortfalls := []usecase.StockShortfall{
		{ProductID: uuid.New(), ProductName: "Milk", Requested: 5, Available: 2},
		{ProductID: uuid.New(), ProductName: "Eggs", Requested: 1, Available: 0},
	}
	stub := &stubCheckout{result: &usecase.CheckoutResult{Failure: usecase.FailureStockShortfall, Shortfalls: shortfalls}}

	rec, _ := servePlaceOrder(t, stub, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Data struct {
			Shortfalls []shortfallResponse `json:"shortfalls"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Shortfalls, 2)
	assert.Equal(t, "Milk", body.Data.Shortfalls[0].ProductName)
	assert.Equal(t, 2, body.Data.Shortfalls[0].Available)
	assert.Equal(t, 0, body.Data.Shortfalls[1].Available)
}

func TestCheckoutHandler_SelectedAddress(t *testing.T) {
	addressID := uuid.New()
	stub := &stubCheckout{result: &usecase.CheckoutResult{Failure: usecase.FailureEmptyCart}}

	servePlaceOrder(t, stub, `{"address_id":"`+addressID.String()+`"}`)

	require.NotNil(t, stub.gotInput)
	require.NotNil(t, stub.gotInput.AddressID)
	assert.Equal(t, addressID, *stub.gotInput.AddressID)
	assert.NotEqual(t, uuid.Nil, stub.gotCustID)
}
