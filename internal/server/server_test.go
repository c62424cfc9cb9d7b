package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tokopos/internal/config"
	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/server"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPublisher is a mock implementation of the sale event publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSaleCreated(ctx context.Context, event models.SaleCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromViper(config.New())
	require.NoError(t, err)
	cfg.AppEnv = "test"
	cfg.JWTSecret = "server_test_secret"
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	app, err := server.New(testConfig(t), repositories.NewMemoryStore(), nil, zap.NewNop())
	require.NoError(t, err)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status    string `json:"status"`
		Messaging string `json:"messaging"`
		Sales     struct {
			InFlight int `json:"in_flight"`
			Capacity int `json:"capacity"`
		} `json:"sales"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "disabled", body.Messaging)
	assert.Equal(t, 0, body.Sales.InFlight)
	assert.Equal(t, 3, body.Sales.Capacity)
}

func TestSaleCreatedEventIsPublished(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	customer := &models.Customer{FullName: "Budi"}
	require.NoError(t, store.Customers().Create(ctx, customer))
	product := &models.Product{
		Name:     "Coffee",
		Barcode:  "CF-01",
		Price:    decimal.NewFromInt(200),
		StockQty: decimal.NewFromInt(10),
		Category: "drinks",
		IsActive: true,
	}
	require.NoError(t, store.Products().Create(ctx, product))

	publisher := new(MockPublisher)
	publisher.On("PublishSaleCreated", mock.Anything, mock.MatchedBy(func(e models.SaleCreatedEvent) bool {
		return e.EventID != "" && e.CustomerID != nil && *e.CustomerID == customer.ID
	})).Return(nil).Once()

	app, err := server.New(testConfig(t), store, publisher, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, app.Auth.RegisterUser(ctx, &models.User{Username: "owner", Email: "owner@example.com", Password: "secret123"}))
	token, err := app.Auth.LoginUser(ctx, "owner", "secret123")
	require.NoError(t, err)

	payload, err := json.Marshal(models.CreateSaleRequest{
		SaleDate:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		CustomerID: &customer.ID,
		PaidAmount: decimal.NewFromInt(207),
		Lines: []models.SaleLine{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(200)},
		},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sale models.Sale
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sale))
	assert.True(t, decimal.NewFromInt(207).Equal(sale.TotalAmount), sale.TotalAmount.String())
	assert.True(t, sale.DueAmount.IsZero())
	publisher.AssertExpectations(t)

	// The consumer side credits the customer once per event.
	event := publisher.Calls[0].Arguments.Get(1).(models.SaleCreatedEvent)
	require.NoError(t, app.Loyalty.HandleSaleCreated(ctx, event))
	got, err := store.Customers().GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 207, got.LoyaltyPoints)
}
