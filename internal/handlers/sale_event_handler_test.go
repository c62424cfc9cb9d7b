package handlers_test

import (
	"context"
	"encoding/json"
	"testing"

	"tokopos/internal/handlers"
	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/services"

	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaleEventHandler(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	customer := &models.Customer{FullName: "Sari"}
	require.NoError(t, store.Customers().Create(ctx, customer))

	loyalty, err := services.NewLoyaltyService(store.Customers(), zap.NewNop())
	require.NoError(t, err)
	handle := handlers.NewSaleEventHandler(loyalty, zap.NewNop())

	body, err := json.Marshal(models.SaleCreatedEvent{
		EventID:     "evt-42",
		SaleID:      42,
		CustomerID:  &customer.ID,
		TotalAmount: decimal.RequireFromString("88.40"),
	})
	require.NoError(t, err)

	require.NoError(t, handle(amqp.Delivery{Body: body}))
	require.NoError(t, handle(amqp.Delivery{Body: body}))

	got, err := store.Customers().GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 88, got.LoyaltyPoints)

	assert.NoError(t, handle(amqp.Delivery{Body: []byte("{not json")}))
}
