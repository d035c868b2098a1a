package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHTTPPublisher_PublishOrderPlaced(t *testing.T) {
	var received PubSubPushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	event := &service.OrderPlacedEvent{
		RequestID:     "req-1",
		OrderID:       "order-1",
		CustomerID:    "customer-1",
		CustomerEmail: "ana@example.com",
		Total:         "300.00",
		Items:         []service.OrderPlacedItem{{ProductName: "Sneaker", Quantity: 2, Price: "50.00"}},
		PlacedAt:      time.Now().UTC(),
	}

	require.NoError(t, publisher.PublishOrderPlaced(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, service.EventOrderPlaced, received.Message.Attributes[constants.EventTypeAttribute])
	assert.Equal(t, "order-1", received.Message.Attributes["order_id"])
	assert.NotEmpty(t, received.Message.MessageID)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ana@example.com", decoded.CustomerEmail)
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "Sneaker", decoded.Items[0].ProductName)
}

func TestLocalHTTPPublisher_WorkerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := publisher.PublishAccountEvent(context.Background(), &service.AccountEvent{
		Type:       service.EventAccountRegistered,
		CustomerID: "customer-1",
		Email:      "ana@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNewAccountMessage_RejectsUnknownType(t *testing.T) {
	_, err := newAccountMessage(&service.AccountEvent{Type: "account.deleted"})
	assert.Error(t, err)
}
