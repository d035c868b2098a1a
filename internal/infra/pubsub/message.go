package pubsub

import (
	"encoding/json"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

// outboundMessage is a serialized event plus the attributes used for routing and tracing.
type outboundMessage struct {
	Key        string
	Data       []byte
	Attributes map[string]string
}

func newOrderPlacedMessage(event *service.OrderPlacedEvent) (*outboundMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	attributes := map[string]string{
		constants.EventTypeAttribute: service.EventOrderPlaced,
		"order_id":                   event.OrderID,
		"customer_id":                event.CustomerID,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return &outboundMessage{Key: event.OrderID, Data: data, Attributes: attributes}, nil
}

func newAccountMessage(event *service.AccountEvent) (*outboundMessage, error) {
	if event.Type != service.EventAccountRegistered && event.Type != service.EventAccountPasswordChanged {
		return nil, errors.Errorf("unsupported account event type: %s", event.Type)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	attributes := map[string]string{
		constants.EventTypeAttribute: event.Type,
		"customer_id":                event.CustomerID,
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return &outboundMessage{Key: event.CustomerID, Data: data, Attributes: attributes}, nil
}
