package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// tokenValidator checks a push OIDC token for an audience.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// PushHandler turns Pub/Sub push messages into customer e-mails.
type PushHandler struct {
	verifyPushAuth bool
	audience       string
	validate       tokenValidator
	logger         *slog.Logger
	notificationUC usecase.NotificationUsecase
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config         *config.Config
	Logger         *slog.Logger
	NotificationUC usecase.NotificationUsecase
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Only Google pushes carry an OIDC token, and only outside development.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	audience := ""
	if params.Config.PubSub != nil {
		audience = params.Config.PubSub.PushAudience
	}

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		audience:       audience,
		validate:       idtoken.Validate,
		logger:         params.Logger,
		notificationUC: params.NotificationUC,
	}
}

// HandlePush answers 200 when the message is done with (delivered or
// undeliverable), 400 when it cannot be read, and 503 to ask for a redelivery.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	eventType := pushMsg.Message.Attributes[constants.EventTypeAttribute]
	requestID := extractRequestID(ctx, &pushMsg)
	reqLogger := h.logger.With(
		slog.String("request_id", requestID),
		slog.String("event_type", eventType),
		slog.String("message_id", pushMsg.Message.MessageID),
	)
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	err = h.dispatch(ctx, eventType, data)
	switch {
	case err == nil:
		reqLogger.Info("[Worker] Event processed")

		return c.NoContent(http.StatusOK)
	case errors.Is(err, errMalformedEvent):
		reqLogger.Error("[Worker] Malformed event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	case isPermanent(err):
		// Redelivery cannot fix a bad payload, so acknowledge it.
		reqLogger.Warn("[Worker] Dropping undeliverable event", slog.Any("error", err))

		return c.NoContent(http.StatusOK)
	default:
		reqLogger.Error("[Worker] Failed to process event, requesting redelivery", slog.Any("error", err))

		return c.NoContent(http.StatusServiceUnavailable)
	}
}

var errMalformedEvent = errors.New("malformed event")

func (h *PushHandler) dispatch(ctx context.Context, eventType string, data []byte) error {
	switch eventType {
	case service.EventOrderPlaced:
		var event service.OrderPlacedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return errors.Wrap(errMalformedEvent, err.Error())
		}

		return h.notificationUC.NotifyOrderPlaced(ctx, &event)
	case service.EventAccountRegistered, service.EventAccountPasswordChanged:
		var event service.AccountEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return errors.Wrap(errMalformedEvent, err.Error())
		}
		if event.Type == "" {
			event.Type = eventType
		}

		return h.notificationUC.NotifyAccountEvent(ctx, &event)
	default:
		return domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unsupported event type %q", eventType))
	}
}

// isPermanent reports whether the failure is a client-side error that a retry cannot fix.
func isPermanent(err error) bool {
	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}

	return appErr.HTTPCode() >= http.StatusBadRequest && appErr.HTTPCode() < http.StatusInternalServerError
}

// extractRequestID prefers the message attribute, then the inbound request ID, then a fresh one.
func extractRequestID(ctx context.Context, pushMsg *PubSubMessage) string {
	if requestID := pushMsg.Message.Attributes["request_id"]; requestID != "" {
		return requestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken verifies the OIDC token Google attaches to push requests.
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func (h *PushHandler) verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return errors.New("invalid authorization header format")
	}

	// Without a configured audience, the push endpoint URL is expected.
	audience := h.audience
	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	payload, err := h.validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
