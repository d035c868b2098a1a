package impl

import (
	"context"
	"log/slog"
	"strings"
	"text/template"

	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"go.uber.org/fx"
)

var orderPlacedTemplate = template.Must(template.New("order_placed").Parse(
	`Hello {{.CustomerName}},

Thank you for your order {{.OrderID}}.

{{range .Items}}  {{.Quantity}} x {{.ProductName}} @ {{.Price}}
{{end}}
Shipping: {{.ShippingFee}}
Total:    {{.Total}}
{{if .ShippingAddress}}
Deliver to: {{.ShippingAddress}}
{{end}}
Payment is collected on delivery.
`))

var accountTemplates = map[string]struct {
	subject string
	body    *template.Template
}{
	service.EventAccountRegistered: {
		subject: "Welcome to the store",
		body: template.Must(template.New("account_registered").Parse(
			`Hello {{.Username}},

Your account {{.Email}} is ready. Happy shopping!
`)),
	},
	service.EventAccountPasswordChanged: {
		subject: "Your password was changed",
		body: template.Must(template.New("account_password_changed").Parse(
			`Hello {{.Username}},

The password of your account was changed and every session was signed out.
If this was not you, contact support immediately.
`)),
	},
}

type notificationService struct {
	mailer service.Mailer
	logger *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	Mailer service.Mailer
	Logger *slog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		mailer: params.Mailer,
		logger: params.Logger,
	}
}

func (s *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// NotifyOrderPlaced sends the order confirmation e-mail.
func (s *notificationService) NotifyOrderPlaced(ctx context.Context, event *service.OrderPlacedEvent) error {
	if event.CustomerEmail == "" {
		return domainerrors.ErrValidationFailed.WithDetails("order event has no customer e-mail")
	}

	body, err := render(orderPlacedTemplate, event)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, &service.Mail{
		To:      event.CustomerEmail,
		Subject: "Order confirmation " + event.OrderID,
		Body:    body,
	}); err != nil {
		return errors.Wrap(err, "failed to send order confirmation")
	}

	s.log(ctx).Info("Order confirmation sent", slog.String("orderID", event.OrderID))

	return nil
}

// NotifyAccountEvent sends the e-mail matching the account event type.
func (s *notificationService) NotifyAccountEvent(ctx context.Context, event *service.AccountEvent) error {
	tmpl, ok := accountTemplates[event.Type]
	if !ok {
		return domainerrors.ErrValidationFailed.WithDetails("unknown account event type " + event.Type)
	}
	if event.Email == "" {
		return domainerrors.ErrValidationFailed.WithDetails("account event has no e-mail")
	}

	body, err := render(tmpl.body, event)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, &service.Mail{
		To:      event.Email,
		Subject: tmpl.subject,
		Body:    body,
	}); err != nil {
		return errors.Wrapf(err, "failed to send %s mail", event.Type)
	}

	s.log(ctx).Info("Account mail sent", slog.String("type", event.Type), slog.String("customerID", event.CustomerID))

	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", tmpl.Name())
	}

	return sb.String(), nil
}
