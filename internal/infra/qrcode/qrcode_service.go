package qrcode

import (
	"encoding/json"
	"strings"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const orderPickupType = "order_pickup"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData represents the QR code data structure
type QRCodeData struct {
	OrderID string `json:"order_id"`
	Type    string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := 256
	levelName := ""
	if cfg != nil && cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		levelName = cfg.QRCode.ErrorCorrectionLevel
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: parseRecoveryLevel(levelName),
	}
}

func parseRecoveryLevel(name string) qrcode.RecoveryLevel {
	switch strings.ToUpper(name) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// GenerateOrderQR renders the pickup QR code of an order as PNG
func (s *qrcodeService) GenerateOrderQR(orderID uuid.UUID) ([]byte, error) {
	jsonData, err := json.Marshal(QRCodeData{
		OrderID: orderID.String(),
		Type:    orderPickupType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseOrderQR parses a scanned payload and returns the order ID.
// Hand-held scanners sometimes deliver only the bare order ID, which is accepted too.
func (s *qrcodeService) ParseOrderQR(qrData string) (uuid.UUID, error) {
	qrData = strings.TrimSpace(qrData)

	if orderID, err := uuid.Parse(qrData); err == nil {
		return orderID, nil
	}

	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, domainerrors.ErrInvalidQRCode.WrapMessage("payload is not JSON")
	}

	if data.Type != orderPickupType {
		return uuid.Nil, domainerrors.ErrInvalidQRCode.WrapMessage("unexpected QR code type: " + data.Type)
	}

	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, domainerrors.ErrInvalidQRCode.WrapMessage("malformed order ID")
	}

	return orderID, nil
}
