package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for order pickup QR codes
type QRCodeService interface {
	// GenerateOrderQR renders a PNG QR code identifying the order
	GenerateOrderQR(orderID uuid.UUID) ([]byte, error)

	// ParseOrderQR decodes a scanned payload and returns the order ID
	ParseOrderQR(qrData string) (uuid.UUID, error)
}
