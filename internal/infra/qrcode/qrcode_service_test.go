package qrcode

import (
	"bytes"
	"encoding/json"
	"image/png"
	"testing"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(size int, level string) *qrcodeService {
	return NewQRCodeService(&config.Config{
		QRCode: &config.QRCodeConfig{Size: size, ErrorCorrectionLevel: level},
	}).(*qrcodeService)
}

func TestNewQRCodeService_RecoveryLevels(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"L", "Low"},
		{"M", "Medium"},
		{"q", "High"},
		{"H", "Highest"},
		{"invalid", "Medium"},
	}

	names := map[string]int{"Low": 0, "Medium": 1, "High": 2, "Highest": 3}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			svc := newService(256, tt.level)
			assert.EqualValues(t, names[tt.want], svc.errorCorrectionLevel)
		})
	}
}

func TestQRCodeService_GenerateOrderQR(t *testing.T) {
	for _, size := range []int{128, 256, 512} {
		svc := newService(size, "M")

		pngBytes, err := svc.GenerateOrderQR(uuid.New())
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(pngBytes))
		require.NoError(t, err)
		assert.Equal(t, size, img.Bounds().Dx())
	}
}

func TestQRCodeService_ParseOrderQR(t *testing.T) {
	svc := newService(256, "M")
	orderID := uuid.New()

	valid, err := json.Marshal(QRCodeData{OrderID: orderID.String(), Type: orderPickupType})
	require.NoError(t, err)
	wrongType, err := json.Marshal(QRCodeData{OrderID: orderID.String(), Type: "subscription"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "json payload", payload: string(valid)},
		{name: "bare id", payload: "  " + orderID.String() + "\n"},
		{name: "not json", payload: "hello", wantErr: true},
		{name: "wrong type", payload: string(wrongType), wantErr: true},
		{name: "bad id", payload: `{"order_id":"nope","type":"order_pickup"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ParseOrderQR(tt.payload)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrInvalidQRCode)
				assert.Equal(t, uuid.Nil, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, orderID, got)
		})
	}
}
