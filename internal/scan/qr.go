package scan

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

type QRLocation struct {
	Points [][2]float64 `json:"points"`
}

type QRResult struct {
	Success   bool        `json:"success"`
	HasQRCode bool        `json:"hasQRCode"`
	Data      string      `json:"qrData,omitempty"`
	Location  *QRLocation `json:"qrLocation,omitempty"`
	Parsed    *QRPayload  `json:"parsedQRData,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// QRAdapter decodes at most one QR code from the full image. Decode
// failures degrade to {success:false, hasQRCode:false}.
type QRAdapter struct {
	log    *logger.Logger
	reader gozxing.Reader
}

func NewQRAdapter(log *logger.Logger) *QRAdapter {
	return &QRAdapter{
		log:    log.With("adapter", "QRAdapter"),
		reader: qrcode.NewQRCodeReader(),
	}
}

func (a *QRAdapter) Detect(img []byte) QRResult {
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		a.log.Warn("image decode for qr detection failed", "error", err)
		return QRResult{Success: false, HasQRCode: false, Error: err.Error()}
	}

	// zxing wants a luminance source; go through RGBA so exotic source
	// formats (CMYK jpeg, paletted png) don't trip it up.
	rgba := image.NewRGBA(decoded.Bounds())
	draw.Draw(rgba, rgba.Bounds(), decoded, decoded.Bounds().Min, draw.Src)

	bmp, err := gozxing.NewBinaryBitmapFromImage(rgba)
	if err != nil {
		a.log.Warn("qr bitmap construction failed", "error", err)
		return QRResult{Success: false, HasQRCode: false, Error: err.Error()}
	}

	result, err := a.reader.Decode(bmp, nil)
	if err != nil {
		// NotFoundException is the usual outcome for cards without a QR.
		return QRResult{Success: true, HasQRCode: false}
	}

	data := result.GetText()
	var loc *QRLocation
	if pts := result.GetResultPoints(); len(pts) > 0 {
		loc = &QRLocation{Points: make([][2]float64, 0, len(pts))}
		for _, p := range pts {
			if p == nil {
				continue
			}
			loc.Points = append(loc.Points, [2]float64{p.GetX(), p.GetY()})
		}
	}

	parsed := ParseQRPayload(data)
	return QRResult{
		Success:   true,
		HasQRCode: true,
		Data:      data,
		Location:  loc,
		Parsed:    &parsed,
	}
}
