package scan

import (
	"context"
	"math"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

type OCRBlock struct {
	Text        string       `json:"text"`
	Confidence  float64      `json:"confidence"`
	BoundingBox [][2]float64 `json:"boundingBox,omitempty"`
}

type OCRResult struct {
	Success    bool       `json:"success"`
	Text       string     `json:"text"`
	Blocks     []OCRBlock `json:"blocks"`
	Confidence float64    `json:"confidence"`
	Provider   string     `json:"provider,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// OCRAdapter wraps the document-text-detection capability. A provider
// failure degrades to {success:false, text:""} instead of propagating.
type OCRAdapter struct {
	log           *logger.Logger
	detector      TextDetector
	languageHints []string
}

func NewOCRAdapter(log *logger.Logger, detector TextDetector, languageHints []string) *OCRAdapter {
	if len(languageHints) == 0 {
		languageHints = []string{"en"}
	}
	return &OCRAdapter{
		log:           log.With("adapter", "OCRAdapter"),
		detector:      detector,
		languageHints: languageHints,
	}
}

func (a *OCRAdapter) Recognize(ctx context.Context, img []byte) OCRResult {
	detected, err := a.detector.DetectDocumentText(ctx, img, a.languageHints)
	if err != nil {
		a.log.Warn("document text detection failed", "error", err)
		return OCRResult{Success: false, Text: "", Confidence: 0, Blocks: []OCRBlock{}, Error: err.Error()}
	}
	if detected == nil || detected.Text == "" {
		return OCRResult{Success: false, Text: "", Confidence: 0, Blocks: []OCRBlock{}}
	}

	blocks := make([]OCRBlock, 0, len(detected.Tokens))
	var sum float64
	scored := 0
	for _, tok := range detected.Tokens {
		blocks = append(blocks, OCRBlock{
			Text:        tok.Text,
			Confidence:  tok.Confidence,
			BoundingBox: tok.BoundingBox,
		})
		if tok.HasScore {
			sum += tok.Confidence
			scored++
		}
	}

	// Default 0.5 when the provider reported no per-token scores.
	conf := 0.5
	if scored > 0 {
		conf = sum / float64(scored)
	}
	conf = math.Round(conf*100) / 100

	return OCRResult{
		Success:    true,
		Text:       detected.Text,
		Blocks:     blocks,
		Confidence: conf,
		Provider:   "gcp_vision",
	}
}
