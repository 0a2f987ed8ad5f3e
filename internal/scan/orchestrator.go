package scan

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

// ScanRequest is one card scan: one or two sanitize-ready base64 images.
type ScanRequest struct {
	Images   map[Side]string
	Language string
}

// ScanOutcome is the full pipeline output handed back to the service layer.
type ScanOutcome struct {
	Merged         MergedResult
	PerSide        []SideResult
	SidesProcessed []Side
	Duration       time.Duration
	CostUSD        float64
}

// Orchestrator sequences the per-side pipelines, runs sides concurrently,
// merges, and prices the operation. It holds no mutable state across
// requests.
type Orchestrator struct {
	log       *logger.Logger
	ocr       *OCRAdapter
	qr        *QRAdapter
	extractor *AIFieldExtractor
	cost      *CostEstimator
}

func NewOrchestrator(log *logger.Logger, ocr *OCRAdapter, qr *QRAdapter, extractor *AIFieldExtractor, cost *CostEstimator) *Orchestrator {
	return &Orchestrator{
		log:       log.With("service", "ScanOrchestrator"),
		ocr:       ocr,
		qr:        qr,
		extractor: extractor,
		cost:      cost,
	}
}

var tracer = otel.Tracer("github.com/tapfolio/cardscan-backend/internal/scan")

// Scan validates and processes every supplied side concurrently, then
// merges. Input errors (bad images) fail fast before any provider call;
// a single side's pipeline failure degrades to a fallback SideResult
// instead of aborting the other side.
func (o *Orchestrator) Scan(ctx context.Context, req ScanRequest) (*ScanOutcome, error) {
	started := time.Now()

	sides := make([]Side, 0, 2)
	payloads := make(map[Side]string, 2)
	for _, side := range []Side{SideFront, SideBack} {
		raw, ok := req.Images[side]
		if !ok || raw == "" {
			continue
		}
		sanitized, err := SanitizeImage(raw)
		if err != nil {
			return nil, fmt.Errorf("sanitize %s image: %w", side, err)
		}
		sides = append(sides, side)
		payloads[side] = sanitized
	}
	if len(sides) == 0 {
		return nil, fmt.Errorf("no images supplied: %w", ErrInvalidImageFormat)
	}

	results := make([]SideResult, len(sides))
	g, gctx := errgroup.WithContext(ctx)
	for i, side := range sides {
		g.Go(func() error {
			results[i] = o.scanSide(gctx, payloads[side], side)
			return nil
		})
	}
	_ = g.Wait()

	merged := MergeSides(results)

	var subtotal float64
	for _, r := range results {
		subtotal += r.CostUSD
	}
	duration := time.Since(started)
	total := o.cost.FinalCost(subtotal, duration, merged.Metadata.HasQRCode, merged.Metadata.FieldsCount)

	return &ScanOutcome{
		Merged:         merged,
		PerSide:        results,
		SidesProcessed: sides,
		Duration:       duration,
		CostUSD:        total,
	}, nil
}

// scanSide runs one side's pipeline end to end. It catches its own
// failures: a panic or unusable stage produces a fallback SideResult with
// an explanatory Note field rather than an error.
func (o *Orchestrator) scanSide(ctx context.Context, imageB64 string, side Side) (result SideResult) {
	ctx, span := tracer.Start(ctx, "scan.side")
	span.SetAttributes(attribute.String("scan.side", string(side)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("side pipeline panicked", "side", side, "panic", r)
			result = fallbackSideResult(side, fmt.Sprintf("Processing failed unexpectedly: %v", r))
		}
	}()

	imgBytes, err := base64.StdEncoding.DecodeString(imageB64)
	if err != nil {
		return fallbackSideResult(side, "Image could not be decoded from base64")
	}

	ocrResult := o.ocr.Recognize(ctx, imgBytes)
	qrResult := o.qr.Detect(imgBytes)

	var qrPayload *QRPayload
	if qrResult.HasQRCode {
		qrPayload = qrResult.Parsed
	}

	extraction := o.extractor.Extract(ctx, ocrResult.Text, qrPayload, side)
	fields := Deduplicate(extraction.Fields)

	meta := SideMetadata{
		HasQRCode:   qrResult.HasQRCode,
		FieldsCount: len(fields),
		Confidence:  ocrResult.Confidence,
		AIProcessed: extraction.AIProcessed,
		Side:        side,
		ProcessedAt: time.Now().UTC(),
	}
	for _, f := range fields {
		if f.Value != "" {
			meta.FieldsWithData++
		}
		if f.IsDynamic {
			meta.DynamicFieldsCount++
		} else {
			meta.StandardFieldsCount++
		}
	}

	span.SetAttributes(
		attribute.Int("scan.fields", len(fields)),
		attribute.Bool("scan.qr", qrResult.HasQRCode),
		attribute.Bool("scan.ai_processed", extraction.AIProcessed),
	)

	return SideResult{
		Success:      ocrResult.Success || qrResult.HasQRCode || len(fields) > 0,
		ParsedFields: fields,
		Metadata:     meta,
		AIError:      extraction.AIError,
		CostUSD:      extraction.CostUSD,
	}
}

// fallbackSideResult carries a human-readable Note field so a total
// pipeline failure on one side still returns structured data.
func fallbackSideResult(side Side, note string) SideResult {
	noteField := BuildField("note", note, "pipeline_fallback_"+string(side), side)
	return SideResult{
		Success:      false,
		ParsedFields: []ScanField{noteField},
		Metadata: SideMetadata{
			Side:        side,
			FieldsCount: 1,
			ProcessedAt: time.Now().UTC(),
		},
	}
}
