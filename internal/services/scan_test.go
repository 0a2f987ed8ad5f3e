package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/repos"
	"github.com/tapfolio/cardscan-backend/internal/scan"
	"github.com/tapfolio/cardscan-backend/internal/types"
)

type stubDetector struct{ text string }

func (s *stubDetector) DetectDocumentText(context.Context, []byte, []string) (*scan.DetectedText, error) {
	return &scan.DetectedText{
		Text:   s.text,
		Tokens: []scan.DetectedToken{{Text: "Jane", Confidence: 0.9, HasScore: true}},
	}, nil
}

// stubGenerator answers the extraction prompt with JSON and the greeting
// prompt with a short sentence.
type stubGenerator struct{}

func (stubGenerator) GenerateText(_ context.Context, prompt string, _ *scan.GenerateOptions) (*scan.Generated, error) {
	if strings.Contains(prompt, "OCR TEXT:") {
		return &scan.Generated{
			Text:  "{\"name\": \"Max Power\", \"email\": \"max@example.com\"}",
			Usage: &scan.TokenUsage{InputTokens: 800, OutputTokens: 80},
		}, nil
	}
	return &scan.Generated{Text: "Hi Max, great to meet you!"}, nil
}

func cardImageB64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 13), G: uint8(y * 7), B: uint8(x + y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

type scanHarness struct {
	svc    ScanService
	tokens ScanTokenService
	budget BudgetService
	db     *gorm.DB
	log    *logger.Logger
}

func newScanHarness(t *testing.T, monthlyBudget float64) *scanHarness {
	t.Helper()
	gdb, log := testDB(t)

	est := scan.NewCostEstimator("gemini-2.0-flash")
	det := &stubDetector{text: "Max Power\nmax@example.com"}
	gen := stubGenerator{}

	orchestrator := scan.NewOrchestrator(
		log,
		scan.NewOCRAdapter(log, det, nil),
		scan.NewQRAdapter(log),
		scan.NewAIFieldExtractor(log, gen, est),
		est,
	)
	greeter := scan.NewGreeter(log, gen, "https://tap.example.com/p/jane")

	tokens := NewScanTokenService(gdb, log, repos.NewScanTokenRepo(gdb, log), testJWTSecret, 15*time.Minute)
	budget := NewBudgetService(gdb, log, repos.NewUsageRecordRepo(gdb, log), monthlyBudget)
	svc := NewScanService(gdb, log, orchestrator, greeter, est, tokens, budget, repos.NewScanAuditRepo(gdb, log), "gemini-2.0-flash")

	return &scanHarness{svc: svc, tokens: tokens, budget: budget, db: gdb, log: log}
}

func TestScanCard(t *testing.T) {
	h := newScanHarness(t, 5.0)
	ctx := context.Background()

	ownerID := uuid.New()
	signed, _, err := h.tokens.Issue(ctx, ownerID, "Jane Doe")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	res, err := h.svc.ScanCard(ctx, ScanCardRequest{
		Images:    map[scan.Side]string{scan.SideFront: cardImageB64(t)},
		ScanToken: signed,
		Language:  "en",
		RequestID: "req-1",
	})
	if err != nil {
		t.Fatalf("ScanCard: %v", err)
	}

	if !res.Merged.Success {
		t.Fatal("expected successful scan")
	}
	if len(res.Merged.ParsedFields) != 2 {
		t.Fatalf("got %d fields, want 2", len(res.Merged.ParsedFields))
	}
	if res.Message == nil {
		t.Fatal("a name was extracted, so a greeting is expected")
	}
	if res.Message.Greeting != "Hi Max, great to meet you!" {
		t.Fatalf("Greeting = %q", res.Message.Greeting)
	}
	if res.Message.Signature != "Jane Doe" {
		t.Fatalf("Signature = %q", res.Message.Signature)
	}
	if res.CostUSD <= 0 {
		t.Fatalf("CostUSD = %v", res.CostUSD)
	}

	// The token is consumed and the spend recorded.
	if _, err := h.svc.ScanCard(ctx, ScanCardRequest{
		Images:    map[scan.Side]string{scan.SideFront: cardImageB64(t)},
		ScanToken: signed,
		RequestID: "req-2",
	}); !errors.Is(err, ErrTokenUsed) {
		t.Fatalf("reuse err = %v, want ErrTokenUsed", err)
	}

	spent, err := h.budget.MonthToDate(ctx, ownerID)
	if err != nil {
		t.Fatalf("MonthToDate: %v", err)
	}
	if spent <= 0 {
		t.Fatalf("spend not recorded: %v", spent)
	}

	var audit types.ScanAudit
	if err := h.db.Where("request_id = ?", "req-1").First(&audit).Error; err != nil {
		t.Fatalf("audit lookup: %v", err)
	}
	if !audit.Success || audit.FieldsCount != 2 {
		t.Fatalf("audit = %+v", audit)
	}
}

func TestScanCardValidation(t *testing.T) {
	h := newScanHarness(t, 5.0)
	ctx := context.Background()

	t.Run("missing_token", func(t *testing.T) {
		_, err := h.svc.ScanCard(ctx, ScanCardRequest{
			Images: map[scan.Side]string{scan.SideFront: cardImageB64(t)},
		})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("err = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("missing_images", func(t *testing.T) {
		_, err := h.svc.ScanCard(ctx, ScanCardRequest{ScanToken: "whatever"})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("err = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("bad_image_payload", func(t *testing.T) {
		signed, _, err := h.tokens.Issue(ctx, uuid.New(), "Jane Doe")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		_, err = h.svc.ScanCard(ctx, ScanCardRequest{
			Images:    map[scan.Side]string{scan.SideFront: "!!!not-base64!!!"},
			ScanToken: signed,
		})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("err = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("bogus_token", func(t *testing.T) {
		_, err := h.svc.ScanCard(ctx, ScanCardRequest{
			Images:    map[scan.Side]string{scan.SideFront: cardImageB64(t)},
			ScanToken: "not.a.jwt",
		})
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("err = %v, want ErrInvalidToken", err)
		}
	})
}

func TestScanCardBudgetExceeded(t *testing.T) {
	h := newScanHarness(t, 0.0000001)
	ctx := context.Background()

	signed, row, err := h.tokens.Issue(ctx, uuid.New(), "Jane Doe")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = h.svc.ScanCard(ctx, ScanCardRequest{
		Images:    map[scan.Side]string{scan.SideFront: cardImageB64(t)},
		ScanToken: signed,
	})
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}

	// A rejected request must not burn the token.
	var got types.ScanToken
	if err := h.db.Where("id = ?", row.ID).First(&got).Error; err != nil {
		t.Fatalf("token lookup: %v", err)
	}
	if got.Used {
		t.Fatal("budget rejection consumed the token")
	}
}
