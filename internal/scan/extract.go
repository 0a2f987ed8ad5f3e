package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

// ErrAIResponseNotJSON marks a generative response with no parseable JSON
// object; the caller falls back to the regex extractor.
var ErrAIResponseNotJSON = errors.New("ai response contained no JSON object")

// minAITextLength is the OCR text threshold under which the AI call is
// skipped and only QR-derived fields are returned.
const minAITextLength = 10

type Extraction struct {
	Fields      []ScanField
	AIProcessed bool
	AIError     string
	CostUSD     float64
}

// AIFieldExtractor turns raw OCR text into categorized fields through a
// side-aware generative prompt, with QR-derived fields appended and the
// regex extractor as its failure path.
type AIFieldExtractor struct {
	log  *logger.Logger
	gen  TextGenerator
	cost *CostEstimator
}

func NewAIFieldExtractor(log *logger.Logger, gen TextGenerator, cost *CostEstimator) *AIFieldExtractor {
	return &AIFieldExtractor{
		log:  log.With("service", "AIFieldExtractor"),
		gen:  gen,
		cost: cost,
	}
}

// Extract never returns an error: every failure inside the AI path is
// converted to a regex-extracted result with AIError set.
func (x *AIFieldExtractor) Extract(ctx context.Context, ocrText string, qr *QRPayload, side Side) Extraction {
	trimmed := strings.TrimSpace(ocrText)

	if len(trimmed) < minAITextLength {
		return Extraction{
			Fields:      FieldsFromQR(qr, side),
			AIProcessed: false,
			CostUSD:     0,
		}
	}

	fields, usage, err := x.extractViaModel(ctx, trimmed, side)
	if err != nil {
		x.log.Warn("ai extraction failed, falling back to regex", "side", side, "error", err)
		fallback := ExtractBasicFields(trimmed, side)
		fallback = append(fallback, FieldsFromQR(qr, side)...)
		return Extraction{
			Fields:      fallback,
			AIProcessed: false,
			AIError:     err.Error(),
			CostUSD:     x.cost.FallbackCost(),
		}
	}

	fields = append(fields, FieldsFromQR(qr, side)...)
	return Extraction{
		Fields:      fields,
		AIProcessed: true,
		CostUSD:     x.cost.CallCost(usage),
	}
}

func (x *AIFieldExtractor) extractViaModel(ctx context.Context, text string, side Side) ([]ScanField, *TokenUsage, error) {
	prompt := buildExtractionPrompt(text, side)

	resp, err := x.gen.GenerateText(ctx, prompt, &GenerateOptions{Temperature: 0.1, MaxOutputTokens: 1024})
	if err != nil {
		return nil, nil, fmt.Errorf("generate: %w", err)
	}

	raw, err := extractJSONObject(resp.Text)
	if err != nil {
		return nil, nil, err
	}

	fields := make([]ScanField, 0, len(raw))
	for _, kv := range raw {
		value := strings.TrimSpace(kv.Value)
		if value == "" {
			continue
		}
		fields = append(fields, BuildField(kv.Key, value, aiSource(side), side))
	}
	return fields, resp.Usage, nil
}

type rawField struct {
	Key   string
	Value string
}

// extractJSONObject pulls the first {...} region out of free model text and
// decodes it as a flat key -> string map, preserving key order.
func extractJSONObject(text string) ([]rawField, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, ErrAIResponseNotJSON
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIResponseNotJSON, err)
	}

	// Re-walk the raw region with a decoder to keep key order stable.
	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIResponseNotJSON, err)
	}
	var out []rawField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := keyTok.(string)
		if !ok {
			break
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			break
		}
		if s, ok := val.(string); ok {
			out = append(out, rawField{Key: key, Value: s})
		}
	}
	if len(out) == 0 && len(obj) > 0 {
		for k, v := range obj {
			if s, ok := v.(string); ok {
				out = append(out, rawField{Key: k, Value: s})
			}
		}
	}
	return out, nil
}

func buildExtractionPrompt(text string, side Side) string {
	var b strings.Builder
	b.WriteString("You are extracting contact fields from OCR text of a business card ")
	b.WriteString(string(side))
	b.WriteString(" side.\n\n")

	if side == SideBack {
		b.WriteString("The back of a card usually carries social media handles, secondary contact details, certifications, services, and QR-adjacent info. Prioritize those.\n\n")
	} else {
		b.WriteString("The front of a card usually carries the person's name, job title, company and primary contact details. Prioritize those.\n\n")
	}

	b.WriteString("Standard fields: name, email, phone, company, jobTitle, website, address.\n")
	b.WriteString("Extended fields: tagline, linkedin, twitter, instagram, facebook, whatsapp, telegram, education, certification, experience, skills, specialization, languages, department.\n\n")
	b.WriteString("If you find valuable text that matches none of these, invent a descriptive camelCase key for it. Examples:\n")
	b.WriteString("  \"officeHours\": \"Mon-Fri 9am-5pm\"\n")
	b.WriteString("  \"licenseNumber\": \"RE-48213\"\n")
	b.WriteString("  \"githubProfile\": \"github.com/jdoe\"\n\n")
	b.WriteString("Reply with exactly one JSON object mapping field keys to string values. No prose, no markdown fences. Omit fields you cannot find.\n\n")
	b.WriteString("OCR TEXT:\n")
	b.WriteString(text)
	return b.String()
}
