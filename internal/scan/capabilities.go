package scan

import "context"

// TextDetector is the document-text-detection capability. Implementations
// wrap a concrete OCR provider; failures are returned as errors and converted
// to degraded results by the OCRAdapter, never propagated past it.
type TextDetector interface {
	DetectDocumentText(ctx context.Context, img []byte, languageHints []string) (*DetectedText, error)
}

type DetectedText struct {
	Text   string
	Tokens []DetectedToken
}

type DetectedToken struct {
	Text        string
	Confidence  float64
	HasScore    bool
	BoundingBox [][2]float64
}

// TextGenerator is the generative-text capability used by the AI field
// extractor and the greeting generator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts *GenerateOptions) (*Generated, error)
}

type GenerateOptions struct {
	SystemInstruction string
	Temperature       float32
	MaxOutputTokens   int32
}

type Generated struct {
	Text  string
	Usage *TokenUsage
}

// TokenUsage is nil when the provider reported no usage metadata; cost
// accounting then falls back to a fixed constant instead of assuming zero.
type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
}
