package scan

import (
	"context"
	"errors"
	"testing"
)

func TestOCRAdapterRecognize(t *testing.T) {
	t.Run("averages_scored_tokens", func(t *testing.T) {
		det := &fakeDetector{text: "Jane Doe"}
		a := NewOCRAdapter(testLogger(t), det, []string{"en"})

		got := a.Recognize(context.Background(), []byte("img"))
		if !got.Success {
			t.Fatal("expected success")
		}
		if got.Text != "Jane Doe" {
			t.Fatalf("Text = %q", got.Text)
		}
		// Fake tokens score 0.9 and 0.8.
		if got.Confidence != 0.85 {
			t.Fatalf("Confidence = %v, want 0.85", got.Confidence)
		}
		if got.Provider != "gcp_vision" {
			t.Fatalf("Provider = %q", got.Provider)
		}
		if len(got.Blocks) != 2 {
			t.Fatalf("got %d blocks", len(got.Blocks))
		}
	})

	t.Run("provider_error_degrades", func(t *testing.T) {
		det := &fakeDetector{err: errors.New("deadline exceeded")}
		a := NewOCRAdapter(testLogger(t), det, nil)

		got := a.Recognize(context.Background(), []byte("img"))
		if got.Success {
			t.Fatal("expected degraded result")
		}
		if got.Text != "" || got.Confidence != 0 {
			t.Fatalf("degraded result not empty: %+v", got)
		}
		if got.Error == "" {
			t.Fatal("Error should carry the provider failure")
		}
	})

	t.Run("unscored_tokens_default_confidence", func(t *testing.T) {
		det := &staticDetector{detected: &DetectedText{
			Text:   "Acme Corp",
			Tokens: []DetectedToken{{Text: "Acme"}, {Text: "Corp"}},
		}}
		a := NewOCRAdapter(testLogger(t), det, nil)

		got := a.Recognize(context.Background(), []byte("img"))
		if got.Confidence != 0.5 {
			t.Fatalf("Confidence = %v, want 0.5 default", got.Confidence)
		}
	})

	t.Run("empty_text_is_failure", func(t *testing.T) {
		det := &staticDetector{detected: &DetectedText{}}
		a := NewOCRAdapter(testLogger(t), det, nil)
		if got := a.Recognize(context.Background(), []byte("img")); got.Success {
			t.Fatal("empty detection should not be a success")
		}
	})
}

type staticDetector struct {
	detected *DetectedText
}

func (s *staticDetector) DetectDocumentText(context.Context, []byte, []string) (*DetectedText, error) {
	return s.detected, nil
}
