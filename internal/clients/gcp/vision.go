package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/scan"
)

// visionDetector implements scan.TextDetector over the Cloud Vision
// DOCUMENT_TEXT_DETECTION feature.
type visionDetector struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
}

func NewVisionDetector(log *logger.Logger) (scan.TextDetector, func() error, error) {
	if log == nil {
		return nil, nil, fmt.Errorf("logger required")
	}
	ctx := context.Background()
	client, err := vision.NewImageAnnotatorClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, nil, fmt.Errorf("vision client: %w", err)
	}
	d := &visionDetector{
		log:    log.With("service", "gcp.Vision"),
		client: client,
	}
	return d, client.Close, nil
}

func (d *visionDetector) DetectDocumentText(ctx context.Context, img []byte, languageHints []string) (*scan.DetectedText, error) {
	if len(img) == 0 {
		return &scan.DetectedText{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
		ImageContext: &visionpb.ImageContext{LanguageHints: languageHints},
	}
	br := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{req}}

	resp, err := d.client.BatchAnnotateImages(ctx, br)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return &scan.DetectedText{}, nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	fta := r0.FullTextAnnotation
	if fta == nil || strings.TrimSpace(fta.Text) == "" {
		return &scan.DetectedText{}, nil
	}

	out := &scan.DetectedText{Text: strings.TrimSpace(fta.Text)}
	for _, page := range fta.Pages {
		if page == nil {
			continue
		}
		for _, block := range page.Blocks {
			if block == nil {
				continue
			}
			out.Tokens = append(out.Tokens, scan.DetectedToken{
				Text:        blockText(block),
				Confidence:  float64(block.Confidence),
				HasScore:    block.Confidence > 0,
				BoundingBox: bboxVertices(block.BoundingBox),
			})
		}
	}
	return out, nil
}

func blockText(block *visionpb.Block) string {
	var b strings.Builder
	for _, para := range block.Paragraphs {
		if para == nil {
			continue
		}
		for _, word := range para.Words {
			if word == nil {
				continue
			}
			for _, sym := range word.Symbols {
				if sym != nil {
					b.WriteString(sym.Text)
				}
			}
			b.WriteString(" ")
		}
	}
	return collapseWhitespace(b.String())
}

func bboxVertices(bp *visionpb.BoundingPoly) [][2]float64 {
	if bp == nil {
		return nil
	}
	verts := bp.NormalizedVertices
	if len(verts) > 0 {
		out := make([][2]float64, 0, len(verts))
		for _, v := range verts {
			if v != nil {
				out = append(out, [2]float64{float64(v.X), float64(v.Y)})
			}
		}
		return out
	}
	out := make([][2]float64, 0, len(bp.Vertices))
	for _, v := range bp.Vertices {
		if v != nil {
			out = append(out, [2]float64{float64(v.X), float64(v.Y)})
		}
	}
	return out
}
