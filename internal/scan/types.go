package scan

import (
	"strings"
	"time"
)

type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

type FieldType string

const (
	FieldTypeStandard FieldType = "standard"
	FieldTypeExtended FieldType = "extended"
	FieldTypeDynamic  FieldType = "dynamic"
)

type FieldCategory string

const (
	CategoryPersonal     FieldCategory = "personal"
	CategoryProfessional FieldCategory = "professional"
	CategoryContact      FieldCategory = "contact"
	CategorySocial       FieldCategory = "social"
	CategoryOther        FieldCategory = "other"
)

// ScanField is one extracted contact datum. AdjustedConfidence is always
// <= Confidence; it drops to Confidence*0.7 when structural validation fails.
type ScanField struct {
	Label              string             `json:"label"`
	Value              string             `json:"value"`
	NormalizedValue    string             `json:"normalizedValue"`
	Type               FieldType          `json:"type"`
	Category           FieldCategory      `json:"category"`
	Confidence         float64            `json:"confidence"`
	AdjustedConfidence float64            `json:"adjustedConfidence"`
	IsDynamic          bool               `json:"isDynamic"`
	IsValid            bool               `json:"isValid"`
	ValidationErrors   []string           `json:"validationErrors"`
	Source             string             `json:"source"`
	Side               Side               `json:"side"`
	AlternativeValues  []AlternativeValue `json:"alternativeValues,omitempty"`
}

// AlternativeValue records a candidate that lost deduplication, kept for
// audit and manual correction.
type AlternativeValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

type SideMetadata struct {
	HasQRCode           bool      `json:"hasQRCode"`
	FieldsCount         int       `json:"fieldsCount"`
	FieldsWithData      int       `json:"fieldsWithData"`
	DynamicFieldsCount  int       `json:"dynamicFieldsCount"`
	StandardFieldsCount int       `json:"standardFieldsCount"`
	Confidence          float64   `json:"confidence"`
	AIProcessed         bool      `json:"aiProcessed"`
	Side                Side      `json:"side"`
	ProcessedAt         time.Time `json:"processedAt"`
}

// SideResult is the outcome of one card side's pipeline, pre-merge.
type SideResult struct {
	Success      bool         `json:"success"`
	ParsedFields []ScanField  `json:"parsedFields"`
	Metadata     SideMetadata `json:"metadata"`
	AIError      string       `json:"aiError,omitempty"`
	CostUSD      float64      `json:"-"`
}

type MergedMetadata struct {
	HasQRCode          bool `json:"hasQRCode"`
	DynamicFieldsCount int  `json:"dynamicFieldsCount"`
	FieldsCount        int  `json:"fieldsCount"`
}

// MergedResult is the deduplicated union of all processed sides.
type MergedResult struct {
	Success      bool           `json:"success"`
	ParsedFields []ScanField    `json:"parsedFields"`
	Metadata     MergedMetadata `json:"metadata"`
}

// normalizeKey is the single key normalizer used for every taxonomy and
// dedup lookup so grouping stays consistent across the pipeline.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
