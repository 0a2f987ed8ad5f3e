package scan

import "strings"

// BuildField runs one raw key/value pair through categorization,
// normalization and validation, producing a fully scored ScanField.
func BuildField(key, value, source string, side Side) ScanField {
	cat := Categorize(key, value)
	normalized := NormalizeValue(cat.Label, value)
	validation := ValidateField(cat.Label, cat.Category, normalized)

	adjusted := cat.Confidence
	if !validation.IsValid {
		adjusted = cat.Confidence * invalidConfidencePenalty
	}

	return ScanField{
		Label:              cat.Label,
		Value:              normalized,
		NormalizedValue:    validation.NormalizedValue,
		Type:               cat.Type,
		Category:           cat.Category,
		Confidence:         cat.Confidence,
		AdjustedConfidence: adjusted,
		IsDynamic:          cat.IsDynamic,
		IsValid:            validation.IsValid,
		ValidationErrors:   validation.Errors,
		Source:             source,
		Side:               side,
	}
}

// FieldsFromQR converts a parsed QR contact-field map into ScanFields
// tagged with the qr_code source for the given side.
func FieldsFromQR(parsed *QRPayload, side Side) []ScanField {
	if parsed == nil {
		return nil
	}
	var fields []ScanField
	if parsed.Type == QRPayloadURL && parsed.URL != "" {
		fields = append(fields, BuildField("website", parsed.URL, qrSource(side), side))
		return fields
	}
	// Fixed iteration order keeps output stable across runs.
	for _, key := range []string{"name", "email", "phone", "company", "jobTitle", "website"} {
		value, ok := parsed.Fields[key]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		fields = append(fields, BuildField(key, value, qrSource(side), side))
	}
	return fields
}

func qrSource(side Side) string {
	return "qr_code_" + string(side)
}

func aiSource(side Side) string {
	return "enhanced-gemini-ai-" + string(side)
}

func regexSource(side Side) string {
	return "basic_regex_" + string(side)
}
