package scan

import "regexp"

var (
	emailExtract = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneExtract = regexp.MustCompile(`(\+1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
)

const (
	regexEmailConfidence = 0.8
	regexPhoneConfidence = 0.7
)

// ExtractBasicFields is the deterministic fallback extractor used when the
// AI path fails: at most one email and one phone number, no external calls.
func ExtractBasicFields(text string, side Side) []ScanField {
	var fields []ScanField
	if email := emailExtract.FindString(text); email != "" {
		f := BuildField("email", email, regexSource(side), side)
		f.Confidence = regexEmailConfidence
		f.AdjustedConfidence = adjustForValidity(regexEmailConfidence, f.IsValid)
		fields = append(fields, f)
	}
	if phone := phoneExtract.FindString(text); phone != "" {
		f := BuildField("phone", phone, regexSource(side), side)
		f.Confidence = regexPhoneConfidence
		f.AdjustedConfidence = adjustForValidity(regexPhoneConfidence, f.IsValid)
		fields = append(fields, f)
	}
	return fields
}

func adjustForValidity(confidence float64, isValid bool) float64 {
	if isValid {
		return confidence
	}
	return confidence * invalidConfidencePenalty
}
