package scan

import (
	"net/url"
	"regexp"
	"strings"
)

// invalidConfidencePenalty scales confidence down when structural
// validation fails; adjustedConfidence never exceeds confidence.
const invalidConfidencePenalty = 0.7

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Validation struct {
	IsValid         bool
	Errors          []string
	NormalizedValue string
}

// ValidateField runs per-label structural checks plus category-level
// sanity checks, returning the corrected value when validation found one.
func ValidateField(label string, category FieldCategory, value string) Validation {
	v := Validation{IsValid: true, Errors: []string{}, NormalizedValue: value}

	switch normalizeKey(label) {
	case "email":
		if !emailPattern.MatchString(value) {
			v.IsValid = false
			v.Errors = append(v.Errors, "Invalid email format")
		} else {
			v.NormalizedValue = strings.ToLower(value)
		}
	case "phone":
		digits := phoneStripChars.ReplaceAllString(value, "")
		digits = strings.TrimPrefix(digits, "+")
		if len(digits) < 10 || len(digits) > 15 {
			v.IsValid = false
			v.Errors = append(v.Errors, "Phone number length invalid")
		}
	case "website", "linkedin", "twitter", "instagram", "facebook":
		candidate := value
		if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
			candidate = "https://" + candidate
		}
		parsed, err := url.Parse(candidate)
		if err != nil || parsed.Host == "" || strings.Contains(parsed.Host, " ") {
			v.IsValid = false
			v.Errors = append(v.Errors, "Invalid URL format")
		} else {
			v.NormalizedValue = parsed.String()
		}
	}

	switch category {
	case CategoryContact:
		if len(strings.TrimSpace(value)) < 3 {
			v.IsValid = false
			v.Errors = append(v.Errors, "Contact information too short")
		}
	case CategorySocial:
		if !strings.Contains(value, ".") && !strings.Contains(value, "/") {
			v.IsValid = false
			v.Errors = append(v.Errors, "Social media link appears incomplete")
		}
	}

	return v
}
