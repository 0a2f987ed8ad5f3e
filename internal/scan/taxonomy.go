package scan

import (
	"regexp"
	"strings"
	"unicode"
)

type fieldDef struct {
	Label      string
	Category   FieldCategory
	Confidence float64
}

// standardFields and extendedFields are the immutable field taxonomy,
// keyed by normalized (lower-cased, trimmed) raw key. Categorization always
// resolves here before inventing a dynamic field.
var standardFields = map[string]fieldDef{
	"name":         {Label: "Name", Category: CategoryPersonal, Confidence: 0.95},
	"fullname":     {Label: "Name", Category: CategoryPersonal, Confidence: 0.95},
	"email":        {Label: "Email", Category: CategoryContact, Confidence: 0.95},
	"phone":        {Label: "Phone", Category: CategoryContact, Confidence: 0.9},
	"telephone":    {Label: "Phone", Category: CategoryContact, Confidence: 0.9},
	"company":      {Label: "Company", Category: CategoryProfessional, Confidence: 0.9},
	"organization": {Label: "Company", Category: CategoryProfessional, Confidence: 0.9},
	"jobtitle":     {Label: "Job Title", Category: CategoryProfessional, Confidence: 0.9},
	"title":        {Label: "Job Title", Category: CategoryProfessional, Confidence: 0.85},
	"position":     {Label: "Job Title", Category: CategoryProfessional, Confidence: 0.85},
	"website":      {Label: "Website", Category: CategoryContact, Confidence: 0.85},
	"url":          {Label: "Website", Category: CategoryContact, Confidence: 0.85},
	"address":      {Label: "Address", Category: CategoryContact, Confidence: 0.8},
}

var extendedFields = map[string]fieldDef{
	"tagline":         {Label: "Tagline", Category: CategoryProfessional, Confidence: 0.8},
	"slogan":          {Label: "Tagline", Category: CategoryProfessional, Confidence: 0.8},
	"motto":           {Label: "Tagline", Category: CategoryProfessional, Confidence: 0.75},
	"linkedin":        {Label: "LinkedIn", Category: CategorySocial, Confidence: 0.85},
	"twitter":         {Label: "Twitter", Category: CategorySocial, Confidence: 0.85},
	"instagram":       {Label: "Instagram", Category: CategorySocial, Confidence: 0.85},
	"facebook":        {Label: "Facebook", Category: CategorySocial, Confidence: 0.85},
	"whatsapp":        {Label: "WhatsApp", Category: CategoryContact, Confidence: 0.8},
	"telegram":        {Label: "Telegram", Category: CategoryContact, Confidence: 0.8},
	"education":       {Label: "Education", Category: CategoryProfessional, Confidence: 0.75},
	"degree":          {Label: "Education", Category: CategoryProfessional, Confidence: 0.75},
	"certification":   {Label: "Certification", Category: CategoryProfessional, Confidence: 0.75},
	"experience":      {Label: "Experience", Category: CategoryProfessional, Confidence: 0.75},
	"yearsexperience": {Label: "Experience", Category: CategoryProfessional, Confidence: 0.75},
	"skills":          {Label: "Skills", Category: CategoryProfessional, Confidence: 0.75},
	"specialization":  {Label: "Specialization", Category: CategoryProfessional, Confidence: 0.75},
	"languages":       {Label: "Languages", Category: CategoryProfessional, Confidence: 0.7},
	"department":      {Label: "Department", Category: CategoryProfessional, Confidence: 0.75},
}

const dynamicFieldConfidence = 0.6

type categorized struct {
	Label      string
	Category   FieldCategory
	Type       FieldType
	Confidence float64
	IsDynamic  bool
}

// Categorize maps a raw key/value pair to the canonical taxonomy: standard
// table first, then extended, then a dynamic field with a derived label and
// a heuristically inferred category.
func Categorize(key, value string) categorized {
	// Table keys carry no whitespace, so "Job Title" and "jobTitle" both
	// resolve to the same entry.
	k := strings.ReplaceAll(normalizeKey(key), " ", "")
	if def, ok := standardFields[k]; ok {
		return categorized{Label: def.Label, Category: def.Category, Type: FieldTypeStandard, Confidence: def.Confidence}
	}
	if def, ok := extendedFields[k]; ok {
		return categorized{Label: def.Label, Category: def.Category, Type: FieldTypeExtended, Confidence: def.Confidence}
	}
	return categorized{
		Label:      FormatLabel(key),
		Category:   inferCategory(key, value),
		Type:       FieldTypeDynamic,
		Confidence: dynamicFieldConfidence,
		IsDynamic:  true,
	}
}

// FormatLabel derives a display label from a raw key: spaces before
// capitals, underscores and dashes become spaces, each word Title-Cased.
func FormatLabel(key string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(key))
	for i, r := range runes {
		if r == '_' || r == '-' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) && runes[i-1] != ' ' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	words := strings.Fields(b.String())
	for i, w := range words {
		words[i] = titleCaseWord(w)
	}
	return strings.Join(words, " ")
}

func titleCaseWord(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var digitPattern = regexp.MustCompile(`\d{6,}`)

var (
	socialKeywords       = []string{"social", "handle", "profile", "github", "tiktok", "youtube", "discord", "snapchat"}
	professionalKeywords = []string{"office", "work", "team", "role", "license", "university", "school", "diploma", "course", "award", "project"}
	personalKeywords     = []string{"hobby", "hobbies", "interest", "birthday", "favorite", "personal", "pet"}
)

func inferCategory(key, value string) FieldCategory {
	k := normalizeKey(key)
	v := normalizeKey(value)
	for _, kw := range socialKeywords {
		if strings.Contains(k, kw) || strings.HasPrefix(v, "@") {
			return CategorySocial
		}
	}
	if digitPattern.MatchString(value) && (strings.Contains(k, "phone") || strings.Contains(k, "fax") || strings.Contains(k, "mobile") || strings.Contains(k, "cell")) {
		return CategoryContact
	}
	for _, kw := range professionalKeywords {
		if strings.Contains(k, kw) {
			return CategoryProfessional
		}
	}
	for _, kw := range personalKeywords {
		if strings.Contains(k, kw) {
			return CategoryPersonal
		}
	}
	return CategoryOther
}
