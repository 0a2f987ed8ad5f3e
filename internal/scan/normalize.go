package scan

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	phoneStripChars = regexp.MustCompile(`[\s().\-]`)
	tenDigits       = regexp.MustCompile(`^\d{10}$`)
)

// NormalizeValue applies field-type-specific formatting keyed by canonical
// label. Unknown labels are trimmed only.
func NormalizeValue(label, value string) string {
	v := strings.TrimSpace(value)
	switch normalizeKey(label) {
	case "email":
		return strings.ToLower(v)
	case "phone":
		return normalizePhone(v)
	case "website":
		return completeURL(v, "")
	case "linkedin":
		return completeURL(v, "https://linkedin.com/in/")
	case "twitter":
		return completeURL(v, "https://twitter.com/")
	case "instagram":
		return completeURL(v, "")
	case "facebook":
		return completeURL(v, "")
	case "name", "company", "job title":
		return titleCaseWords(v)
	default:
		return v
	}
}

func normalizePhone(v string) string {
	stripped := phoneStripChars.ReplaceAllString(v, "")
	if tenDigits.MatchString(stripped) {
		return fmt.Sprintf("(%s) %s-%s", stripped[0:3], stripped[3:6], stripped[6:10])
	}
	return stripped
}

// completeURL passes through values that already carry a scheme, prefixes a
// platform profile path for bare handles, and otherwise assumes https for
// anything that looks like a hostname.
func completeURL(v, handlePrefix string) string {
	if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
		return v
	}
	if handlePrefix != "" && !strings.Contains(v, ".") && !strings.Contains(v, "/") {
		return handlePrefix + strings.TrimPrefix(v, "@")
	}
	if strings.Contains(v, ".") && !strings.Contains(v, " ") {
		return "https://" + v
	}
	return v
}

func titleCaseWords(v string) string {
	words := strings.Fields(v)
	for i, w := range words {
		words[i] = titleCaseWord(w)
	}
	return strings.Join(words, " ")
}
