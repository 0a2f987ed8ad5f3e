package scan

import (
	"regexp"
	"strings"
)

type QRPayloadType string

const (
	QRPayloadVCard QRPayloadType = "vcard"
	QRPayloadURL   QRPayloadType = "url"
	QRPayloadText  QRPayloadType = "text"
	QRPayloadRaw   QRPayloadType = "raw"
)

// QRPayload is the classified form of a decoded QR string. Fields holds a
// contact-field map for vcard and structured-text payloads.
type QRPayload struct {
	Type       QRPayloadType     `json:"type"`
	Fields     map[string]string `json:"fields,omitempty"`
	URL        string            `json:"url,omitempty"`
	Data       string            `json:"data,omitempty"`
	ParseError string            `json:"parseError,omitempty"`
}

var phoneLineStart = regexp.MustCompile(`^\+?\d`)

// ParseQRPayload classifies a decoded QR payload by content sniffing:
// vCard, then URL, then structured contact text, then freeform. It never
// returns an error; unmatched content falls through to a raw payload.
func ParseQRPayload(data string) QRPayload {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return QRPayload{Type: QRPayloadRaw, Data: data, ParseError: "empty payload"}
	}

	if strings.HasPrefix(trimmed, "BEGIN:VCARD") {
		return parseVCard(trimmed)
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return QRPayload{Type: QRPayloadURL, URL: trimmed}
	}
	if strings.Contains(trimmed, "@") && strings.Contains(trimmed, "\n") {
		return parseStructuredText(trimmed)
	}
	return QRPayload{Type: QRPayloadText, Data: trimmed}
}

func parseVCard(raw string) QRPayload {
	fields := map[string]string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, ":")
		if !found || value == "" {
			continue
		}
		// Parameters like TEL;TYPE=WORK are matched on the base property.
		prop := strings.ToUpper(key)
		if idx := strings.Index(prop, ";"); idx >= 0 {
			prop = prop[:idx]
		}
		switch prop {
		case "FN":
			fields["name"] = value
		case "EMAIL":
			fields["email"] = value
		case "TEL":
			fields["phone"] = value
		case "ORG":
			fields["company"] = value
		case "TITLE":
			fields["jobTitle"] = value
		case "URL":
			fields["website"] = value
		}
	}
	if len(fields) == 0 {
		return QRPayload{Type: QRPayloadRaw, Data: raw, ParseError: "vcard contained no recognized properties"}
	}
	return QRPayload{Type: QRPayloadVCard, Fields: fields}
}

// parseStructuredText handles loose "email + lines" payloads: the first
// line containing @ becomes email, a line starting with digits the phone,
// and the first two remaining lines of plausible length name then company.
func parseStructuredText(raw string) QRPayload {
	fields := map[string]string{}
	var others []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.Contains(line, "@") && fields["email"] == "":
			fields["email"] = line
		case phoneLineStart.MatchString(line) && fields["phone"] == "":
			fields["phone"] = line
		case len(line) >= 2 && len(line) <= 50 && len(others) < 2:
			others = append(others, line)
		}
	}
	if len(others) > 0 {
		fields["name"] = others[0]
	}
	if len(others) > 1 {
		fields["company"] = others[1]
	}
	if fields["email"] == "" {
		return QRPayload{Type: QRPayloadRaw, Data: raw, ParseError: "structured text had no email line"}
	}
	return QRPayload{Type: QRPayloadText, Fields: fields, Data: raw}
}
