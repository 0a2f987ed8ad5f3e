package scan

import "testing"

func TestMergeSides(t *testing.T) {
	front := SideResult{
		Success: true,
		ParsedFields: []ScanField{
			field("Name", "Jane Doe", "enhanced-gemini-ai-front", 0.95, false),
			field("Email", "jane@example.com", "enhanced-gemini-ai-front", 0.95, false),
		},
		Metadata: SideMetadata{Side: SideFront, DynamicFieldsCount: 1},
	}
	back := SideResult{
		Success: true,
		ParsedFields: []ScanField{
			field("Email", "jane@example.com", "qr_code_back", 0.9, false),
			field("LinkedIn", "https://linkedin.com/in/janedoe", "qr_code_back", 0.85, false),
		},
		Metadata: SideMetadata{Side: SideBack, HasQRCode: true, DynamicFieldsCount: 2},
	}

	merged := MergeSides([]SideResult{front, back})

	if !merged.Success {
		t.Fatal("expected success when at least one side succeeded")
	}
	if !merged.Metadata.HasQRCode {
		t.Fatal("HasQRCode should be true when any side had a QR code")
	}
	if merged.Metadata.DynamicFieldsCount != 3 {
		t.Fatalf("DynamicFieldsCount = %d, want sum across sides", merged.Metadata.DynamicFieldsCount)
	}
	if merged.Metadata.FieldsCount != len(merged.ParsedFields) {
		t.Fatalf("FieldsCount = %d, fields = %d", merged.Metadata.FieldsCount, len(merged.ParsedFields))
	}
	if len(merged.ParsedFields) != 3 {
		t.Fatalf("got %d fields, want 3 after dedup", len(merged.ParsedFields))
	}

	var email *ScanField
	for i := range merged.ParsedFields {
		if merged.ParsedFields[i].Label == "Email" {
			email = &merged.ParsedFields[i]
		}
	}
	if email == nil {
		t.Fatal("email field missing after merge")
	}
	if len(email.AlternativeValues) != 1 || email.AlternativeValues[0].Source != "qr_code_back" {
		t.Fatalf("cross-side duplicate should survive as alternative, got %+v", email.AlternativeValues)
	}
}

func TestMergeSidesFailedSideExcluded(t *testing.T) {
	ok := SideResult{
		Success:      true,
		ParsedFields: []ScanField{field("Name", "Jane Doe", "enhanced-gemini-ai-front", 0.95, false)},
		Metadata:     SideMetadata{Side: SideFront},
	}
	failed := SideResult{
		Success:      false,
		ParsedFields: []ScanField{field("Email", "garbage", "basic_regex_back", 0.3, false)},
		Metadata:     SideMetadata{Side: SideBack},
	}

	merged := MergeSides([]SideResult{ok, failed})
	if !merged.Success {
		t.Fatal("one successful side should yield a successful merge")
	}
	if len(merged.ParsedFields) != 1 || merged.ParsedFields[0].Label != "Name" {
		t.Fatalf("failed side's fields leaked into merge: %+v", merged.ParsedFields)
	}
}

func TestMergeSidesAllFailed(t *testing.T) {
	merged := MergeSides([]SideResult{{Success: false}, {Success: false}})
	if merged.Success {
		t.Fatal("merge of only failed sides must not be successful")
	}
	if merged.ParsedFields == nil {
		t.Fatal("ParsedFields should be empty, not nil")
	}
	if len(merged.ParsedFields) != 0 {
		t.Fatalf("got %d fields, want 0", len(merged.ParsedFields))
	}
}
