package scan

// MergeSides combines independently processed per-side results into one
// deduplicated set. A field detected on both sides collapses into one,
// preferring the higher-ranked candidate per Deduplicate's ordering; no
// field is dropped except through that collapse.
func MergeSides(results []SideResult) MergedResult {
	merged := MergedResult{ParsedFields: []ScanField{}}

	var all []ScanField
	for _, r := range results {
		merged.Metadata.HasQRCode = merged.Metadata.HasQRCode || r.Metadata.HasQRCode
		merged.Metadata.DynamicFieldsCount += r.Metadata.DynamicFieldsCount
		if !r.Success {
			continue
		}
		merged.Success = true
		all = append(all, r.ParsedFields...)
	}

	merged.ParsedFields = Deduplicate(all)
	merged.Metadata.FieldsCount = len(merged.ParsedFields)
	return merged
}
