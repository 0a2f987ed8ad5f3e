package scan

import "sort"

// Deduplicate collapses candidate fields to at most one per distinct
// lower-cased label. Within a group, non-dynamic fields beat dynamic ones,
// then higher confidence wins; losing distinct values are retained as
// alternatives. The chosen field is relabeled through the shared label
// formatter so casing is consistent even for taxonomy entries.
func Deduplicate(fields []ScanField) []ScanField {
	groups := map[string][]ScanField{}
	var order []string
	for _, f := range fields {
		key := normalizeKey(f.Label)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], f)
	}

	out := make([]ScanField, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].IsDynamic != group[j].IsDynamic {
				return !group[i].IsDynamic
			}
			return group[i].Confidence > group[j].Confidence
		})

		chosen := group[0]
		chosen.Label = FormatLabel(key)
		for _, other := range group[1:] {
			// An identical value from the same source is a true duplicate;
			// the same value from another source is kept as provenance.
			if other.Value == chosen.Value && other.Source == chosen.Source {
				continue
			}
			chosen.AlternativeValues = append(chosen.AlternativeValues, AlternativeValue{
				Value:      other.Value,
				Confidence: other.Confidence,
				Source:     other.Source,
			})
		}
		out = append(out, chosen)
	}
	return out
}
