package permission

// Gap computes missing and satisfied scopes and the coverage
// confidence.
//
// missing = required − available, in the declaration order of
// required, with duplicates removed. confidence is
// |required ∩ available| / |required|, or 1.0 when required is empty.
func Gap(required, available []string) (missing, satisfied []string, confidence float64) {
	have := make(map[string]struct{}, len(available))
	for _, s := range available {
		have[s] = struct{}{}
	}

	seen := make(map[string]struct{}, len(required))
	total := 0
	for _, s := range required {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		total++
		if _, ok := have[s]; ok {
			satisfied = append(satisfied, s)
		} else {
			missing = append(missing, s)
		}
	}

	if total == 0 {
		return nil, nil, 1.0
	}
	return missing, satisfied, float64(len(satisfied)) / float64(total)
}
