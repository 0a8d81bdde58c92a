package essay

// DetectOutlineOnly reports whether a validated result describes an outline-only
// submission: either the model flagged it, or only the outline category was awarded
// any marks.
func DetectOutlineOnly(result EvaluationResult) bool {
	if result.IsOutlineOnly {
		return true
	}

	if result.Categories.Get(Outline).Score == 0 {
		return false
	}
	for _, c := range Categories() {
		if c != Outline && result.Categories.Get(c).Score != 0 {
			return false
		}
	}
	return true
}

// ApplyOutlineOnlyRule returns a copy of result graded under the outline-only rule when
// detected is true: every category except the outline is zeroed and the total becomes
// the outline score alone. When detected is false the result is returned unchanged.
func ApplyOutlineOnlyRule(result EvaluationResult, detected bool) EvaluationResult {
	if !detected {
		return result
	}

	out := result.clone()
	for _, c := range Categories() {
		if c == Outline {
			continue
		}
		out.Categories[c].Score = 0
	}
	out.TotalScore = out.Categories.Get(Outline).Score
	out.IsOutlineOnly = true
	return out
}
