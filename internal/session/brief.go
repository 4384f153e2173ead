package session

// BriefUpdate is a partial brief. Nil fields are "leave untouched";
// present fields replace the current value wholesale, except
// Constraints, which is shallow-merged into the current constraints.
type BriefUpdate struct {
	Style         *string        `json:"style,omitempty"`
	Palette       *string        `json:"palette,omitempty"`
	Finish        *string        `json:"finish,omitempty"`
	Timeline      *string        `json:"timeline,omitempty"`
	Budget        *string        `json:"budget,omitempty"`
	Vibe          []string       `json:"vibe,omitempty"`
	Rooms         []string       `json:"rooms,omitempty"`
	OpenQuestions []string       `json:"openQuestions,omitempty"`
	Constraints   map[string]any `json:"constraints,omitempty"`
}

// MergeBrief applies a partial update to a brief and returns the
// result. It is total and side-effect free: neither input is mutated
// and the merge never fails. Applying the same update twice yields the
// same result as applying it once.
func MergeBrief(current Brief, updates BriefUpdate) Brief {
	out := current.Clone()

	if updates.Style != nil {
		out.Style = cloneString(updates.Style)
	}
	if updates.Palette != nil {
		out.Palette = cloneString(updates.Palette)
	}
	if updates.Finish != nil {
		out.Finish = cloneString(updates.Finish)
	}
	if updates.Timeline != nil {
		out.Timeline = cloneString(updates.Timeline)
	}
	if updates.Budget != nil {
		out.Budget = cloneString(updates.Budget)
	}

	// Slice fields are replace-only: the caller supplies the full
	// replacement array, there is no element-wise append.
	if updates.Vibe != nil {
		out.Vibe = append([]string(nil), updates.Vibe...)
	}
	if updates.Rooms != nil {
		out.Rooms = append([]string(nil), updates.Rooms...)
	}
	if updates.OpenQuestions != nil {
		out.OpenQuestions = append([]string(nil), updates.OpenQuestions...)
	}

	// Constraints merge key-wise: update keys overwrite, existing keys
	// are preserved.
	if len(updates.Constraints) > 0 {
		if out.Constraints == nil {
			out.Constraints = make(map[string]any, len(updates.Constraints))
		}
		for k, v := range updates.Constraints {
			out.Constraints[k] = v
		}
	}

	return out
}
