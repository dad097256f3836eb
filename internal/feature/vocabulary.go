package feature

import (
	"fmt"
	"sort"
)

// Vocabulary maps the values of one categorical domain (e.g. "location",
// "device") to dense integer codes. One code is reserved for values never
// seen at fit time. Codes are assigned once and never renumbered: a deployed
// classifier is only valid against the exact code assignment it was fit with.
type Vocabulary struct {
	Codes   map[string]int `json:"codes"`
	Unknown int            `json:"unknown"`
}

// FitVocabulary assigns codes 0..n-1 to the distinct values in sorted order
// and reserves code n for unknown values. Sorting makes the assignment
// deterministic across processes regardless of input order.
func FitVocabulary(values []string) *Vocabulary {
	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		distinct[v] = struct{}{}
	}

	sorted := make([]string, 0, len(distinct))
	for v := range distinct {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	for i, v := range sorted {
		codes[v] = i
	}

	return &Vocabulary{Codes: codes, Unknown: len(sorted)}
}

// Encode returns the code for a value, or the reserved unknown code if the
// value was not seen at fit time. Encode never mutates the vocabulary:
// growing it at inference time would assign codes non-deterministically
// across processes and silently corrupt the feature semantics.
func (v *Vocabulary) Encode(value string) int {
	if code, ok := v.Codes[value]; ok {
		return code
	}
	return v.Unknown
}

// Register adds a previously-unknown value with the next free code. This is
// a retraining-time operation only; codes already assigned are untouched.
// Registering an existing value is a no-op returning its current code.
func (v *Vocabulary) Register(value string) int {
	if code, ok := v.Codes[value]; ok {
		return code
	}
	code := v.Unknown
	v.Codes[value] = code
	v.Unknown = code + 1
	return code
}

// Size returns the number of codes including the reserved unknown code.
func (v *Vocabulary) Size() int {
	return len(v.Codes) + 1
}

// Validate checks internal consistency (dense codes, unknown not colliding).
func (v *Vocabulary) Validate() error {
	seen := make(map[int]string, len(v.Codes))
	for val, code := range v.Codes {
		if code < 0 || code >= v.Unknown {
			return fmt.Errorf("code %d for %q outside [0, %d)", code, val, v.Unknown)
		}
		if prev, dup := seen[code]; dup {
			return fmt.Errorf("code %d assigned to both %q and %q", code, prev, val)
		}
		seen[code] = val
	}
	return nil
}
