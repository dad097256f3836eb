package feature

import "testing"

func TestFitVocabularyDeterministic(t *testing.T) {
	a := FitVocabulary([]string{"London", "Tokyo", "New York", "Tokyo"})
	b := FitVocabulary([]string{"Tokyo", "New York", "London"})

	for _, v := range []string{"London", "New York", "Tokyo"} {
		if a.Encode(v) != b.Encode(v) {
			t.Errorf("code for %q differs by input order: %d vs %d", v, a.Encode(v), b.Encode(v))
		}
	}
	if a.Unknown != 3 {
		t.Errorf("unknown code = %d, want 3", a.Unknown)
	}
}

func TestEncodeIdempotentAndReadOnly(t *testing.T) {
	v := FitVocabulary([]string{"mobile", "desktop", "tablet"})

	first := v.Encode("mobile")
	if v.Encode("mobile") != first {
		t.Error("encoding the same known value twice gave different codes")
	}

	before := len(v.Codes)
	if got := v.Encode("smartwatch"); got != v.Unknown {
		t.Errorf("unseen value code = %d, want unknown code %d", got, v.Unknown)
	}
	// Repeat: must still be unknown, and the vocabulary must not have grown.
	if got := v.Encode("smartwatch"); got != v.Unknown {
		t.Errorf("second unseen lookup = %d, want %d", got, v.Unknown)
	}
	if len(v.Codes) != before {
		t.Errorf("Encode mutated the vocabulary: %d codes, had %d", len(v.Codes), before)
	}
}

func TestRegisterNeverRenumbers(t *testing.T) {
	v := FitVocabulary([]string{"Berlin", "Paris"})
	berlin := v.Encode("Berlin")
	paris := v.Encode("Paris")
	oldUnknown := v.Unknown

	code := v.Register("Sydney")
	if code != oldUnknown {
		t.Errorf("new value got code %d, want previous unknown slot %d", code, oldUnknown)
	}
	if v.Encode("Berlin") != berlin || v.Encode("Paris") != paris {
		t.Error("Register renumbered existing codes")
	}
	if v.Unknown != oldUnknown+1 {
		t.Errorf("unknown code = %d, want %d", v.Unknown, oldUnknown+1)
	}

	// Registering an existing value is a no-op.
	if got := v.Register("Berlin"); got != berlin {
		t.Errorf("re-registering Berlin gave %d, want %d", got, berlin)
	}

	if err := v.Validate(); err != nil {
		t.Errorf("vocabulary invalid after Register: %v", err)
	}
}
