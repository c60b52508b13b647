package pii

import "testing"

func TestNewCatalog(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}

	if catalog.Len() != 10 {
		t.Errorf("Expected 10 patterns, got %d", catalog.Len())
	}

	t.Run("Definition order stable", func(t *testing.T) {
		want := []PIIType{
			TypeCPF, TypeRG, TypeCNPJ,
			TypeEmail, TypePhone, TypePassport,
			TypeCreditCard, TypeBankAccount,
			TypeAddress, TypePostalCode,
		}

		got := catalog.Types()
		if len(got) != len(want) {
			t.Fatalf("Expected %d types, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})

	t.Run("Examples match own pattern", func(t *testing.T) {
		for _, piiType := range catalog.Types() {
			p := catalog.Pattern(piiType)
			if p == nil {
				t.Fatalf("No pattern for %s", piiType)
			}
			if p.Confidence <= 0 || p.Confidence > 1 {
				t.Errorf("%s: confidence %f out of range", piiType, p.Confidence)
			}
			for _, example := range p.Examples {
				if !p.re.MatchString(example) {
					t.Errorf("%s: example %q does not match its own pattern", piiType, example)
				}
			}
		}
	})

	t.Run("Unknown type", func(t *testing.T) {
		if catalog.Pattern(PIIType("dna_sequence")) != nil {
			t.Error("Unknown type should return nil")
		}
	})

	t.Run("Case insensitive", func(t *testing.T) {
		p := catalog.Pattern(TypeBankAccount)
		if !p.re.MatchString("CONTA: 12345-6") {
			t.Error("Matching should be case-insensitive")
		}
	})
}

func TestCatalogBadPattern(t *testing.T) {
	_, err := newCatalog([]Pattern{
		{Type: TypeCPF, Regex: `(\d{3}`, Confidence: 0.95},
	})
	if err == nil {
		t.Fatal("Invalid regex should fail catalog construction")
	}
}
