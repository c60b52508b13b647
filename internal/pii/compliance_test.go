package pii

import "testing"

func TestValidate(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("CPF fails compliance", func(t *testing.T) {
		check := engine.ValidateText("Meu CPF é 123.456.789-01")

		if check.IsCompliant {
			t.Error("CPF text should not be compliant")
		}
		if !check.CriticalPIIDetected {
			t.Error("CPF is a critical type")
		}
		if !check.RequiresMasking {
			t.Error("Detected PII requires masking")
		}
		if check.RecommendedAction != ActionMaskPII {
			t.Errorf("Expected %q, got %q", ActionMaskPII, check.RecommendedAction)
		}
		if len(check.Issues) == 0 {
			t.Error("Expected at least one issue")
		}
	})

	t.Run("Email is critical", func(t *testing.T) {
		check := engine.ValidateText("contato: maria@example.com")

		if !check.CriticalPIIDetected {
			t.Error("Email is a critical type")
		}
		if check.IsCompliant {
			t.Error("Email text should not be compliant")
		}
	})

	t.Run("Clean text is compliant", func(t *testing.T) {
		check := engine.ValidateText("nothing sensitive here")

		if !check.IsCompliant {
			t.Errorf("Clean text should be compliant, issues: %v", check.Issues)
		}
		if check.CriticalPIIDetected || check.RequiresMasking {
			t.Error("Clean text should not flag anything")
		}
		if check.RecommendedAction != ActionProceed {
			t.Errorf("Expected %q, got %q", ActionProceed, check.RecommendedAction)
		}
		if check.ComplianceScore != 1.0 {
			t.Errorf("Clean text score should be 1.0, got %f", check.ComplianceScore)
		}
	})

	t.Run("Non-critical low confidence", func(t *testing.T) {
		// Address alone: not critical, confidence 0.70 below the high
		// confidence threshold, so no issues even though PII is present.
		check := engine.ValidateText("Rua das Flores, 123")

		if !check.IsCompliant {
			t.Errorf("Expected compliant, issues: %v", check.Issues)
		}
		if !check.RequiresMasking {
			t.Error("PII present still requires masking")
		}
		if check.RecommendedAction != ActionMaskPII {
			t.Errorf("Expected %q, got %q", ActionMaskPII, check.RecommendedAction)
		}
	})

	t.Run("High confidence issue without critical type", func(t *testing.T) {
		result := DetectionResult{
			HasPII:          true,
			TypesFound:      []PIIType{TypeCreditCard},
			ConfidenceScore: 0.95,
		}

		check := Validate(&result)
		if check.CriticalPIIDetected {
			t.Error("Credit card is not in the critical set")
		}
		if check.IsCompliant {
			t.Error("High confidence detection should raise an issue")
		}
		if len(check.Issues) != 1 || check.Issues[0] != "High confidence PII detection" {
			t.Errorf("Unexpected issues: %v", check.Issues)
		}
	})

	t.Run("Score complements confidence", func(t *testing.T) {
		result := DetectionResult{
			HasPII:          true,
			TypesFound:      []PIIType{TypeCPF},
			ConfidenceScore: 0.95,
		}

		check := Validate(&result)
		if got := check.ComplianceScore; got < 0.049 || got > 0.051 {
			t.Errorf("Expected score ~0.05, got %f", got)
		}
	})
}

func TestIsCritical(t *testing.T) {
	for _, critical := range []PIIType{TypeCPF, TypeRG, TypeEmail} {
		if !IsCritical(critical) {
			t.Errorf("%s should be critical", critical)
		}
	}
	for _, regular := range []PIIType{TypeCNPJ, TypePhone, TypeCreditCard, TypeAddress} {
		if IsCritical(regular) {
			t.Errorf("%s should not be critical", regular)
		}
	}
}
