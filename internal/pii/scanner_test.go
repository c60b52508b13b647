package pii

import (
	"strings"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	engine, err := NewDefaultEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return engine
}

func hasType(result DetectionResult, want PIIType) bool {
	for _, t := range result.TypesFound {
		if t == want {
			return true
		}
	}
	return false
}

func TestScanDetection(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("CPF", func(t *testing.T) {
		result := engine.Scan("Meu CPF é 123.456.789-01")

		if !result.HasPII {
			t.Fatal("CPF text should have PII")
		}
		if !hasType(result, TypeCPF) {
			t.Errorf("CPF not detected, found %v", result.TypesFound)
		}
		if result.Instances[TypeCPF][0].Value != "123.456.789-01" {
			t.Errorf("Wrong CPF value: %q", result.Instances[TypeCPF][0].Value)
		}
		// The RG pattern co-matches inside the CPF digits, so the score
		// is the mean of 0.95 and 0.85, one float ulp below 0.9.
		if !hasType(result, TypeRG) {
			t.Errorf("RG co-match expected, found %v", result.TypesFound)
		}
		if result.ConfidenceScore < 0.9-1e-9 || result.ConfidenceScore > 0.9+1e-9 {
			t.Errorf("Unexpected CPF confidence: %f", result.ConfidenceScore)
		}
		if strings.Contains(result.MaskedText, "123.456.789-01") {
			t.Errorf("Masked text leaks CPF: %q", result.MaskedText)
		}
	})

	t.Run("Email", func(t *testing.T) {
		result := engine.Scan("Email: joao.silva@empresa.com.br")

		if !hasType(result, TypeEmail) {
			t.Fatalf("Email not detected, found %v", result.TypesFound)
		}
		if result.Instances[TypeEmail][0].Value != "joao.silva@empresa.com.br" {
			t.Errorf("Wrong email value: %q", result.Instances[TypeEmail][0].Value)
		}
		// First and last character of the local part survive, domain intact.
		if !strings.Contains(result.MaskedText, "j********a@empresa.com.br") {
			t.Errorf("Unexpected masked email: %q", result.MaskedText)
		}
	})

	t.Run("Phone", func(t *testing.T) {
		result := engine.Scan("Telefone: (11) 98765-4321")

		if !hasType(result, TypePhone) {
			t.Errorf("Phone not detected, found %v", result.TypesFound)
		}
	})

	t.Run("CNPJ", func(t *testing.T) {
		result := engine.Scan("CNPJ: 12.345.678/0001-95")

		if !hasType(result, TypeCNPJ) {
			t.Errorf("CNPJ not detected, found %v", result.TypesFound)
		}
		if strings.Contains(result.MaskedText, "12.345.678/0001-95") {
			t.Errorf("Masked text leaks CNPJ: %q", result.MaskedText)
		}
	})

	t.Run("PostalCode", func(t *testing.T) {
		result := engine.Scan("CEP: 01234-567")

		if !hasType(result, TypePostalCode) {
			t.Errorf("CEP not detected, found %v", result.TypesFound)
		}
		if len(result.TypesFound) != 1 {
			t.Errorf("Expected only postal_code, found %v", result.TypesFound)
		}
	})

	t.Run("Address", func(t *testing.T) {
		result := engine.Scan("Moro na Rua das Flores, 123 apto 4")

		if !hasType(result, TypeAddress) {
			t.Errorf("Address not detected, found %v", result.TypesFound)
		}
	})

	t.Run("CreditCard", func(t *testing.T) {
		result := engine.Scan("Cartão: 4111 1111 1111 1111")

		if !hasType(result, TypeCreditCard) {
			t.Errorf("Credit card not detected, found %v", result.TypesFound)
		}
		if strings.Contains(result.MaskedText, "4111 1111 1111 1111") {
			t.Errorf("Masked text leaks card number: %q", result.MaskedText)
		}
	})

	t.Run("EmptyString", func(t *testing.T) {
		result := engine.Scan("")

		if result.HasPII {
			t.Error("Empty string should not have PII")
		}
		if len(result.TypesFound) != 0 {
			t.Errorf("Empty string found types: %v", result.TypesFound)
		}
		if result.ConfidenceScore != 0.0 {
			t.Errorf("Empty string confidence should be 0, got %f", result.ConfidenceScore)
		}
		if result.MaskedText != "" {
			t.Errorf("Empty string masked text should be empty, got %q", result.MaskedText)
		}
	})

	t.Run("CleanText", func(t *testing.T) {
		result := engine.Scan("Plain text with no PII at all.")

		if result.HasPII {
			t.Errorf("Clean text flagged, found %v", result.TypesFound)
		}
		if result.MaskedText != "Plain text with no PII at all." {
			t.Errorf("Clean text should pass through unchanged, got %q", result.MaskedText)
		}
	})

	t.Run("MalformedCPF", func(t *testing.T) {
		result := engine.Scan("número incompleto 123.456")

		if hasType(result, TypeCPF) {
			t.Error("Partial CPF should not match")
		}
	})

	t.Run("UnicodeText", func(t *testing.T) {
		// Accented text and emoji around a CPF must not break offsets.
		text := "Olá! 🎉 Informação: CPF 987.654.321-00, obrigado."
		result := engine.Scan(text)

		if !hasType(result, TypeCPF) {
			t.Fatal("CPF not detected in unicode text")
		}
		if strings.Contains(result.MaskedText, "987.654.321-00") {
			t.Errorf("Masked text leaks CPF: %q", result.MaskedText)
		}
		if !strings.Contains(result.MaskedText, "Olá! 🎉") {
			t.Errorf("Unicode prefix corrupted: %q", result.MaskedText)
		}
	})
}

func TestScanInvariants(t *testing.T) {
	engine := newTestEngine(t)

	samples := []string{
		"",
		"Meu CPF é 123.456.789-01",
		"Email: joao.silva@empresa.com.br e telefone (11) 98765-4321",
		"CNPJ: 12.345.678/0001-95, CEP: 01234-567",
		"Rua das Flores, 123 - São Paulo",
		"Plain text with no PII at all.",
		"conta: 12345-6 no banco",
	}

	for _, text := range samples {
		result := engine.Scan(text)

		if result.HasPII != (len(result.Instances) > 0) {
			t.Errorf("has_pii inconsistent for %q", text)
		}
		if result.ConfidenceScore < 0.0 || result.ConfidenceScore > 1.0 {
			t.Errorf("Confidence out of bounds for %q: %f", text, result.ConfidenceScore)
		}

		// Offset correctness: text[start:end] == value for every instance.
		for piiType, instances := range result.Instances {
			for _, inst := range instances {
				if inst.Start < 0 || inst.End > len(text) || inst.Start > inst.End {
					t.Errorf("%s: bad span [%d,%d) in %q", piiType, inst.Start, inst.End, text)
					continue
				}
				if text[inst.Start:inst.End] != inst.Value {
					t.Errorf("%s: span mismatch, text[%d:%d]=%q want %q",
						piiType, inst.Start, inst.End, text[inst.Start:inst.End], inst.Value)
				}
			}
		}

		// No full matched substring survives into the masked text.
		for piiType, instances := range result.Instances {
			for _, inst := range instances {
				if strings.Contains(result.MaskedText, inst.Value) {
					t.Errorf("%s: masked text still contains %q", piiType, inst.Value)
				}
			}
		}
	}
}

func TestScanConfidenceAggregation(t *testing.T) {
	engine := newTestEngine(t)

	// Two emails, nothing else: mean of two identical confidences.
	result := engine.Scan("a@example.com b@example.org")
	if len(result.TypesFound) != 1 || result.TypesFound[0] != TypeEmail {
		t.Fatalf("Expected only email, found %v", result.TypesFound)
	}
	if len(result.Instances[TypeEmail]) != 2 {
		t.Fatalf("Expected 2 email instances, got %d", len(result.Instances[TypeEmail]))
	}
	if result.ConfidenceScore != 0.98 {
		t.Errorf("Expected confidence 0.98, got %f", result.ConfidenceScore)
	}
}

func TestMaskIdempotence(t *testing.T) {
	engine := newTestEngine(t)

	text := "CPF 123.456.789-01, email joao.silva@empresa.com.br"
	once := engine.Mask(text)
	twice := engine.Mask(once)

	// Re-masking must not resurrect anything that was already hidden.
	if strings.Contains(twice, "123.456.789-01") {
		t.Errorf("Re-masking leaked CPF: %q", twice)
	}
	if strings.Contains(twice, "joao.silva@") {
		t.Errorf("Re-masking leaked email local part: %q", twice)
	}
}

func TestSummarize(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("WithPII", func(t *testing.T) {
		summary := engine.Summarize("Meu CPF é 123.456.789-01")

		if !summary.HasPII {
			t.Error("Summary should report PII")
		}
		if summary.TotalPIITypes == 0 || summary.TotalInstances == 0 {
			t.Errorf("Summary counts empty: %+v", summary)
		}
		if summary.LGPDCompliant {
			t.Error("CPF text should not be LGPD compliant")
		}
		for _, name := range summary.PIITypes {
			if strings.Contains(name, "123") {
				t.Errorf("Summary leaked a value: %v", summary.PIITypes)
			}
		}
	})

	t.Run("Clean", func(t *testing.T) {
		summary := engine.Summarize("nothing sensitive here")

		if summary.HasPII || !summary.LGPDCompliant {
			t.Errorf("Clean summary wrong: %+v", summary)
		}
		if summary.ConfidenceScore != 0.0 {
			t.Errorf("Clean summary confidence should be 0, got %f", summary.ConfidenceScore)
		}
	})
}

func TestScanLargeText(t *testing.T) {
	engine := newTestEngine(t)

	// ~50KB of résumé-like text with PII sprinkled in. Regression guard
	// for scan latency, not a hard correctness property.
	var b strings.Builder
	for b.Len() < 50_000 {
		b.WriteString("Desenvolvedor com experiência em sistemas distribuídos. ")
		b.WriteString("Contato: candidato@example.com.br, CPF 123.456.789-01. ")
	}

	result := engine.Scan(b.String())
	if !result.HasPII {
		t.Fatal("Large text should have PII")
	}
	if result.ScanDurationMS > 100 {
		t.Errorf("50KB scan took %.1fms, expected well under 100ms", result.ScanDurationMS)
	}
}
