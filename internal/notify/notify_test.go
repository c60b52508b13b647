package notify

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ai-rio/lgpd-sentinel/internal/pii"
)

func scanAndCheck(t *testing.T, text string) (*pii.DetectionResult, *pii.ComplianceCheckResult) {
	t.Helper()

	engine, err := pii.NewDefaultEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	result := engine.Scan(text)
	check := pii.Validate(&result)
	return &result, &check
}

func TestCompose(t *testing.T) {
	t.Run("High priority for critical high confidence", func(t *testing.T) {
		result, check := scanAndCheck(t, "CPF: 123.456.789-01 email: ana@empresa.com.br")

		n := Compose(result, check)
		if n.Priority != PriorityHigh {
			t.Errorf("Expected high priority, got %s (confidence %f)", n.Priority, n.Confidence)
		}
		if !strings.Contains(n.Message, "LGPD") {
			t.Errorf("Message should mention LGPD: %q", n.Message)
		}
		if !strings.Contains(n.Message, "CPF") || !strings.Contains(n.Message, "e-mail") {
			t.Errorf("Message should name the detected types: %q", n.Message)
		}
	})

	t.Run("Normal priority for non-critical types", func(t *testing.T) {
		result, check := scanAndCheck(t, "Endereço: Rua das Flores, 123")

		n := Compose(result, check)
		if n.Priority != PriorityNormal {
			t.Errorf("Expected normal priority, got %s", n.Priority)
		}
		if !strings.Contains(n.Message, "endereço") {
			t.Errorf("Message should name the type in Portuguese: %q", n.Message)
		}
	})

	t.Run("Clean scan", func(t *testing.T) {
		result, check := scanAndCheck(t, "texto sem dados pessoais")

		n := Compose(result, check)
		if n.Priority != PriorityNormal {
			t.Errorf("Expected normal priority, got %s", n.Priority)
		}
		if !strings.Contains(n.Message, "nenhum dado pessoal") {
			t.Errorf("Unexpected clean message: %q", n.Message)
		}
		if n.InstanceCount != 0 {
			t.Errorf("Clean scan instance count: %d", n.InstanceCount)
		}
	})

	t.Run("Never carries raw values", func(t *testing.T) {
		result, check := scanAndCheck(t, "CPF: 123.456.789-01")

		n := Compose(result, check)
		if strings.Contains(n.Title, "123.456.789-01") || strings.Contains(n.Message, "123.456.789-01") {
			t.Errorf("Notification leaked raw value: %+v", n)
		}
	})

	t.Run("Singular and plural messages", func(t *testing.T) {
		result, check := scanAndCheck(t, "e-mail: so.um@example.com")
		n := Compose(result, check)
		if !strings.Contains(n.Message, "dado pessoal foi identificado") {
			t.Errorf("Expected singular phrasing: %q", n.Message)
		}

		result, check = scanAndCheck(t, "a@x.com b@y.com")
		n = Compose(result, check)
		if !strings.Contains(n.Message, "dados pessoais foram identificados") {
			t.Errorf("Expected plural phrasing: %q", n.Message)
		}
	})
}

func TestNotifyWithoutHub(t *testing.T) {
	result, check := scanAndCheck(t, "CPF: 123.456.789-01")

	notifier := New(nil, zap.NewNop())
	n := notifier.Notify(result, check)
	if n == nil {
		t.Fatal("Notify should return the composed notification")
	}
	if n.Action != pii.ActionMaskPII {
		t.Errorf("Wrong action: %q", n.Action)
	}
}
