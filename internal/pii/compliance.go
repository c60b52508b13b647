package pii

// criticalTypes is the fixed set of types whose presence alone fails an
// LGPD compliance check.
var criticalTypes = map[PIIType]bool{
	TypeCPF:   true,
	TypeRG:    true,
	TypeEmail: true,
}

// highConfidenceThreshold flags scans whose aggregate confidence makes a
// false positive unlikely.
const highConfidenceThreshold = 0.8

// Validate applies the LGPD business rules to a scan result. Pure
// function of the result; no I/O, no side effects.
func Validate(result *DetectionResult) ComplianceCheckResult {
	check := ComplianceCheckResult{
		ComplianceScore:   1.0 - result.ConfidenceScore,
		Issues:            []string{},
		RequiresMasking:   result.HasPII,
		RecommendedAction: ActionProceed,
	}

	for _, t := range result.TypesFound {
		if criticalTypes[t] {
			check.CriticalPIIDetected = true
			check.Issues = append(check.Issues, "Critical PII detected")
			break
		}
	}

	if result.ConfidenceScore > highConfidenceThreshold {
		check.Issues = append(check.Issues, "High confidence PII detection")
	}

	check.IsCompliant = len(check.Issues) == 0
	if result.HasPII {
		check.RecommendedAction = ActionMaskPII
	}

	return check
}

// ValidateText scans text and validates the result in one step.
func (e *Engine) ValidateText(text string) ComplianceCheckResult {
	result := e.Scan(text)
	return Validate(&result)
}

// IsCritical reports whether a type belongs to the critical subset.
func IsCritical(t PIIType) bool {
	return criticalTypes[t]
}
