package pii

// PIIType identifies a category of personally identifiable information.
type PIIType string

const (
	TypeCPF         PIIType = "cpf"
	TypeRG          PIIType = "rg"
	TypeCNPJ        PIIType = "cnpj"
	TypeEmail       PIIType = "email"
	TypePhone       PIIType = "phone"
	TypePassport    PIIType = "passport"
	TypeCreditCard  PIIType = "credit_card"
	TypeBankAccount PIIType = "bank_account"
	TypeAddress     PIIType = "address"
	TypePostalCode  PIIType = "postal_code"
)

// MaskingStrategy defines how a detected value is obfuscated.
type MaskingStrategy string

const (
	StrategyPartial MaskingStrategy = "partial"
	StrategyFull    MaskingStrategy = "full"
	StrategyHash    MaskingStrategy = "hash"
)

// DetectedInstance is a single pattern match inside the scanned text.
// Start and End are byte offsets into the original text with half-open
// interval semantics: text[Start:End] == Value.
type DetectedInstance struct {
	Value       string  `json:"-"` // Never serialize raw matched values
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// DetectionResult is the output of a single scan.
type DetectionResult struct {
	HasPII          bool                           `json:"has_pii"`
	TypesFound      []PIIType                      `json:"pii_types_found"`
	Instances       map[PIIType][]DetectedInstance `json:"detected_instances"`
	ConfidenceScore float64                        `json:"confidence_score"`
	MaskedText      string                         `json:"masked_text"`
	ScanDurationMS  float64                        `json:"scan_duration_ms"`

	// MaskingErrors records instances that could not be masked. The rest
	// of the text is still masked; callers treating partial masking as
	// fatal must check this slice.
	MaskingErrors []string `json:"masking_errors,omitempty"`
}

// TotalInstances returns the number of detected instances across all types.
func (r *DetectionResult) TotalInstances() int {
	total := 0
	for _, instances := range r.Instances {
		total += len(instances)
	}
	return total
}

// ComplianceCheckResult is the LGPD business-rule view of a scan.
type ComplianceCheckResult struct {
	IsCompliant         bool     `json:"is_compliant"`
	ComplianceScore     float64  `json:"compliance_score"`
	Issues              []string `json:"issues"`
	RequiresMasking     bool     `json:"requires_masking"`
	RecommendedAction   string   `json:"recommended_action"`
	CriticalPIIDetected bool     `json:"critical_pii_detected"`
}

// Recommended actions for a compliance check.
const (
	ActionMaskPII = "mask_pii"
	ActionProceed = "proceed"
)

// Summary is a compact, value-free view of a scan, safe to log or ship
// to the audit trail.
type Summary struct {
	HasPII          bool     `json:"has_pii"`
	TotalPIITypes   int      `json:"total_pii_types"`
	PIITypes        []string `json:"pii_types"`
	TotalInstances  int      `json:"total_instances"`
	ConfidenceScore float64  `json:"confidence_score"`
	ScanDurationMS  float64  `json:"scan_duration_ms"`
	LGPDCompliant   bool     `json:"lgpd_compliant"`
}
