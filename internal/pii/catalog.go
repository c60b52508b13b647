package pii

import (
	"fmt"
	"regexp"
)

// Pattern is one immutable PII pattern definition. The catalog compiles
// every pattern once at construction; compiled regexps are safe to share
// across concurrent scans.
type Pattern struct {
	Type        PIIType
	Regex       string
	Description string
	Confidence  float64
	Strategy    MaskingStrategy
	Examples    []string

	re *regexp.Regexp
}

// Catalog holds the authoritative pattern set, grouped by definition
// order (Brazilian documents, standard identifiers, financial, location)
// but exposed as one flat lookup by type.
type Catalog struct {
	patterns map[PIIType]*Pattern
	order    []PIIType
}

// defaultPatterns is the canonical pattern set. Changing an entry is a
// deployment-time change; downstream compliance thresholds are calibrated
// against these confidences.
var defaultPatterns = []Pattern{
	// Brazilian documents
	{
		Type:        TypeCPF,
		Regex:       `\d{3}\.?\d{3}\.?\d{3}-?\d{2}`,
		Description: "CPF (Cadastro de Pessoas Físicas)",
		Confidence:  0.95,
		Strategy:    StrategyPartial,
		Examples:    []string{"123.456.789-01", "12345678901"},
	},
	{
		Type:        TypeRG,
		Regex:       `\d{1,2}\.?\d{3}\.?\d{3}-?[A-Z0-9]?`,
		Description: "RG (Registro Geral)",
		Confidence:  0.85,
		Strategy:    StrategyPartial,
		Examples:    []string{"12.345.678-9", "123456789"},
	},
	{
		Type:        TypeCNPJ,
		Regex:       `\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`,
		Description: "CNPJ (Cadastro Nacional da Pessoa Jurídica)",
		Confidence:  0.95,
		Strategy:    StrategyPartial,
		Examples:    []string{"12.345.678/0001-95"},
	},
	// Standard identifiers
	{
		Type:        TypeEmail,
		Regex:       `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
		Description: "Email address",
		Confidence:  0.98,
		Strategy:    StrategyPartial,
		Examples:    []string{"joao.silva@empresa.com.br"},
	},
	{
		Type:        TypePhone,
		Regex:       `(?:\+?55\s?)?(?:\(?\d{2}\)?[-\s]?)?\d{4,5}[-\s]?\d{4}`,
		Description: "Brazilian phone number",
		Confidence:  0.90,
		Strategy:    StrategyPartial,
		Examples:    []string{"(11) 98765-4321", "+55 11 98765-4321"},
	},
	{
		Type:        TypePassport,
		Regex:       `[A-Z]{2}\d{6}`,
		Description: "Brazilian passport number",
		Confidence:  0.80,
		Strategy:    StrategyPartial,
		Examples:    []string{"FD123456"},
	},
	// Financial
	{
		Type:        TypeCreditCard,
		Regex:       `(?:\d{4}[-\s]?){3}\d{4}`,
		Description: "Credit card number",
		Confidence:  0.95,
		Strategy:    StrategyPartial,
		Examples:    []string{"4111 1111 1111 1111", "4111-1111-1111-1111"},
	},
	{
		Type:        TypeBankAccount,
		Regex:       `(?:conta|c/c|cc)\s*:?\s*\d{4,8}-?\d`,
		Description: "Bank account number",
		Confidence:  0.75,
		Strategy:    StrategyFull,
		Examples:    []string{"conta: 12345-6"},
	},
	// Location
	{
		Type:        TypeAddress,
		Regex:       `(?:Rua|Avenida|Alameda|Travessa|Praça)\s+[^,]+,\s*\d+[^,]*`,
		Description: "Street address",
		Confidence:  0.70,
		Strategy:    StrategyFull,
		Examples:    []string{"Rua das Flores, 123"},
	},
	{
		Type:        TypePostalCode,
		Regex:       `\d{5}-?\d{3}`,
		Description: "CEP (Código de Endereçamento Postal)",
		Confidence:  0.90,
		Strategy:    StrategyPartial,
		Examples:    []string{"01234-567"},
	},
}

// NewCatalog builds the default catalog, compiling every pattern.
// All matching is case-insensitive and multiline.
func NewCatalog() (*Catalog, error) {
	return newCatalog(defaultPatterns)
}

func newCatalog(defs []Pattern) (*Catalog, error) {
	c := &Catalog{
		patterns: make(map[PIIType]*Pattern, len(defs)),
		order:    make([]PIIType, 0, len(defs)),
	}

	for i := range defs {
		p := defs[i]
		re, err := regexp.Compile("(?im)" + p.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q: %w", p.Type, err)
		}
		p.re = re

		c.patterns[p.Type] = &p
		c.order = append(c.order, p.Type)
	}

	return c, nil
}

// Pattern returns the pattern definition for a type, or nil if unknown.
func (c *Catalog) Pattern(t PIIType) *Pattern {
	return c.patterns[t]
}

// Types returns all catalog types in definition order. Scan results list
// detected types in this order, which keeps output deterministic.
func (c *Catalog) Types() []PIIType {
	return c.order
}

// Len returns the number of patterns in the catalog.
func (c *Catalog) Len() int {
	return len(c.patterns)
}
