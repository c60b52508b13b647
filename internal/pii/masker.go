package pii

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const maskRune = '*'

type maskFunc func(string) string

// MaskRule configures the general-purpose masking helper used outside the
// detection pipeline (log scrubbing, ad-hoc field masking).
type MaskRule struct {
	Strategy       MaskingStrategy
	ShowFirst      int
	ShowLast       int
	PreserveFormat bool
}

// Masker replaces detected spans with masked representations. Per-type
// masking is a strategy table, not a conditional chain; adding a type
// means adding a table entry.
type Masker struct {
	catalog *Catalog
	byType  map[PIIType]maskFunc
}

// NewMasker builds a masker bound to a catalog. Types without a dedicated
// entry fall back to their catalog strategy, then to partial 1/1.
func NewMasker(catalog *Catalog) *Masker {
	m := &Masker{catalog: catalog}
	m.byType = map[PIIType]maskFunc{
		TypeEmail:      MaskEmail,
		TypePhone:      MaskPhone,
		TypeCPF:        partial(2, 2),
		TypeRG:         partial(2, 2),
		TypeCNPJ:       partial(2, 2),
		TypeCreditCard: partial(2, 2),
		TypePostalCode: partial(2, 1),
	}
	return m
}

func partial(showFirst, showLast int) maskFunc {
	return func(value string) string {
		return PartialMask(value, showFirst, showLast)
	}
}

// MaskValue masks a single value according to its type.
func (m *Masker) MaskValue(t PIIType, value string) string {
	if fn, ok := m.byType[t]; ok {
		return fn(value)
	}
	if p := m.catalog.Pattern(t); p != nil {
		switch p.Strategy {
		case StrategyFull:
			return FullMask(value)
		case StrategyHash:
			return HashMask(value)
		}
	}
	return PartialMask(value, 1, 1)
}

// Mask splices masked replacements into text. Instances are processed in
// descending end-offset order; masking earlier spans first would shift
// the offsets of spans still pending replacement.
//
// A span that fails validation is skipped and reported, leaving the rest
// of the text masked.
func (m *Masker) Mask(text string, instances map[PIIType][]DetectedInstance) (string, []string) {
	type span struct {
		t    PIIType
		inst DetectedInstance
	}

	var flat []span
	for t, list := range instances {
		for _, inst := range list {
			flat = append(flat, span{t: t, inst: inst})
		}
	}

	sort.Slice(flat, func(i, j int) bool {
		if flat[i].inst.End != flat[j].inst.End {
			return flat[i].inst.End > flat[j].inst.End
		}
		return flat[i].inst.Start > flat[j].inst.Start
	})

	masked := text
	var errs []string

	for _, s := range flat {
		inst := s.inst
		if inst.Start < 0 || inst.End > len(text) || inst.Start > inst.End {
			errs = append(errs, fmt.Sprintf("%s: span [%d,%d) out of range", s.t, inst.Start, inst.End))
			continue
		}
		if text[inst.Start:inst.End] != inst.Value {
			errs = append(errs, fmt.Sprintf("%s: span [%d,%d) does not match recorded value", s.t, inst.Start, inst.End))
			continue
		}
		if inst.End > len(masked) {
			errs = append(errs, fmt.Sprintf("%s: span [%d,%d) beyond masked text", s.t, inst.Start, inst.End))
			continue
		}

		masked = masked[:inst.Start] + m.MaskValue(s.t, inst.Value) + masked[inst.End:]
	}

	return masked, errs
}

// ApplyRule masks a value using an explicit rule, for callers outside the
// detection pipeline.
func ApplyRule(value string, rule MaskRule) string {
	switch rule.Strategy {
	case StrategyFull:
		return FullMask(value)
	case StrategyHash:
		return HashMask(value)
	default:
		if rule.PreserveFormat {
			return PartialMaskPreserving(value, rule.ShowFirst, rule.ShowLast)
		}
		return PartialMask(value, rule.ShowFirst, rule.ShowLast)
	}
}

// MaskEmail masks the local part, keeping its first and last character
// when it is longer than two characters. The domain is never masked.
func MaskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 0 {
		return FullMask(value)
	}

	local := []rune(value[:at])
	domain := value[at:]

	if len(local) <= 2 {
		return strings.Repeat(string(maskRune), len(local)) + domain
	}

	var b strings.Builder
	b.WriteRune(local[0])
	b.WriteString(strings.Repeat(string(maskRune), len(local)-2))
	b.WriteRune(local[len(local)-1])
	b.WriteString(domain)
	return b.String()
}

// MaskPhone keeps the first two and last two characters, masking
// everything between. Format separators are masked, not stripped.
func MaskPhone(value string) string {
	return PartialMask(value, 2, 2)
}

// PartialMask keeps showFirst leading and showLast trailing characters
// and masks the rest. Values too short to show anything are fully masked.
func PartialMask(value string, showFirst, showLast int) string {
	runes := []rune(value)
	if len(runes) <= showFirst+showLast {
		return strings.Repeat(string(maskRune), len(runes))
	}

	var b strings.Builder
	b.WriteString(string(runes[:showFirst]))
	b.WriteString(strings.Repeat(string(maskRune), len(runes)-showFirst-showLast))
	b.WriteString(string(runes[len(runes)-showLast:]))
	return b.String()
}

// PartialMaskPreserving masks only digit characters, leaving separators
// like dots, slashes and dashes in place, so 123.456.789-01 becomes
// 12*.***.***-*1 rather than losing its shape.
func PartialMaskPreserving(value string, showFirst, showLast int) string {
	runes := []rune(value)

	totalDigits := 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			totalDigits++
		}
	}

	if totalDigits <= showFirst+showLast {
		showFirst, showLast = 0, 0
	}

	digitIdx := 0
	var b strings.Builder
	for _, r := range runes {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if digitIdx < showFirst || digitIdx >= totalDigits-showLast {
			b.WriteRune(r)
		} else {
			b.WriteRune(maskRune)
		}
		digitIdx++
	}
	return b.String()
}

// FullMask replaces every character with the mask character.
func FullMask(value string) string {
	return strings.Repeat(string(maskRune), len([]rune(value)))
}

// HashMask returns the SHA-256 hex digest truncated to the value's
// length. Values longer than the digest get the full 64-character digest.
func HashMask(value string) string {
	sum := sha256.Sum256([]byte(value))
	digest := hex.EncodeToString(sum[:])

	n := len([]rune(value))
	if n > len(digest) {
		return digest
	}
	return digest[:n]
}
