package pii

import "time"

// Engine runs the pattern catalog over input text and produces detection
// results with a masked rendition. It holds no mutable state beyond the
// immutable catalog, so one instance is safe for concurrent use; callers
// construct it once and inject it where needed.
type Engine struct {
	catalog *Catalog
	masker  *Masker
}

// NewEngine creates an engine bound to a catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{
		catalog: catalog,
		masker:  NewMasker(catalog),
	}
}

// NewDefaultEngine creates an engine with the default pattern catalog.
func NewDefaultEngine() (*Engine, error) {
	catalog, err := NewCatalog()
	if err != nil {
		return nil, err
	}
	return NewEngine(catalog), nil
}

// Catalog returns the engine's pattern catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Scan finds every non-overlapping match of every catalog pattern.
// Overlapping matches across different types are all reported; a
// substring may legitimately be two kinds of PII at once.
//
// ScanDurationMS covers matching and aggregation only.
func (e *Engine) Scan(text string) DetectionResult {
	start := time.Now()

	result := DetectionResult{
		TypesFound: []PIIType{},
		Instances:  make(map[PIIType][]DetectedInstance),
	}

	for _, t := range e.catalog.order {
		p := e.catalog.patterns[t]

		locs := p.re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}

		instances := make([]DetectedInstance, 0, len(locs))
		for _, loc := range locs {
			instances = append(instances, DetectedInstance{
				Value:       text[loc[0]:loc[1]],
				Start:       loc[0],
				End:         loc[1],
				Confidence:  p.Confidence,
				Description: p.Description,
			})
		}

		result.Instances[t] = instances
		result.TypesFound = append(result.TypesFound, t)
	}

	// Plain instance-level mean, not averaged per type first. Downstream
	// compliance thresholds are calibrated against this aggregation.
	count := 0
	sum := 0.0
	for _, list := range result.Instances {
		for _, inst := range list {
			sum += inst.Confidence
			count++
		}
	}
	if count > 0 {
		result.HasPII = true
		result.ConfidenceScore = sum / float64(count)
	}

	result.ScanDurationMS = float64(time.Since(start).Nanoseconds()) / 1e6

	if result.HasPII {
		result.MaskedText, result.MaskingErrors = e.masker.Mask(text, result.Instances)
	} else {
		result.MaskedText = text
	}

	return result
}

// Mask scans text and returns the masked rendition.
func (e *Engine) Mask(text string) string {
	return e.Scan(text).MaskedText
}

// MaskInstances masks text using instances from a previous scan of the
// same text.
func (e *Engine) MaskInstances(text string, instances map[PIIType][]DetectedInstance) (string, []string) {
	return e.masker.Mask(text, instances)
}

// Summarize scans text and returns the value-free summary form.
func (e *Engine) Summarize(text string) Summary {
	result := e.Scan(text)
	check := Validate(&result)

	types := make([]string, 0, len(result.TypesFound))
	for _, t := range result.TypesFound {
		types = append(types, string(t))
	}

	return Summary{
		HasPII:          result.HasPII,
		TotalPIITypes:   len(result.TypesFound),
		PIITypes:        types,
		TotalInstances:  result.TotalInstances(),
		ConfidenceScore: result.ConfidenceScore,
		ScanDurationMS:  result.ScanDurationMS,
		LGPDCompliant:   check.IsCompliant,
	}
}
