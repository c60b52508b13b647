package audit

import (
	"time"

	"github.com/lib/pq"

	"github.com/ai-rio/lgpd-sentinel/internal/pii"
)

// EventType classifies audit trail entries.
type EventType string

const (
	EventPIIDetection    EventType = "pii_detection"
	EventComplianceCheck EventType = "compliance_check"
	EventMasking         EventType = "masking"
)

// Event is one compliance audit trail entry. It is built from scan
// metadata only; there is no field that could hold scanned text or a
// matched value, so an event can never leak what it audits.
type Event struct {
	ID             int64          `db:"id" json:"id"`
	Timestamp      time.Time      `db:"created_at" json:"timestamp"`
	Type           EventType      `db:"event_type" json:"event_type"`
	PIITypes       pq.StringArray `db:"pii_types" json:"pii_types"`
	InstanceCount  int            `db:"instance_count" json:"instance_count"`
	Confidence     float64        `db:"confidence" json:"confidence"`
	Compliant      bool           `db:"compliant" json:"compliant"`
	Action         string         `db:"action" json:"action"`
	MaskedChars    int            `db:"masked_chars" json:"masked_chars"`
	ScanDurationMS float64        `db:"scan_duration_ms" json:"scan_duration_ms"`

	// Caller-supplied context, all optional.
	UserID       string `db:"user_id" json:"user_id,omitempty"`
	DocumentType string `db:"document_type" json:"document_type,omitempty"`
	DocumentID   string `db:"document_id" json:"document_id,omitempty"`
	FileName     string `db:"file_name" json:"file_name,omitempty"`
}

// Context carries the caller-side metadata attached to an event.
type Context struct {
	UserID       string
	DocumentType string
	DocumentID   string
	FileName     string
}

// NewDetectionEvent builds an audit event from a scan result and its
// compliance check. Only type names and counters cross into the event.
func NewDetectionEvent(result *pii.DetectionResult, check *pii.ComplianceCheckResult, ctx Context) *Event {
	types := make(pq.StringArray, 0, len(result.TypesFound))
	for _, t := range result.TypesFound {
		types = append(types, string(t))
	}

	maskedChars := 0
	for _, instances := range result.Instances {
		for _, inst := range instances {
			maskedChars += inst.End - inst.Start
		}
	}

	return &Event{
		Timestamp:      time.Now().UTC(),
		Type:           EventPIIDetection,
		PIITypes:       types,
		InstanceCount:  result.TotalInstances(),
		Confidence:     result.ConfidenceScore,
		Compliant:      check.IsCompliant,
		Action:         check.RecommendedAction,
		MaskedChars:    maskedChars,
		ScanDurationMS: result.ScanDurationMS,
		UserID:         ctx.UserID,
		DocumentType:   ctx.DocumentType,
		DocumentID:     ctx.DocumentID,
		FileName:       ctx.FileName,
	}
}

// Stats summarizes the audit trail for reporting.
type Stats struct {
	TotalEvents     int64   `db:"total_events" json:"total_events"`
	NonCompliant    int64   `db:"non_compliant" json:"non_compliant"`
	AvgConfidence   float64 `db:"avg_confidence" json:"avg_confidence"`
	TotalInstances  int64   `db:"total_instances" json:"total_instances"`
	DistinctUserIDs int64   `db:"distinct_users" json:"distinct_users"`
}
