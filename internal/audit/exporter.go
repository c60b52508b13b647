package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"
)

// exportRow is the flattened Parquet representation of an Event.
// Array columns are joined because downstream reporting tools expect a
// flat schema.
type exportRow struct {
	ID             int64   `parquet:"id"`
	Timestamp      int64   `parquet:"timestamp_unix_ms"`
	EventType      string  `parquet:"event_type"`
	PIITypes       string  `parquet:"pii_types"`
	InstanceCount  int32   `parquet:"instance_count"`
	Confidence     float64 `parquet:"confidence"`
	Compliant      bool    `parquet:"compliant"`
	Action         string  `parquet:"action"`
	MaskedChars    int32   `parquet:"masked_chars"`
	ScanDurationMS float64 `parquet:"scan_duration_ms"`
	UserID         string  `parquet:"user_id"`
	DocumentType   string  `parquet:"document_type"`
	DocumentID     string  `parquet:"document_id"`
	FileName       string  `parquet:"file_name"`
}

// Exporter writes audit trail snapshots as Parquet files
type Exporter struct {
	store  *Store
	dir    string
	logger *zap.Logger
}

// NewExporter creates an exporter writing into dir
func NewExporter(store *Store, dir string, logger *zap.Logger) *Exporter {
	return &Exporter{
		store:  store,
		dir:    dir,
		logger: logger,
	}
}

// Export writes every event recorded after the given time to a
// timestamped Parquet file and returns its path.
func (e *Exporter) Export(ctx context.Context, after time.Time) (string, error) {
	events, err := e.store.Since(ctx, after)
	if err != nil {
		return "", fmt.Errorf("failed to load events: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(e.dir, fmt.Sprintf("compliance-events-%s.parquet", time.Now().UTC().Format("20060102-150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewWriter(file)
	defer writer.Close()

	for _, event := range events {
		row := exportRow{
			ID:             event.ID,
			Timestamp:      event.Timestamp.UnixMilli(),
			EventType:      string(event.Type),
			PIITypes:       strings.Join(event.PIITypes, ","),
			InstanceCount:  int32(event.InstanceCount),
			Confidence:     event.Confidence,
			Compliant:      event.Compliant,
			Action:         event.Action,
			MaskedChars:    int32(event.MaskedChars),
			ScanDurationMS: event.ScanDurationMS,
			UserID:         event.UserID,
			DocumentType:   event.DocumentType,
			DocumentID:     event.DocumentID,
			FileName:       event.FileName,
		}

		if err := writer.Write(&row); err != nil {
			return "", fmt.Errorf("failed to write export row: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize export: %w", err)
	}

	e.logger.Info("Audit export completed",
		zap.String("path", path),
		zap.Int("events", len(events)))

	return path, nil
}
