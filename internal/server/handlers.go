package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ai-rio/lgpd-sentinel/internal/audit"
	"github.com/ai-rio/lgpd-sentinel/internal/pii"
	"github.com/ai-rio/lgpd-sentinel/internal/websocket"
)

// ScanRequest is the payload for scan, compliance and summary calls.
type ScanRequest struct {
	Text         string `json:"text"`
	UserID       string `json:"user_id,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	DocumentID   string `json:"document_id,omitempty"`
	FileName     string `json:"file_name,omitempty"`
}

// ScanResponse wraps a detection result with request bookkeeping.
type ScanResponse struct {
	Result   pii.DetectionResult `json:"result"`
	CacheHit bool                `json:"cache_hit"`
}

// MaskResponse carries only the masked text, for callers that do not
// need detection metadata.
type MaskResponse struct {
	MaskedText    string   `json:"masked_text"`
	MaskingErrors []string `json:"masking_errors,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeScanRequest reads and validates the common request payload.
func (s *Server) decodeScanRequest(w http.ResponseWriter, r *http.Request) (*ScanRequest, bool) {
	// Allow some headroom over the text cap for JSON framing and escapes.
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.config.Scanner.MaxTextSize)*2+4096)

	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	if len(req.Text) > s.config.Scanner.MaxTextSize {
		s.writeError(w, http.StatusRequestEntityTooLarge, "text exceeds maximum scan size")
		return nil, false
	}

	return &req, true
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// handleScan runs a full detection pass and fans the result out to the
// audit trail, the notifier and the dashboard.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScanRequest(w, r)
	if !ok {
		return
	}

	requestID := getRequestID(r.Context())
	atomic.AddInt64(&s.totalScans, 1)

	// Serve from cache when possible. An empty text is scanned directly;
	// it is cheaper than the lookup.
	if s.scanCache != nil && req.Text != "" {
		if lookup, err := s.scanCache.Lookup(r.Context(), req.Text); err == nil && lookup.CacheHit {
			s.writeJSON(w, http.StatusOK, ScanResponse{
				Result:   lookup.Scan.Result,
				CacheHit: true,
			})
			return
		}
	}

	result := s.engine.Scan(req.Text)
	check := pii.Validate(&result)

	if result.HasPII {
		atomic.AddInt64(&s.totalDetections, 1)
	}

	s.logger.WithRequestID(requestID).LogScan(
		typeNames(result.TypesFound),
		result.TotalInstances(),
		result.ConfidenceScore,
		result.ScanDurationMS,
	)

	if s.scanCache != nil && req.Text != "" {
		if err := s.scanCache.Store(r.Context(), req.Text, &result); err != nil {
			s.logger.Warn("Failed to cache scan result", zap.Error(err))
		}
	}

	if s.auditStore != nil && result.HasPII {
		event := audit.NewDetectionEvent(&result, &check, audit.Context{
			UserID:       req.UserID,
			DocumentType: req.DocumentType,
			DocumentID:   req.DocumentID,
			FileName:     req.FileName,
		})
		if err := s.auditStore.Insert(r.Context(), event); err != nil {
			s.logger.Error("Failed to record audit event", zap.Error(err))
		}
	}

	if s.config.Notify.Enabled && result.HasPII {
		s.notifier.Notify(&result, &check)
	}

	if result.HasPII {
		s.wsHub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventTypePIIDetection,
			Timestamp: time.Now(),
			RequestID: requestID,
			Data: websocket.PIIDetectionEvent{
				RequestID:     requestID,
				ClientIP:      getClientIP(r),
				PIITypes:      typeNames(result.TypesFound),
				InstanceCount: result.TotalInstances(),
				Confidence:    result.ConfidenceScore,
				Compliant:     check.IsCompliant,
				Action:        check.RecommendedAction,
				ProcessingMS:  result.ScanDurationMS,
			},
		})
	}

	s.writeJSON(w, http.StatusOK, ScanResponse{Result: result})
}

// handleMask returns only the masked text.
func (s *Server) handleMask(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScanRequest(w, r)
	if !ok {
		return
	}

	result := s.engine.Scan(req.Text)
	s.writeJSON(w, http.StatusOK, MaskResponse{
		MaskedText:    result.MaskedText,
		MaskingErrors: result.MaskingErrors,
	})
}

// handleCompliance runs a scan and returns the LGPD compliance verdict.
func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScanRequest(w, r)
	if !ok {
		return
	}

	check := s.engine.ValidateText(req.Text)
	s.writeJSON(w, http.StatusOK, check)
}

// handleSummary returns a compact scan summary for dashboards.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScanRequest(w, r)
	if !ok {
		return
	}

	summary := s.engine.Summarize(req.Text)
	s.writeJSON(w, http.StatusOK, summary)
}

func typeNames(types []pii.PIIType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}
