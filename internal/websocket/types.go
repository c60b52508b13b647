package websocket

import (
	"time"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypePIIDetection represents a PII detection event
	EventTypePIIDetection EventType = "pii_detection"
	// EventTypeScanLog represents a scan request logging event
	EventTypeScanLog EventType = "scan_log"
	// EventTypeNotification represents a user-facing notification event
	EventTypeNotification EventType = "notification"
	// EventTypeSystemStatus represents a system status event
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// PIIDetectionEvent represents a PII detection event. Only detection
// metadata is broadcast; matched values never leave the engine.
type PIIDetectionEvent struct {
	RequestID     string   `json:"request_id"`
	ClientIP      string   `json:"client_ip"`
	PIITypes      []string `json:"pii_types"`
	InstanceCount int      `json:"instance_count"`
	Confidence    float64  `json:"confidence"`
	Compliant     bool     `json:"compliant"`
	Action        string   `json:"action"`
	ProcessingMS  float64  `json:"processing_ms"`
}

// ScanLogEvent represents a scan request logging event
type ScanLogEvent struct {
	RequestID   string        `json:"request_id"`
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	StatusCode  int           `json:"status_code"`
	ClientIP    string        `json:"client_ip"`
	UserAgent   string        `json:"user_agent,omitempty"`
	Duration    time.Duration `json:"duration"`
	RequestSize int64         `json:"request_size"`
}

// SystemStatusEvent represents system status information
type SystemStatusEvent struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TotalScans       int64  `json:"total_scans"`
	TotalDetections  int64  `json:"total_detections"`
	ActivePatterns   int    `json:"active_patterns"`
	ConnectedClients int    `json:"connected_clients"`
	MemoryUsage      string `json:"memory_usage"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action    string `json:"action"` // "connected", "disconnected"
	ClientID  string `json:"client_id"`
	ClientIP  string `json:"client_ip"`
	UserAgent string `json:"user_agent,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ClientMessage represents messages sent from clients to server
type ClientMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SubscriptionRequest represents a client subscription request
type SubscriptionRequest struct {
	Events []EventType  `json:"events"`
	Filter *EventFilter `json:"filter,omitempty"`
}

// EventFilter represents filtering options for events
type EventFilter struct {
	MinConfidence float64  `json:"min_confidence,omitempty"`
	PIITypes      []string `json:"pii_types,omitempty"`
	ExcludeHealth bool     `json:"exclude_health,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	ID           string
	Conn         interface{} // Will be *websocket.Conn
	Send         chan Event
	Subscription *SubscriptionRequest
	ConnectedAt  time.Time
	LastPing     time.Time
	IP           string
	UserAgent    string
}
