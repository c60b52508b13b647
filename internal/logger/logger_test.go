package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return &Logger{Logger: zap.New(core)}, logs
}

func TestLogRequest(t *testing.T) {
	log, logs := newObservedLogger()

	log.LogRequest("POST", "/v1/scan", "10.0.0.1", map[string][]string{
		"Authorization": {"Bearer secret-token"},
		"User-Agent":    {"test-client/1.0"},
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["method"] != "POST" || fields["path"] != "/v1/scan" {
		t.Errorf("Unexpected method/path fields: %v", fields)
	}
	if fields["client_ip"] != "10.0.0.1" {
		t.Errorf("Unexpected client_ip: %v", fields["client_ip"])
	}

	headers, ok := fields["headers"].(map[string]string)
	if !ok {
		t.Fatalf("Headers field has unexpected type: %T", fields["headers"])
	}
	if headers["Authorization"] != "[REDACTED]" {
		t.Errorf("Authorization header not redacted: %q", headers["Authorization"])
	}
	if headers["User-Agent"] != "test-client/1.0" {
		t.Errorf("Safe header lost: %q", headers["User-Agent"])
	}
}

func TestLogScan(t *testing.T) {
	log, logs := newObservedLogger()

	log.LogScan([]string{"cpf", "email"}, 3, 0.93, 1.5)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["instances"] != int64(3) {
		t.Errorf("Unexpected instances field: %v", fields["instances"])
	}
	for _, f := range fields {
		if s, ok := f.(string); ok && s == "123.456.789-01" {
			t.Error("Scan log must never carry matched values")
		}
	}
}

func TestIsSensitiveHeader(t *testing.T) {
	cases := map[string]bool{
		"Authorization": true,
		"X-Api-Key":     true,
		"Cookie":        true,
		"Content-Type":  false,
		"User-Agent":    false,
	}
	for header, want := range cases {
		if got := isSensitiveHeader(header); got != want {
			t.Errorf("isSensitiveHeader(%q) = %v, want %v", header, got, want)
		}
	}
}
