package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func auditCapture(config AuditLoggingConfig) (*AuditLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewAuditLoggerWithConfig(logger, config), &buf
}

func TestMutationRecord_Status(t *testing.T) {
	r := NewMutationRecord("sweep", "trash").Complete(500, 0, 500, false)
	if r.Status() != StatusSuccess {
		t.Errorf("expected success, got %q", r.Status())
	}

	r = NewMutationRecord("sweep", "trash").Complete(100, 0, 500, true)
	if r.Status() != StatusAborted {
		t.Errorf("expected aborted, got %q", r.Status())
	}

	r = NewMutationRecord("purge", "delete").CompleteWithError(errors.New("boom"))
	if r.Status() != StatusError {
		t.Errorf("expected error, got %q", r.Status())
	}
}

func TestMutationRecord_SenderDomain(t *testing.T) {
	r := NewMutationRecord("sweep", "trash").WithSender("deals@shop.example.com")
	if got := r.SenderDomain(); got != "shop.example.com" {
		t.Errorf("expected shop.example.com, got %q", got)
	}
}

func TestAuditLogger_AnonymizesSenderByDefault(t *testing.T) {
	al, buf := auditCapture(AuditLoggingConfig{Enabled: true, IncludePII: false})

	r := NewMutationRecord("sweep", "trash").
		WithSender("deals@shop.example.com").
		Complete(120, 0, 120, false)
	al.LogMutation(r)

	out := buf.String()
	if strings.Contains(out, "deals@shop.example.com") {
		t.Error("full sender address leaked into non-PII audit log")
	}
	if !strings.Contains(out, "shop.example.com") {
		t.Error("expected sender domain in audit log")
	}
	if !strings.Contains(out, "mailbox_mutated") {
		t.Error("expected mailbox_mutated event")
	}
}

func TestAuditLogger_IncludesSenderWhenConfigured(t *testing.T) {
	al, buf := auditCapture(AuditLoggingConfig{Enabled: true, IncludePII: true})

	r := NewMutationRecord("sweep", "archive").
		WithSender("deals@shop.example.com").
		Complete(50, 0, 50, false)
	al.LogMutation(r)

	if !strings.Contains(buf.String(), "deals@shop.example.com") {
		t.Error("expected full sender address in PII audit log")
	}
}

func TestAuditLogger_AbortedLogsWarning(t *testing.T) {
	al, buf := auditCapture(AuditLoggingConfig{Enabled: true})

	r := NewMutationRecord("sweep", "trash").Complete(100, 0, 600, true)
	al.LogMutation(r)

	if !strings.Contains(buf.String(), "mailbox_mutation_failed") {
		t.Error("expected mailbox_mutation_failed event for aborted job")
	}
	if !strings.Contains(buf.String(), StatusAborted) {
		t.Error("expected aborted status in audit log")
	}
}

func TestAuditLogger_DisabledLogsNothing(t *testing.T) {
	al, buf := auditCapture(AuditLoggingConfig{Enabled: false})

	al.LogMutation(NewMutationRecord("purge", "delete").Complete(10, 0, 10, false))

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestMutationRecord_TargetInLogs(t *testing.T) {
	al, buf := auditCapture(AuditLoggingConfig{Enabled: true})

	r := NewMutationRecord("purge", "delete").WithTarget("trash").Complete(30, 2, 32, false)
	al.LogMutation(r)

	out := buf.String()
	if !strings.Contains(out, "target=trash") {
		t.Error("expected target in audit log")
	}
	if !strings.Contains(out, "failed=2") {
		t.Error("expected failed count in audit log")
	}
}
