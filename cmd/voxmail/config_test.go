package main

import (
	"testing"
	"time"

	"github.com/voxmail/voxmail/internal/config"
)

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "approval.direct_send_bypass", "false"); err != nil {
		t.Fatalf("setConfigValue failed: %v", err)
	}
	if cfg.Approval.DirectSendBypass {
		t.Error("expected direct_send_bypass to be false")
	}

	if err := setConfigValue(cfg, "workflow.max_revisions", "7"); err != nil {
		t.Fatalf("setConfigValue failed: %v", err)
	}
	if cfg.Workflow.MaxRevisions != 7 {
		t.Errorf("max_revisions = %d, want 7", cfg.Workflow.MaxRevisions)
	}

	if err := setConfigValue(cfg, "approval.idle_timeout", "15m"); err != nil {
		t.Fatalf("setConfigValue failed: %v", err)
	}
	if cfg.Approval.IdleTimeout != 15*time.Minute {
		t.Errorf("idle_timeout = %v, want 15m", cfg.Approval.IdleTimeout)
	}

	if err := setConfigValue(cfg, "workflow.max_revisions", "lots"); err == nil {
		t.Error("expected error for non-numeric max_revisions")
	}

	if err := setConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetConfigValue(t *testing.T) {
	cfg := config.Default()
	cfg.Anthropic.APIKey = "sk-ant-REDACTED"

	got, err := getConfigValue(cfg, "anthropic.api_key")
	if err != nil {
		t.Fatalf("getConfigValue failed: %v", err)
	}
	if got != "sk-ant-...wxyz" {
		t.Errorf("api_key display = %q, want masked value", got)
	}

	got, err = getConfigValue(cfg, "gateway.base_url")
	if err != nil {
		t.Fatalf("getConfigValue failed: %v", err)
	}
	if got != "http://localhost:8025" {
		t.Errorf("base_url = %q", got)
	}

	if _, err := getConfigValue(cfg, "no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{90 * time.Minute, "1h30m"},
		{2 * time.Hour, "2h"},
		{48 * time.Hour, "2d"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.expected)
		}
	}
}
