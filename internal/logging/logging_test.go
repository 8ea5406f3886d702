package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/internal/config"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "revenue.log")
	l, err := New(config.LogConfig{Mode: "production", Level: "info", FileEnable: true, Filename: path})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("sale recorded", zap.Int64("id", 7))
	l.Debug("not written")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	body := string(b)
	if !strings.Contains(body, `"msg":"sale recorded"`) || !strings.Contains(body, `"id":7`) {
		t.Errorf("log file = %s", body)
	}
	if strings.Contains(body, "not written") {
		t.Error("debug entry written at info level")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestFromContext(t *testing.T) {
	l := zap.NewNop()
	if got := FromContext(WithContext(context.Background(), l)); got != l {
		t.Error("logger not carried by context")
	}
	if FromContext(context.Background()) == nil {
		t.Error("fallback logger is nil")
	}
}

func TestSetLocation(t *testing.T) {
	if err := SetLocation(""); err != nil {
		t.Fatal(err)
	}
	if err := SetLocation("Not/AZone"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}
