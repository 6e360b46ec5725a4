package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelRouter(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(newLevelRouter(&out, &errOut, slog.LevelInfo, slog.String("component", "test")))

	logger.Info("loaded")
	logger.Warn("slow")
	logger.Error("broken")
	logger.Debug("hidden")

	if !strings.Contains(out.String(), "loaded") || !strings.Contains(out.String(), "slow") {
		t.Errorf("expected info and warn on stdout, got %q", out.String())
	}
	if strings.Contains(out.String(), "broken") {
		t.Error("error leaked to stdout")
	}
	if !strings.Contains(out.String(), "component=test") {
		t.Errorf("expected component attribute on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "broken") || !strings.Contains(errOut.String(), "component=test") {
		t.Errorf("expected error with attrs on stderr, got %q", errOut.String())
	}
	if strings.Contains(out.String()+errOut.String(), "hidden") {
		t.Error("debug should be disabled")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out.String()) != Version {
		t.Errorf("expected %q, got %q", Version, out.String())
	}
}

func TestWebRejectsBadFilterMode(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"web", "--env-file", "", "--filter-mode", "sideways"})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected an error for an unknown filter mode")
	}
}

func TestLevelRouterMinimumLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(newLevelRouter(&out, &errOut, slog.LevelWarn))

	logger.Info("routine")
	logger.Warn("slow")

	if strings.Contains(out.String(), "routine") {
		t.Error("info should be filtered below warn")
	}
	if !strings.Contains(out.String(), "slow") {
		t.Errorf("expected warn on stdout, got %q", out.String())
	}
}
