package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type entryTestConfig struct {
	Path string `env:"HERALD_ENTRY_TEST_PATH" envDefault:"herald.db"`
}

func TestParseConfigThenArgs(t *testing.T) {
	var cfg entryTestConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.StringVar(&cfg.Path, "db", cfg.Path, "db path")

	if err := ParseArgs(fs, []string{"-db", "/tmp/override.db"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.Path != "/tmp/override.db" {
		t.Fatalf("expected flag override, got %q", cfg.Path)
	}
}

func TestParseConfigRequiresTarget(t *testing.T) {
	if err := ParseConfig[entryTestConfig](nil); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestParseArgsRequiresFlagSet(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}

func TestRunWithTelemetryValidation(t *testing.T) {
	noop := func(context.Context) error { return nil }

	if err := RunWithTelemetry(context.Background(), "", noop); err == nil {
		t.Fatal("expected error for empty service name")
	}
	if err := RunWithTelemetry(context.Background(), ServiceDemo, nil); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	t.Setenv("HERALD_OTEL_ENDPOINT", "")
	sentinel := errors.New("run failed")

	err := RunWithTelemetry(context.Background(), ServiceDemo, func(context.Context) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected run error, got %v", err)
	}
}
