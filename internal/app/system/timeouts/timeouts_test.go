package timeouts

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	want := Config{
		SecretFetch: DefaultSecretFetch,
		Connect:     DefaultConnect,
		Ping:        DefaultPing,
		ReadHeader:  DefaultReadHeader,
		Shutdown:    DefaultShutdown,
	}
	if got := Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Configure(Config{SecretFetch: 3 * time.Second, Shutdown: -1})

	if got := SecretFetch(); got != 3*time.Second {
		t.Errorf("SecretFetch() = %v, want 3s", got)
	}
	if got := Connect(); got != DefaultConnect {
		t.Errorf("Connect() = %v, want default %v", got, DefaultConnect)
	}
	if got := Shutdown(); got != DefaultShutdown {
		t.Errorf("Shutdown() = %v, want default %v", got, DefaultShutdown)
	}
}

func TestReset(t *testing.T) {
	Configure(Config{Connect: time.Minute, Ping: time.Minute})
	Reset()

	if Connect() != DefaultConnect || Ping() != DefaultPing {
		t.Errorf("Reset did not restore defaults: %+v", Current())
	}
}

func TestWithTimeout_LogsOnDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	ctx, cancel := WithTimeout(context.Background(), time.Millisecond, logger, "secret fetch")
	<-ctx.Done()
	cancel()

	entries := logs.FilterMessage("operation timed out").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 timeout warning, got %d", len(entries))
	}
	if op := entries[0].ContextMap()["operation"]; op != "secret fetch" {
		t.Errorf("operation field = %v, want %q", op, "secret fetch")
	}
}

func TestWithTimeout_SilentWhenCancelledEarly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	_, cancel := WithTimeout(context.Background(), time.Hour, logger, "connect")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("expected no log entries, got %d", logs.Len())
	}
}
