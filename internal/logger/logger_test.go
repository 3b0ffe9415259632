package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
		debugOn bool
		infoOn  bool
	}{
		{name: "local defaults to debug", env: "local", debugOn: true, infoOn: true},
		{name: "prod defaults to info", env: "prod", infoOn: true},
		{name: "level override", env: "local", level: "warn"},
		{name: "prod debug override", env: "prod", level: "debug", debugOn: true, infoOn: true},
		{name: "unknown env", env: "staging", wantErr: true},
		{name: "bad level", env: "dev", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugOn)
			}
			if got := l.Core().Enabled(zapcore.InfoLevel); got != tt.infoOn {
				t.Errorf("info enabled = %v, want %v", got, tt.infoOn)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}

	stored := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), stored)
	if FromContext(ctx) != stored {
		t.Error("expected the stored logger")
	}

	fallback := zap.NewExample()
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Error("expected the fallback logger")
	}
	if FromContextOr(ctx, fallback) != stored {
		t.Error("stored logger must win over the fallback")
	}
}
