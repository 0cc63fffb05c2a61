package log

import (
	"testing"

	"go.uber.org/zap"
)

func TestInit(t *testing.T) {
	orig, origSugar := baseLogger, log
	defer func() { baseLogger, log = orig, origSugar }()

	if GetZapLogger().Core().Enabled(zap.ErrorLevel) {
		t.Error("logger should discard everything before Init")
	}
	if err := Init(true); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !GetZapLogger().Core().Enabled(zap.DebugLevel) {
		t.Error("debug logger should enable debug level")
	}
	if err := Init(false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if GetZapLogger().Core().Enabled(zap.DebugLevel) || !GetZapLogger().Core().Enabled(zap.InfoLevel) {
		t.Error("production logger should log from info level")
	}
	if zap.NewStdLog(GetZapLogger()) == nil {
		t.Error("NewStdLog returned nil")
	}
}
