package logging

import (
	"bytes"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/descent/domain/descent"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if result := parseLevel(tt.input); result != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Output: buf})
	logger.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %s", buf.String())
	}
	logger.Warn().Msg("kept")
	if !bytes.Contains(buf.Bytes(), []byte("kept")) {
		t.Errorf("expected warn line in output: %s", buf.String())
	}
}

func TestNew_WritesToOutput(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := New(Config{Level: "debug", Format: "json", Output: buf})
	logger.Debug().Str("check", "yes").Msg("hello")

	if !bytes.Contains(buf.Bytes(), []byte(`"check":"yes"`)) {
		t.Errorf("expected check field in output: %s", buf.String())
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  []string
	}{
		{"RunID", RunID("run-123"), []string{`"run_id":"run-123"`}},
		{"Problem", Problem("imo1988-q6"), []string{`"problem":"imo1988-q6"`}},
		{"State", State(descent.StateExploring), []string{`"state":"exploring"`}},
		{"FromState", FromState(descent.StateSeed), []string{`"from_state":"seed"`}},
		{"ToState", ToState(descent.StateExceptional), []string{`"to_state":"exceptional"`}},
		{"Pair", Pair(descent.PairOf(8, 30)), []string{`"x":"8"`, `"y":"30"`}},
		{"Witness", Witness(descent.PairOf(2, 8)), []string{`"witness":"(2, 8)"`}},
		{"Measure", Measure(big.NewInt(112)), []string{`"measure":"112"`}},
		{"Companion", Companion(big.NewInt(0)), []string{`"companion":"0"`}},
		{"Step", Step(3), []string{`"step":3`}},
		{"Kind", Kind(descent.KindVietaEqualsY), []string{`"kind":"vieta_equals_y"`}},
		{"KindNone", Kind(descent.KindNone), []string{`"kind":"none"`}},
		{"Obligation", Obligation(descent.ObligationDescent), []string{`"obligation":"descent"`}},
		{"Duration", Duration(100 * time.Millisecond), []string{`"duration_ms":100`}},
		{"Count", Count("solved", 7), []string{`"solved":7`}},
		{"Reason", Reason("cap"), []string{`"reason":"cap"`}},
		{"Component", Component("engine"), []string{`"component":"engine"`}},
		{"Str", Str("custom", "v"), []string{`"custom":"v"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			tt.field(logger.Info()).Msg("test")

			for _, want := range tt.want {
				if !bytes.Contains(buf.Bytes(), []byte(want)) {
					t.Errorf("expected %s in output: %s", want, buf.String())
				}
			}
		})
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	t.Run("with error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(errors.New("test error"))(logger.Info()).Msg("test")

		if !bytes.Contains(buf.Bytes(), []byte(`"error":"test error"`)) {
			t.Errorf("expected error field in output: %s", buf.String())
		}
	})

	t.Run("with nil error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(nil)(logger.Info()).Msg("test")

		if bytes.Contains(buf.Bytes(), []byte(`"error"`)) {
			t.Errorf("unexpected error field in output: %s", buf.String())
		}
	})
}

func TestGet(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
	SetLevel("debug")
	SetLevel("info")
}

func TestLogEvent(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()

	t.Run("Add chains fields", func(t *testing.T) {
		buf.Reset()
		NewEvent(logger.Info()).Add(RunID("run-1")).Add(State(descent.StateExploring)).Msg("test")

		if !bytes.Contains(buf.Bytes(), []byte(`"run_id":"run-1"`)) {
			t.Errorf("expected run_id field in output: %s", buf.String())
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"state":"exploring"`)) {
			t.Errorf("expected state field in output: %s", buf.String())
		}
	})

	t.Run("Send without message", func(t *testing.T) {
		buf.Reset()
		NewEvent(logger.Info()).Add(RunID("run-2")).Send()

		if !bytes.Contains(buf.Bytes(), []byte(`"run_id":"run-2"`)) {
			t.Errorf("expected run_id field in output: %s", buf.String())
		}
	})
}

func TestLogLevelHelpers(t *testing.T) {
	for name, fn := range map[string]func() *LogEvent{
		"Trace": Trace,
		"Debug": Debug,
		"Info":  Info,
		"Warn":  Warn,
		"Error": Error,
	} {
		if fn() == nil {
			t.Errorf("%s() returned nil", name)
		}
	}
}
