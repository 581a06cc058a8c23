package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first, Service: "stationd"})
	Init(Options{Level: "info", Output: &second, Service: "other"})

	l := Get()
	l.Info().Msg("hello")

	if second.Len() != 0 {
		t.Fatalf("second Init should not replace the logger")
	}
	var entry map[string]any
	if err := json.Unmarshal(first.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["service"] != "stationd" || entry["message"] != "hello" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestFor_TagsComponent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})

	l := For("gateway")
	l.Debug().Msg("x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["component"] != "gateway" {
		t.Fatalf("expected component tag, got %+v", entry)
	}
}

func TestGet_BeforeInitIsSilent(t *testing.T) {
	Reset()
	l := Get()
	if l.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger before Init, got %v", l.GetLevel())
	}
}
