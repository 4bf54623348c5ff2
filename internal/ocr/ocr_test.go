package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestFilterWhitelist(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		whitelist string
		want      string
	}{
		{"empty whitelist passes through", "WBC 5,600/uL", "", "WBC 5,600/uL"},
		{"digits only", "Hb: 12.3 g/dL", "0123456789.", "12.3"},
		{"nothing allowed", "abc", "xyz", ""},
		{"all allowed", "42", "0123456789", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterWhitelist(tt.text, tt.whitelist); got != tt.want {
				t.Errorf("filterWhitelist(%q, %q) = %q, want %q", tt.text, tt.whitelist, got, tt.want)
			}
		})
	}
}

func TestNewUnknownEngine(t *testing.T) {
	_, err := New(context.Background(), "abbyy")
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("err = %v, want ErrUnknownEngine", err)
	}
}

func TestNewDefaultsToTesseract(t *testing.T) {
	engine, err := New(context.Background(), "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if engine.Name() != EngineTesseract {
		t.Errorf("default engine = %q, want %q", engine.Name(), EngineTesseract)
	}
}

func TestEngineErrorUnwrap(t *testing.T) {
	err := wrapEngineError("Recognize", EngineTesseract, ErrRecognitionFailed, "boom")
	if !errors.Is(err, ErrRecognitionFailed) {
		t.Errorf("wrapped error should match its sentinel")
	}

	// Wrapping an EngineError again must not double-wrap.
	again := wrapEngineError("Recognize", EngineTesseract, err, "outer")
	if again != err {
		t.Errorf("already-wrapped error should pass through unchanged")
	}
}
