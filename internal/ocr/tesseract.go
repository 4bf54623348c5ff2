package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text with a local Tesseract installation via
// gosseract. A fresh client is created per request; regions are tiny, so
// client setup cost is negligible next to the recognition itself.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs the default, Tesseract-backed engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{clientFactory: gosseract.NewClient}
}

// Name identifies the engine for logging.
func (e *TesseractEngine) Name() string { return EngineTesseract }

// Recognize runs single-line recognition on the crop, constrained to the
// request's language and character whitelist.
func (e *TesseractEngine) Recognize(ctx context.Context, req Request) (string, error) {
	const op = "Recognize"

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(req.Image); err != nil {
		return "", wrapEngineError(op, EngineTesseract, err, "set image")
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", wrapEngineError(op, EngineTesseract, err, "set page segmentation mode")
	}
	if req.Language != "" {
		if err := c.SetLanguage(req.Language); err != nil {
			return "", wrapEngineError(op, EngineTesseract, err, "set language "+req.Language)
		}
	}
	if req.Whitelist != "" {
		if err := c.SetVariable(gosseract.SettableVariable("tessedit_char_whitelist"), req.Whitelist); err != nil {
			return "", wrapEngineError(op, EngineTesseract, err, "set character whitelist")
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", wrapEngineError(op, EngineTesseract, ErrRecognitionFailed, err.Error())
	}
	return strings.TrimSpace(text), nil
}
