package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionEngine recognizes text with the Google Cloud Vision API. It is an
// alternative to the local Tesseract engine for environments without a
// Tesseract installation.
//
// Vision has no native character whitelist, so whitelisted requests are
// post-filtered: characters outside the whitelist are dropped from the
// recognized text.
type VisionEngine struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionEngine creates a Vision-backed engine with credentials from the
// environment: GOOGLE_CREDENTIALS (inline JSON), GOOGLE_APPLICATION_CREDENTIALS
// (key file path), or Application Default Credentials as a fallback.
func NewVisionEngine(ctx context.Context) (*VisionEngine, error) {
	const op = "NewVisionEngine"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, wrapEngineError(op, EngineVision, err, "create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, wrapEngineError(op, EngineVision, err, "create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, wrapEngineError(op, EngineVision, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &VisionEngine{client: client}, nil
}

// Name identifies the engine for logging.
func (e *VisionEngine) Name() string { return EngineVision }

// Recognize sends the crop to the Vision API with the field language as a
// hint and returns the detected text.
func (e *VisionEngine) Recognize(ctx context.Context, req Request) (string, error) {
	const op = "Recognize"

	annotateReq := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: req.Image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_TEXT_DETECTION},
				},
			},
		},
	}
	if req.Language != "" {
		annotateReq.Requests[0].ImageContext = &visionpb.ImageContext{
			LanguageHints: []string{req.Language},
		}
	}

	resp, err := e.client.BatchAnnotateImages(ctx, annotateReq)
	if err != nil {
		return "", wrapEngineError(op, EngineVision, ErrRecognitionFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return "", wrapEngineError(op, EngineVision, ErrRecognitionFailed, "no response from Vision API")
	}
	imgResp := resp.Responses[0]
	if imgResp.Error != nil {
		return "", wrapEngineError(op, EngineVision, ErrRecognitionFailed, fmt.Sprintf("Vision API error: %s", imgResp.Error.Message))
	}

	var text string
	if imgResp.FullTextAnnotation != nil {
		text = imgResp.FullTextAnnotation.Text
	} else if len(imgResp.TextAnnotations) > 0 {
		text = imgResp.TextAnnotations[0].Description
	}

	return strings.TrimSpace(filterWhitelist(text, req.Whitelist)), nil
}

// Close releases the underlying Vision client.
func (e *VisionEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
