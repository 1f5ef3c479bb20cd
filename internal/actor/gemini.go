package actor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiActor asks a Gemini vision model for ShowUI-dialect action
// dictionaries via the Google Gen AI SDK.
type GeminiActor struct {
	client *genai.Client
	model  string
}

func NewGeminiActor(ctx context.Context, model string) (*GeminiActor, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiActor{client: client, model: model}, nil
}

func (a *GeminiActor) Act(ctx context.Context, task string, frame Frame) (Output, error) {
	parts := []*genai.Part{{Text: "TASK: " + task}}
	if len(frame.PNG) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: "image/png", Data: frame.PNG},
		})
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: 256,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: showUISystemPrompt}},
		},
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return Output{}, fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Output{}, fmt.Errorf("gemini returned no text")
	}
	return Output{Content: text, Role: "assistant"}, nil
}
