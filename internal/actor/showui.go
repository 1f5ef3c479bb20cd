package actor

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const showUISystemPrompt = `
You are a GUI agent. You are given a task and a screenshot of the screen.
Decide the next action to complete the task.

RESPONSE FORMAT:
Respond with a single JSON list of action dictionaries, nothing else:
[{"action": "CLICK", "value": null, "position": [0.5, 0.5]}]

ACTION SPACE:
- CLICK / TAP: click at "position" (x, y as fractions of the screen in [0, 1])
- HOVER: move the cursor to "position" without clicking
- INPUT: type "value" into the focused element
- ENTER: press the Enter key
- ESC: press the Escape key
- PRESS: press and hold the left button at "position"
- SWIPE: "position" is a pair of points [[x1, y1], [x2, y2]] to drag between
- SCROLL: "value" is {"direction": "up|down|left|right", "amount": 10}
- HOTKEY: "value" is a key combo like "ctrl+c"
- ANSWER: "value" is the final textual answer to the task
- STOP: the task is finished or cannot proceed

Do not generate any other text.
`

// ShowUIActor talks to a ShowUI-style model served behind an OpenAI-compatible
// endpoint and returns its action dictionaries verbatim.
type ShowUIActor struct {
	client *openai.Client
	model  string
}

// NewShowUIActor builds the actor from SHOWUI_URL / OPENAI_API_KEY. An empty
// base URL falls back to the public OpenAI endpoint.
func NewShowUIActor(baseURL, model string) (*ShowUIActor, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &ShowUIActor{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (a *ShowUIActor) Act(ctx context.Context, task string, frame Frame) (Output, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: "TASK: " + task},
	}
	if len(frame.PNG) > 0 {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(frame.PNG),
			},
		})
	}

	resp, err := chatWithBackoff(ctx, a.client, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: showUISystemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Temperature: 0,
		MaxTokens:   256,
	})
	if err != nil {
		return Output{}, fmt.Errorf("showui request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Output{}, fmt.Errorf("showui returned no choices")
	}

	return Output{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Role:    openai.ChatMessageRoleAssistant,
	}, nil
}

// chatWithBackoff retries rate-limited completions with exponential backoff.
func chatWithBackoff(ctx context.Context, client *openai.Client, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	var resp openai.ChatCompletionResponse
	var err error

	for attempt := 0; attempt < 5; attempt++ {
		resp, err = client.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !strings.Contains(err.Error(), "429") {
			return resp, err
		}
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		case <-time.After(time.Duration(3*(1<<attempt)) * time.Second):
		}
	}
	return resp, err
}
