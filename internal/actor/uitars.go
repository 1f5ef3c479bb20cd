package actor

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Grounding prompt from the UI-TARS repo; replies come back as single
// bracket-call lines that ConvertAction translates into the shared schema.
const uiTarsSystemPrompt = `
You are a GUI agent. You are given a task and your action history, with screenshots. You need to perform the next action to complete the task.

## Output Format
` + "```Action: ...```" + `

## Action Space
click(start_box='<|box_start|>(x1,y1)<|box_end|>')
hotkey(key='')
type(content='') #If you want to submit your input, use "\n" at the end of ` + "`content`" + `.
scroll(start_box='<|box_start|>(x1,y1)<|box_end|>', direction='down or up or right or left')
wait() #Sleep for 5s and take a screenshot to check for any changes.
finished()
call_user() # Submit the task and call the user when the task is unsolvable, or when you need the user's help.

## Note
- Do not generate any other text.
`

// UITARSActor drives a UI-TARS model served behind an OpenAI-compatible
// endpoint and converts its bracket-call replies into decoder input.
type UITARSActor struct {
	client *openai.Client
	model  string
}

func NewUITARSActor(baseURL, apiKey string) (*UITARSActor, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("UITARS_URL is not set")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &UITARSActor{client: openai.NewClientWithConfig(cfg), model: "ui-tars"}, nil
}

func (a *UITARSActor) Act(ctx context.Context, task string, frame Frame) (Output, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: task},
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
			{Role: openai.ChatMessageRoleSystem, Content: uiTarsSystemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		Temperature: 0,
		MaxTokens:   256,
	})
	if err != nil {
		return Output{}, fmt.Errorf("ui-tars request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Output{}, fmt.Errorf("ui-tars returned no choices")
	}

	converted := ConvertAction(resp.Choices[0].Message.Content, frame.Width, frame.Height)
	return Output{Content: converted, Role: openai.ChatMessageRoleAssistant}, nil
}
