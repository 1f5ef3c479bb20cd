package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	ModeNavigation  = "navigation"
	ModeInteraction = "interaction"
)

type PlanStep struct {
	Index int    `json:"index"`
	Goal  string `json:"goal"`
	Mode  string `json:"mode"`
}

type Plan struct {
	Steps []PlanStep `json:"steps"`
}

type Client interface {
	BuildPlan(ctx context.Context, task string) (*Plan, error)
}

type OpenAIPlanner struct {
	client *openai.Client
}

func NewOpenAIPlanner() (*OpenAIPlanner, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	client := openai.NewClient(apiKey)
	return &OpenAIPlanner{client: client}, nil
}

const plannerSystemPrompt = `
You are a high-level task planner for a GUI agent that operates a screen
with mouse and keyboard.

Your job is to decompose a single natural-language user request into
a small sequence of high-level steps.

Each step must have:
- "index": integer starting from 1
- "goal": what should be achieved in this step
- "mode": either "navigation" or "interaction"

"navigation":
  - moving between apps, windows, pages or sections
  - opening an application, a menu, a settings screen

"interaction":
  - working inside one screen or dialog
  - filling fields, toggling options, pressing confirm / save / apply buttons

Return a JSON object of the form:
{
  "steps": [
    { "index": 1, "goal": "...", "mode": "navigation" },
    { "index": 2, "goal": "...", "mode": "interaction" }
  ]
}

Do not include any other fields.
Keep steps concise but informative.
`

func (p *OpenAIPlanner) BuildPlan(ctx context.Context, task string) (*Plan, error) {
	userMsg := fmt.Sprintf("User task:\n%s\n\nProduce 3-7 high-level steps.", task)

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: plannerSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMsg,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI planner error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("planner returned no choices")
	}

	content := resp.Choices[0].Message.Content

	var plan Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("planner JSON parse error: %w | content: %s", err, content)
	}

	normalizeSteps(plan.Steps)
	return &plan, nil
}

// normalizeSteps fixes up missing indexes and guesses a mode when the model
// returned something unexpected.
func normalizeSteps(steps []PlanStep) {
	for i := range steps {
		if steps[i].Index == 0 {
			steps[i].Index = i + 1
		}
		mode := strings.ToLower(strings.TrimSpace(steps[i].Mode))
		if mode != ModeNavigation && mode != ModeInteraction {
			goal := strings.ToLower(steps[i].Goal)
			if strings.Contains(goal, "open") ||
				strings.Contains(goal, "go to") ||
				strings.Contains(goal, "switch to") ||
				strings.Contains(goal, "launch") {
				mode = ModeNavigation
			} else {
				mode = ModeInteraction
			}
		}
		steps[i].Mode = mode
	}
}
