package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/talent-registration-api/internal/models"
)

type AIService struct {
	client *openai.Client
	model  string
}

// SuggestedItem is a draft development action proposed by the model.
type SuggestedItem struct {
	Horizon         models.PlanHorizon `json:"horizon"`
	Competency      string             `json:"competency"`
	Schedule        string             `json:"schedule"`
	HowToDevelop    string             `json:"how_to_develop"`
	ExpectedResults string             `json:"expected_results"`
}

func NewAIService(apiKey string) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey))
}

func NewAIServiceWithConfig(cfg openai.ClientConfig) *AIService {
	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

// SuggestDevelopmentItems drafts PDI items from free-form feedback such as
// evaluation comments or a manager's notes.
func (s *AIService) SuggestDevelopmentItems(ctx context.Context, employee, feedback string) ([]SuggestedItem, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are an HR assistant drafting an individual development plan.

Employee: %s

Feedback:
%s

Return a JSON array of development actions in this shape:
[
  {
    "horizon": "short | medium | long",
    "competency": "competency to develop",
    "schedule": "when it happens",
    "how_to_develop": "concrete actions",
    "expected_results": "observable outcome"
  }
]

Rules:
- short is 0-6 months, medium is 6-12 months, long is 12-24 months
- return [] when the feedback suggests nothing to develop
- return JSON only, without any explanation`, employee, feedback)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var items []SuggestedItem
	if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	out := make([]SuggestedItem, 0, len(items))
	for _, it := range items {
		if !it.Horizon.Valid() {
			it.Horizon = models.HorizonShort
		}
		if strings.TrimSpace(it.Competency) == "" {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
