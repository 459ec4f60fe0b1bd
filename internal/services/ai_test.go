package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/talent-registration-api/internal/models"
)

func newFakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewAIServiceWithConfig(cfg)
}

func TestAIService_SuggestDevelopmentItems(t *testing.T) {
	svc := newFakeOpenAI(t, "```json\n"+`[
		{"horizon":"short","competency":"Public speaking","schedule":"Q2","how_to_develop":"Present at demos","expected_results":"Two talks"},
		{"horizon":"someday","competency":"Go generics"},
		{"horizon":"long","competency":"  "}
	]`+"\n```")

	items, err := svc.SuggestDevelopmentItems(context.Background(), "Rae", "Needs to communicate more")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Public speaking", items[0].Competency)
	require.Equal(t, models.HorizonShort, items[1].Horizon)
}

func TestAIService_InvalidResponse(t *testing.T) {
	svc := newFakeOpenAI(t, "I cannot help with that")
	_, err := svc.SuggestDevelopmentItems(context.Background(), "Rae", "feedback")
	require.ErrorContains(t, err, "failed to parse AI response")
}

func TestAIService_Nil(t *testing.T) {
	var svc *AIService
	_, err := svc.SuggestDevelopmentItems(context.Background(), "Rae", "feedback")
	require.Error(t, err)
}
