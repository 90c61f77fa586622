package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tailor/internal/patch"
)

// OpenAIAdvisor talks to any OpenAI-compatible chat completions endpoint.
// The default endpoint is OpenRouter, which proxies most hosted models.
type OpenAIAdvisor struct {
	client        *http.Client
	apiKey        string
	model         string
	endpoint      string
	promptBuilder *PromptBuilder
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIChatMessage `json:"message"`
	} `json:"choices"`
}

func NewOpenAIAdvisor(apiKey, model, baseURL string) *OpenAIAdvisor {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://openrouter.ai/api/v1/chat/completions"
	} else {
		endpoint = strings.TrimRight(endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			if strings.HasSuffix(endpoint, "/v1") {
				endpoint += "/chat/completions"
			} else {
				endpoint += "/v1/chat/completions"
			}
		}
	}
	return &OpenAIAdvisor{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		apiKey:        apiKey,
		model:         model,
		endpoint:      endpoint,
		promptBuilder: &PromptBuilder{},
	}
}

func (a *OpenAIAdvisor) GenerateQuestions(ctx context.Context, resumeText, jobText string) ([]string, error) {
	prompt := a.promptBuilder.BuildQuestionsPrompt(resumeText, jobText)
	raw, err := a.generate(ctx, questionsSystemMessage, prompt)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(raw)
}

func (a *OpenAIAdvisor) GenerateEdits(ctx context.Context, resumeText, jobText string, questions, answers []string) ([]patch.EditProposal, error) {
	prompt := a.promptBuilder.BuildEditsPrompt(resumeText, jobText, questions, answers)
	raw, err := a.generate(ctx, editsSystemMessage, prompt)
	if err != nil {
		return nil, err
	}
	return ParseEdits(raw)
}

func (a *OpenAIAdvisor) generate(ctx context.Context, system, prompt string) (string, error) {
	if strings.TrimSpace(a.apiKey) == "" {
		return "", fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(a.model) == "" {
		return "", fmt.Errorf("model is required")
	}

	reqBody := openAIChatRequest{
		Model: a.model,
		Messages: []openAIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// OpenRouter attribution headers; harmless on other providers.
	req.Header.Set("HTTP-Referer", "https://resume-assistant.com")
	req.Header.Set("X-Title", "Resume Assistant")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}
	text := parsed.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("chat response was empty")
	}
	return text, nil
}
