package advisor

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"tailor/internal/patch"
)

// GeminiAdvisor implements Advisor using Gemini text generation.
type GeminiAdvisor struct {
	client        *genai.Client
	model         string
	promptBuilder *PromptBuilder
}

func NewGeminiAdvisor(ctx context.Context, apiKey string, modelName string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiAdvisor{
		client:        client,
		model:         modelName,
		promptBuilder: &PromptBuilder{},
	}, nil
}

func (g *GeminiAdvisor) GenerateQuestions(ctx context.Context, resumeText, jobText string) ([]string, error) {
	prompt := g.promptBuilder.BuildQuestionsPrompt(resumeText, jobText)
	raw, err := g.generate(ctx, questionsSystemMessage, prompt)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(raw)
}

func (g *GeminiAdvisor) GenerateEdits(ctx context.Context, resumeText, jobText string, questions, answers []string) ([]patch.EditProposal, error) {
	prompt := g.promptBuilder.BuildEditsPrompt(resumeText, jobText, questions, answers)
	raw, err := g.generate(ctx, editsSystemMessage, prompt)
	if err != nil {
		return nil, err
	}
	return ParseEdits(raw)
}

func (g *GeminiAdvisor) generate(ctx context.Context, system, prompt string) (string, error) {
	contents := genai.Text(prompt)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini response was empty")
	}
	return text, nil
}
