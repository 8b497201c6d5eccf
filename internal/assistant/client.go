// Package assistant wraps the LLM used by the diagnosis helper. The
// suggestion is advisory material for the doctor, never a stored
// diagnosis.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const systemPrompt = "You are a clinical decision-support assistant. " +
	"Given a patient's reported symptoms, list the most probable diagnoses " +
	"with a short rationale, and always recommend confirmation by a physician."

// Client calls Gemini for diagnosis suggestions.
type Client struct {
	client  *genai.Client
	modelID string
}

// New creates a diagnosis assistant client.
func New(ctx context.Context, apiKey, modelID string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assistant: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to create gemini client: %w", err)
	}

	return &Client{client: client, modelID: modelID}, nil
}

// Suggest returns a diagnosis suggestion for free-text symptoms.
func (c *Client) Suggest(ctx context.Context, symptoms string) (string, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return "", errors.New("assistant: symptoms text is empty")
	}

	model := c.client.GenerativeModel(c.modelID)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	resp, err := model.GenerateContent(ctx, genai.Text("Patient symptoms: "+symptoms))
	if err != nil {
		return "", fmt.Errorf("assistant: generation failed: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("assistant: model returned no text")
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}
