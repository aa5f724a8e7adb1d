package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1/chat/completions"
	DefaultOpenRouterModel = "openai/gpt-4o"
)

// OpenRouterParser parses transcripts through an OpenAI-compatible chat
// completions endpoint.
type OpenRouterParser struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

func NewOpenRouterParser(apiKey, model, url string, client *http.Client) (*OpenRouterParser, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}
	if url == "" {
		url = DefaultOpenRouterURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenRouterParser{apiKey: apiKey, model: model, url: url, client: client}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenRouterParser) Parse(ctx context.Context, transcript string) (ParsedTranscript, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(transcript)},
		},
	})
	if err != nil {
		return ParsedTranscript{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return ParsedTranscript{}, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return ParsedTranscript{}, fmt.Errorf("call AI API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ParsedTranscript{}, fmt.Errorf("read AI response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return ParsedTranscript{}, fmt.Errorf("AI API returned status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return ParsedTranscript{}, fmt.Errorf("decode AI response: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return ParsedTranscript{}, errors.New("no response from AI")
	}

	return DecodeParsed([]byte(completion.Choices[0].Message.Content))
}
