package service

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = float32(0.5)
)

var ErrMissingAPIKey = errors.New("gemini API key is not configured")

// GenAIStreamer is the production Streamer on the Gemini API.
type GenAIStreamer struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGenAIStreamer(ctx context.Context, apiKey, model string) (*GenAIStreamer, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIStreamer{client: client, model: model, temperature: DefaultTemperature}, nil
}

func (g *GenAIStreamer) StartChat(ctx context.Context, systemInstruction string) (Conversation, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return &genaiConversation{chat: chat}, nil
}

type genaiConversation struct {
	chat *genai.Chat
}

func (c *genaiConversation) SendStream(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range c.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
			if err != nil {
				yield("", err)
				return
			}
			if t := resp.Text(); t != "" {
				if !yield(t, nil) {
					return
				}
			}
		}
	}
}
