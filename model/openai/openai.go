// Package openai provides a Completer backed by the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/convodesk/convodesk/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Completer wraps the OpenAI Chat Completions API behind the generic
// model.Completer interface.
type Completer struct {
	client *openai.Client
	opts   Options
}

var _ model.Completer = (*Completer)(nil)

// New creates a new OpenAI completer using the official client.
func New(optFns ...func(o *Options)) *Completer {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI completer from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Completer {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.3,
		MaxCompletionTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Completer{client: client, opts: opts}
}

// Complete implements model.Completer via a non-streaming chat completion.
func (c *Completer) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	maxTokens := c.opts.MaxCompletionTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api error: empty choice list")
	}

	return &model.Response{Text: resp.Choices[0].Message.Content, Model: c.opts.Model}, nil
}

// Info implements model.Completer.
func (c *Completer) Info() model.Info {
	return model.Info{Name: c.opts.Model, Provider: "openai"}
}

// buildMessages converts the normalized request into OpenAI chat messages.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}
	for _, m := range req.Messages {
		if m.Text == "" {
			continue
		}
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Text))
		default:
			messages = append(messages, openai.UserMessage(m.Text))
		}
	}
	return messages
}
