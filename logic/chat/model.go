package chat

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// CreateOpenAIChatModel builds the OpenAI-backed extraction model.
// Temperature is pinned to 0 so extraction stays repeatable.
func CreateOpenAIChatModel(ctx context.Context, apiKey, baseURL, modelName string) (model.ToolCallingChatModel, error) {
	temp := float32(0)
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       modelName,
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return chatModel, nil
}

// CreateOllamaChatModel builds a local Ollama-backed extraction model.
func CreateOllamaChatModel(ctx context.Context, url, modelName string) (model.ToolCallingChatModel, error) {
	chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: url,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("create ollama chat model: %w", err)
	}
	return chatModel, nil
}
