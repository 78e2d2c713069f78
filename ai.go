package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// contentGenerator abstracts the upstream completion API.
type contentGenerator interface {
	GenerateContent(ctx context.Context, systemPrompt, prompt string) (string, error)
}

type openAIGenerator struct {
	client *openai.Client
	model  string
}

func newOpenAIGenerator(apiKey, model string) *openAIGenerator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &openAIGenerator{client: openai.NewClient(apiKey), model: model}
}

func (g *openAIGenerator) GenerateContent(ctx context.Context, systemPrompt, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   200,
		Temperature: 0.8,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemPromptFor(contentType string) string {
	switch contentType {
	case "post":
		return "You are a creative social media content creator. Generate engaging, authentic social media posts based on the user's prompt. Keep posts concise, engaging, and suitable for a social platform. Include relevant hashtags where appropriate."
	case "comment":
		return "You are helping users write thoughtful comments. Generate a meaningful, respectful comment based on the user's prompt. Keep it conversational and engaging."
	case "bio":
		return "You are helping users write their social media bio. Create a concise, interesting bio that captures their personality or interests. Keep it under 150 characters."
	default:
		return "You are a helpful assistant for social media content creation."
	}
}

func (api *API) GenerateContentHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer afterRequestLogging(start, r)

	user, authErr := api.authenticate(r)
	if authErr != nil {
		api.metrics.BadRequests.WithLabelValues("generate_content").Inc()
		respondAPIError(w, authErr)
		return
	}

	if api.ai == nil {
		respondError(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	var req GenerateContentRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		api.metrics.BadRequests.WithLabelValues("generate_content").Inc()
		respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	contentType := req.Type
	if contentType == "" {
		contentType = "post"
	}

	content, err := api.ai.GenerateContent(r.Context(), systemPromptFor(contentType), req.Prompt)
	if err != nil {
		logger.WithError(err).Error("Upstream content generation failed")
		api.metrics.BadRequests.WithLabelValues("generate_content").Inc()
		respondError(w, http.StatusBadGateway, "Failed to generate content")
		return
	}
	if content == "" {
		respondError(w, http.StatusBadGateway, "Failed to generate content")
		return
	}

	logger.WithFields(logrus.Fields{"username": user.Username, "type": contentType}).Info("Content generated")
	api.metrics.AIGenerations.Inc()
	api.metrics.SuccessfulRequests.WithLabelValues("generate_content").Inc()
	respondData(w, map[string]string{"content": content}, "Content generated successfully")
}
