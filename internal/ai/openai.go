package ai

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const openaiModel = "gpt-5.2"

// GPT-5.2 pricing (per million tokens)
const (
	openaiInputPricePerMillion  = 1.75  // $1.75 per 1M input tokens
	openaiOutputPricePerMillion = 14.00 // $14.00 per 1M output tokens
)

// OpenAIGenerator generates descriptions with OpenAI's vision-capable chat
// API. The image travels by delivery URL; nothing is downloaded locally.
type OpenAIGenerator struct {
	client openai.Client
}

// NewOpenAIGenerator creates an OpenAI-backed generator. It uses the
// OPENAI_API_KEY environment variable for authentication; extra request
// options (base URL override and the like) pass through to the client.
func NewOpenAIGenerator(opts ...option.RequestOption) *OpenAIGenerator {
	return &OpenAIGenerator{client: openai.NewClient(opts...)}
}

// Generate implements the Generator interface using OpenAI.
func (o *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.New().String()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openaiModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(buildPrompt(req)),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: req.ImageURL,
				}),
			}),
		},
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, newError(CodeValidationFailed, "no choices in response")
	}

	description, err := parseDescription(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		CostUSD:      calculateOpenAICost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
	}

	log.Info().
		Str("model", openaiModel).
		Str("requestId", requestID).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("description llm call")

	return &Result{
		Description: description,
		Model:       openaiModel,
		RequestID:   requestID,
		Usage:       usage,
	}, nil
}

// classifyOpenAIError maps SDK failures into the closed code set.
func classifyOpenAIError(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return newError(CodeRateLimit, "rate limited by provider: %s", err)
		}
		return newError(CodeUpstream, "chat completion failed: %s", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(CodeTimeout, "chat completion timed out: %s", err)
	}
	return newError(CodeUpstream, "chat completion failed: %s", err)
}

func calculateOpenAICost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * openaiInputPricePerMillion
	outputCost := float64(outputTokens) / 1_000_000 * openaiOutputPricePerMillion
	return inputCost + outputCost
}
