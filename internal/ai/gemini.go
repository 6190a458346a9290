package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const geminiModel = "gemini-3-flash-preview"

// Gemini pricing (per million tokens)
const (
	geminiInputPricePerMillion  = 0.50 // $0.50 per 1M input tokens (text/image)
	geminiOutputPricePerMillion = 3.00 // $3.00 per 1M output tokens
)

const imageFetchTimeout = 20 * time.Second

// GeminiGenerator generates descriptions with Google's Gemini API. Gemini
// takes inline image bytes rather than a URL, so the generator fetches the
// image from its delivery URL before each call.
type GeminiGenerator struct {
	client *genai.Client
	fetch  *resty.Client
}

// NewGeminiGenerator creates a Gemini-backed generator. It uses the
// GEMINI_API_KEY environment variable for authentication.
func NewGeminiGenerator(ctx context.Context) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{
		client: client,
		fetch:  resty.New().SetTimeout(imageFetchTimeout),
	}, nil
}

// Generate implements the Generator interface using Gemini.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.New().String()

	imageData, mimeType, err := g.fetchImage(ctx, req.ImageURL)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(buildPrompt(req)),
		{InlineData: &genai.Blob{Data: imageData, MIMEType: mimeType}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, geminiModel, contents, nil)
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, newError(CodeValidationFailed, "no candidates in response")
	}

	description, err := parseDescription(result.Text())
	if err != nil {
		return nil, err
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = calculateGeminiCost(usage.InputTokens, usage.OutputTokens)
	}

	log.Info().
		Str("model", geminiModel).
		Str("requestId", requestID).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("description llm call")

	return &Result{
		Description: description,
		Model:       geminiModel,
		RequestID:   requestID,
		Usage:       usage,
	}, nil
}

// fetchImage downloads the image bytes for inlining. The image host is the
// marketplace's own CDN, so a short timeout is plenty.
func (g *GeminiGenerator) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	res, err := g.fetch.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, "", newError(CodeTimeout, "image fetch timed out: %s", err)
		}
		return nil, "", newError(CodeUpstream, "failed to fetch image: %s", err)
	}
	if res.IsError() {
		return nil, "", newError(CodeUpstream, "failed to fetch image: %s (status: %d)", imageURL, res.StatusCode())
	}

	mimeType := res.Header().Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return res.Body(), mimeType, nil
}

// classifyGeminiError maps SDK failures into the closed code set.
func classifyGeminiError(err error) *Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return newError(CodeRateLimit, "rate limited by provider: %s", err)
		}
		return newError(CodeUpstream, "generate content failed: %s", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(CodeTimeout, "generate content timed out: %s", err)
	}
	return newError(CodeUpstream, "generate content failed: %s", err)
}

func calculateGeminiCost(inputTokens, outputTokens int64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * geminiInputPricePerMillion
	outputCost := float64(outputTokens) / 1_000_000 * geminiOutputPricePerMillion
	return inputCost + outputCost
}
