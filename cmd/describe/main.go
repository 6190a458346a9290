package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kierto/listing-ai/config"
	"github.com/kierto/listing-ai/internal/ai"
	"github.com/kierto/listing-ai/internal/listing"
	"github.com/kierto/listing-ai/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <image-url> [category] [condition]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY       - Required for the openai provider (default)\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_API_KEY       - Required for the gemini provider\n")
		fmt.Fprintf(os.Stderr, "  LISTING_AI_PROVIDER  - openai (default) or gemini\n")
		fmt.Fprintf(os.Stderr, "  LISTING_AI_CACHE_DB  - Optional SQLite cache path\n")
		os.Exit(1)
	}

	config.LoadEnvFile()

	provider := config.Provider()
	if missing := config.MissingKeys(provider); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Missing required config: %s\n", strings.Join(missing, ", "))
		os.Exit(1)
	}

	imageURL := os.Args[1]
	category := ai.CategoryOther
	if len(os.Args) >= 3 {
		category = ai.Category(strings.ToUpper(os.Args[2]))
	}
	condition := ai.ConditionGood
	if len(os.Args) >= 4 {
		condition = ai.Condition(strings.ToUpper(os.Args[3]))
	}

	ctx := context.Background()

	gen, err := newGenerator(ctx, provider)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s generator: %v\n", provider, err)
		os.Exit(1)
	}

	var describer ai.Describer = ai.NewService(gen,
		ai.WithTimeout(config.RequestTimeout()),
		ai.WithConcurrency(config.BatchConcurrency()),
	)

	if dbPath := config.CacheDBPath(); dbPath != "" {
		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open cache: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		describer = ai.NewCachedDescriber(describer, store)
	}

	svc := listing.NewService(describer)
	draft, err := svc.CreateDraft(ctx, imageURL, category, condition)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "%s\n", ai.UserMessage(err))
		os.Exit(1)
	}

	printDraft(draft)
}

func newGenerator(ctx context.Context, provider string) (ai.Generator, error) {
	if provider == "gemini" {
		return ai.NewGeminiGenerator(ctx)
	}
	return ai.NewOpenAIGenerator(), nil
}

func printDraft(draft *listing.Draft) {
	fmt.Printf("Description: %s\n", draft.Description)
	fmt.Println()
	if draft.ImageURL != draft.OriginalImageURL {
		fmt.Printf("Image:       %s\n", draft.ImageURL)
	}
	result := draft.Generation
	fmt.Printf("Model:       %s\n", result.Model)
	if result.RequestID != "" {
		fmt.Printf("Request ID:  %s\n", result.RequestID)
	}
	fmt.Printf("Tokens:      %d in, %d out (%d total)\n",
		result.Usage.InputTokens, result.Usage.OutputTokens, result.Usage.TotalTokens)
	fmt.Printf("Cost:        $%.6f\n", result.Usage.CostUSD)
}
