package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kierto/listing-ai/config"
	"github.com/kierto/listing-ai/internal/cdn"
	"github.com/kierto/listing-ai/internal/upload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <image-file> [folder]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
		fmt.Fprintf(os.Stderr, "  CDN_UPLOAD_URL     - Required, CDN upload endpoint root\n")
		fmt.Fprintf(os.Stderr, "  CDN_UPLOAD_PRESET  - Unsigned upload preset\n")
		fmt.Fprintf(os.Stderr, "  CDN_API_KEY        - API key for signed uploads\n")
		fmt.Fprintf(os.Stderr, "  CDN_API_SECRET     - API secret; set to upload signed\n")
		os.Exit(1)
	}

	config.LoadEnvFile()

	baseURL := config.UploadBaseURL()
	if baseURL == "" {
		fmt.Fprintf(os.Stderr, "Missing required config: CDN_UPLOAD_URL\n")
		os.Exit(1)
	}
	preset := config.UploadPreset()
	apiSecret := config.UploadAPISecret()
	if preset == "" && apiSecret == "" {
		fmt.Fprintf(os.Stderr, "Missing required config: CDN_UPLOAD_PRESET or CDN_API_SECRET\n")
		os.Exit(1)
	}

	imageData, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read image: %v\n", err)
		os.Exit(1)
	}
	folder := ""
	if len(os.Args) >= 3 {
		folder = os.Args[2]
	}

	client := upload.NewClient(upload.ClientOpts{
		BaseURL:      baseURL,
		UploadPreset: preset,
		APIKey:       config.UploadAPIKey(),
		APISecret:    apiSecret,
	})

	result, err := client.UploadImage(context.Background(), imageData, folder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Public ID: %s\n", result.PublicID)
	fmt.Printf("URL:       %s\n", result.SecureURL)
	if enhanced, err := cdn.GenerateEnhancedURL(result.SecureURL); err == nil {
		fmt.Printf("Enhanced:  %s\n", enhanced)
	}
}
