// Package upload pushes listing photos into the CDN asset store. The URL
// codec never touches the network; this client is the one place that does.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// DefaultFolder is where listing photos land when the caller doesn't pick
// a folder.
const DefaultFolder = "second-hand/listings"

// ClientOpts configures the upload client.
type ClientOpts struct {
	// BaseURL is the CDN upload endpoint root, e.g.
	// "https://api.cloudinary.com/v1_1/kierto".
	BaseURL string
	// UploadPreset names the unsigned upload preset to apply.
	UploadPreset string
	// APIKey and APISecret switch the client to signed uploads. When
	// APISecret is set each request carries a timestamp and signature
	// instead of the unsigned preset.
	APIKey    string
	APISecret string
}

// UploadResult is the CDN's record of a stored asset.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Format    string `json:"format"`
	Bytes     int    `json:"bytes"`
}

// Client uploads listing photos to the CDN.
type Client struct {
	httpClient *resty.Client
	preset     string
	apiKey     string
	apiSecret  string
}

// NewClient creates an upload client for the given endpoint.
func NewClient(opts ClientOpts) *Client {
	c := &Client{
		preset:    opts.UploadPreset,
		apiKey:    opts.APIKey,
		apiSecret: opts.APISecret,
	}
	c.httpClient = resty.New().
		SetDebug(false).
		SetBaseURL(opts.BaseURL).
		SetHeaders(
			map[string]string{
				"Accept":     "application/json",
				"User-Agent": "kierto-listing-ai/1.0",
			},
		)

	return c
}

// UploadImage stores image bytes under the given folder and returns the
// stored asset's identifiers. An empty folder falls back to DefaultFolder.
func (c *Client) UploadImage(ctx context.Context, imageData []byte, folder string) (*UploadResult, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("no image data")
	}
	if folder == "" {
		folder = DefaultFolder
	}

	fields := map[string]string{"folder": folder}
	if c.apiSecret != "" {
		// api_key and the signature itself stay out of the signed string.
		fields["timestamp"] = strconv.FormatInt(time.Now().Unix(), 10)
		fields["signature"] = SignParams(fields, c.apiSecret)
		fields["api_key"] = c.apiKey
	} else {
		fields["upload_preset"] = c.preset
	}

	result := &UploadResult{}
	_, err := handleError(c.httpClient.
		NewRequest().
		SetContext(ctx).
		SetFileReader("file", "image", bytes.NewReader(imageData)).
		SetFormData(fields).
		SetResult(result).
		Post("/image/upload"))
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("publicId", result.PublicID).
		Str("folder", folder).
		Int("bytes", len(imageData)).
		Msg("uploaded image")

	return result, nil
}

// handleError is a generic error handler for failing response (>399 status
// code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}

	return res, nil
}
