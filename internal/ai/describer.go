// Package ai generates listing descriptions from item photos with a vision
// LLM. A Service validates the request, enforces the request deadline and
// fans batches out to a provider; every failure surfaces as a classified
// *Error so callers can show the right message.
package ai

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Category is the listing category picked by the seller.
type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryFurniture   Category = "FURNITURE"
	CategoryClothing    Category = "CLOTHING"
	CategorySports      Category = "SPORTS"
	CategoryBooks       Category = "BOOKS"
	CategoryToys        Category = "TOYS"
	CategoryHome        Category = "HOME"
	CategoryGarden      Category = "GARDEN"
	CategoryVehicles    Category = "VEHICLES"
	CategoryOther       Category = "OTHER"
)

var categories = map[Category]bool{
	CategoryElectronics: true,
	CategoryFurniture:   true,
	CategoryClothing:    true,
	CategorySports:      true,
	CategoryBooks:       true,
	CategoryToys:        true,
	CategoryHome:        true,
	CategoryGarden:      true,
	CategoryVehicles:    true,
	CategoryOther:       true,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return categories[c]
}

// Condition is the wear grade picked by the seller.
type Condition string

const (
	ConditionNew     Condition = "NEW"
	ConditionLikeNew Condition = "LIKE_NEW"
	ConditionGood    Condition = "GOOD"
	ConditionFair    Condition = "FAIR"
	ConditionPoor    Condition = "POOR"
)

var conditions = map[Condition]bool{
	ConditionNew:     true,
	ConditionLikeNew: true,
	ConditionGood:    true,
	ConditionFair:    true,
	ConditionPoor:    true,
}

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	return conditions[c]
}

// Request asks for one listing description.
type Request struct {
	ImageURL  string    `json:"imageUrl"`
	Category  Category  `json:"category"`
	Condition Condition `json:"condition"`
}

// Usage tracks token consumption and cost for a single call.
type Usage struct {
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
	TotalTokens  int64   `json:"totalTokens"`
	CostUSD      float64 `json:"costUsd"`
}

// Result is a generated listing description plus call metadata. RequestID
// correlates the result with the provider call in the logs; cached results
// have none.
type Result struct {
	Description string `json:"description"`
	Model       string `json:"model"`
	RequestID   string `json:"requestId"`
	Usage       Usage  `json:"usage"`
}

// Outcome is one element of a batch result. Exactly one of Result and Err
// is set.
type Outcome struct {
	Result *Result
	Err    *Error
}

// Generator produces a description for an already validated request.
// Implementations classify the failures they can recognize (rate limits,
// deadline expiry, unusable model output) as *Error; anything else is
// normalized by the Service.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Describer is the generation API the rest of the application consumes.
// Implemented by Service and by CachedDescriber.
type Describer interface {
	GenerateDescription(ctx context.Context, req Request) (*Result, error)
	GenerateDescriptions(ctx context.Context, reqs []Request) []Outcome
}

const (
	defaultTimeout     = 30 * time.Second
	defaultConcurrency = 3
)

// Service validates requests, enforces the request timeout and guarantees
// every failure is a classified *Error.
type Service struct {
	gen         Generator
	timeout     time.Duration
	concurrency int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimeout sets the hard deadline for a single generation call.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithConcurrency bounds how many batch items run at once.
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a description service on top of a provider.
func NewService(gen Generator, opts ...ServiceOption) *Service {
	s := &Service{gen: gen, timeout: defaultTimeout, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateDescription validates the request and generates one description.
// Validation short-circuits in a fixed order (missing image, unusable image
// URL, unknown category/condition) before any provider call is made.
func (s *Service) GenerateDescription(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// GenerateDescriptions generates a description per request. The result
// slice matches the input order and length; items run concurrently up to
// the configured bound, and one item's failure never cancels its siblings.
func (s *Service) GenerateDescriptions(ctx context.Context, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			result, err := s.GenerateDescription(ctx, req)
			if err != nil {
				outcomes[i] = Outcome{Err: classify(err)}
			} else {
				outcomes[i] = Outcome{Result: result}
			}
			return nil
		})
	}
	// The closures never return an error; Wait only joins them.
	_ = g.Wait()

	return outcomes
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.ImageURL) == "" {
		return newError(CodeNoImage, "image url is required")
	}
	if !isAbsoluteHTTPURL(req.ImageURL) {
		return newError(CodeInvalidImage, "not an absolute http(s) url: %s", req.ImageURL)
	}
	if !req.Category.Valid() {
		return newError(CodeInvalidParams, "unknown category: %q", req.Category)
	}
	if !req.Condition.Valid() {
		return newError(CodeInvalidParams, "unknown condition: %q", req.Condition)
	}
	return nil
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// classify normalizes a provider failure into a *Error. Already classified
// errors pass through, deadline expiry becomes a timeout, everything else
// is an upstream failure.
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(CodeTimeout, "description request timed out: %s", err)
	}
	return newError(CodeUpstream, "description service failed: %s", err)
}
