// Package listing drives the listing-creation workflow: enhance the photo's
// delivery URL, generate the description, hand back a draft for the seller
// to review.
package listing

import (
	"context"
	"fmt"

	"github.com/kierto/listing-ai/internal/ai"
	"github.com/kierto/listing-ai/internal/cdn"
	"github.com/kierto/listing-ai/internal/upload"
	"github.com/rs/zerolog/log"
)

// Draft is a listing draft ready for the seller to review. ImageURL is what
// the listing shows; OriginalImageURL keeps the untouched upload so the
// seller can switch back.
type Draft struct {
	ImageURL         string
	OriginalImageURL string
	Description      string
	Category         ai.Category
	Condition        ai.Condition
	// Generation carries the model, request id and token usage behind the
	// description.
	Generation *ai.Result
}

// DraftRequest asks for one draft in a batch.
type DraftRequest struct {
	ImageURL  string
	Category  ai.Category
	Condition ai.Condition
}

// DraftOutcome is one element of a batch result. Exactly one of Draft and
// Err is set.
type DraftOutcome struct {
	Draft *Draft
	Err   *ai.Error
}

// Service glues the URL pipeline, the upload client and the description
// service together.
type Service struct {
	describer ai.Describer
	uploader  *upload.Client
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithUploader lets the service accept raw image bytes via
// CreateDraftFromUpload.
func WithUploader(u *upload.Client) ServiceOption {
	return func(s *Service) {
		s.uploader = u
	}
}

// NewService creates the listing workflow service.
func NewService(describer ai.Describer, opts ...ServiceOption) *Service {
	s := &Service{describer: describer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnhanceImageURL returns the enhanced delivery URL for a listing photo, or
// the input unchanged when it isn't a recognized asset URL. Enhancement is
// best-effort and never blocks listing creation.
func (s *Service) EnhanceImageURL(rawURL string) string {
	enhanced, err := cdn.GenerateEnhancedURL(rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("image enhancement skipped")
		return rawURL
	}
	return enhanced
}

// RevertImageURL swaps an enhanced delivery URL back to the untouched
// photo. Anything that isn't an enhanced URL comes back unchanged.
func (s *Service) RevertImageURL(rawURL string) string {
	return cdn.RevertToOriginal(rawURL)
}

// CreateDraft builds a draft for one photo: enhance the URL best-effort,
// then generate the description against the displayed image. A generation
// failure is returned as-is so the caller can render it with
// ai.UserMessage.
func (s *Service) CreateDraft(ctx context.Context, imageURL string, category ai.Category, condition ai.Condition) (*Draft, error) {
	displayURL := s.EnhanceImageURL(imageURL)

	result, err := s.describer.GenerateDescription(ctx, ai.Request{
		ImageURL:  displayURL,
		Category:  category,
		Condition: condition,
	})
	if err != nil {
		return nil, fmt.Errorf("generate description: %w", err)
	}

	return &Draft{
		ImageURL:         displayURL,
		OriginalImageURL: imageURL,
		Description:      result.Description,
		Category:         category,
		Condition:        condition,
		Generation:       result,
	}, nil
}

// CreateDraftFromUpload stores the image bytes in the CDN first, then
// builds the draft from the stored asset's URL.
func (s *Service) CreateDraftFromUpload(ctx context.Context, imageData []byte, folder string, category ai.Category, condition ai.Condition) (*Draft, error) {
	if s.uploader == nil {
		return nil, fmt.Errorf("no uploader configured")
	}

	uploaded, err := s.uploader.UploadImage(ctx, imageData, folder)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return s.CreateDraft(ctx, uploaded.SecureURL, category, condition)
}

// CreateDrafts builds drafts for several photos at once. Outcomes match the
// input order; one photo's failure never blocks the others.
func (s *Service) CreateDrafts(ctx context.Context, reqs []DraftRequest) []DraftOutcome {
	aiReqs := make([]ai.Request, len(reqs))
	displayURLs := make([]string, len(reqs))
	for i, r := range reqs {
		displayURLs[i] = s.EnhanceImageURL(r.ImageURL)
		aiReqs[i] = ai.Request{
			ImageURL:  displayURLs[i],
			Category:  r.Category,
			Condition: r.Condition,
		}
	}

	outcomes := make([]DraftOutcome, len(reqs))
	for i, out := range s.describer.GenerateDescriptions(ctx, aiReqs) {
		if out.Err != nil {
			outcomes[i] = DraftOutcome{Err: out.Err}
			continue
		}
		outcomes[i] = DraftOutcome{Draft: &Draft{
			ImageURL:         displayURLs[i],
			OriginalImageURL: reqs[i].ImageURL,
			Description:      out.Result.Description,
			Category:         reqs[i].Category,
			Condition:        reqs[i].Condition,
			Generation:       out.Result,
		}}
	}

	return outcomes
}
