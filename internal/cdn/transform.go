package cdn

import "slices"

// Enhancement directives applied to listing photos, in order: cut the item
// out of its background, fill with white, pad to a 1000x1000 square, then
// let the CDN pick quality and format.
const (
	directiveBackgroundRemoval = "e_background_removal"
	directiveWhiteFill         = "b_white"
	directivePadSquare         = "c_pad,h_1000,w_1000"
	directiveAutoQuality       = "q_auto:best"
	directiveAutoFormat        = "f_auto"
)

var enhancementChain = []string{
	directiveBackgroundRemoval,
	directiveWhiteFill,
	directivePadSquare,
	directiveAutoQuality,
	directiveAutoFormat,
}

// EnhancementChain returns a copy of the directive components inserted by
// GenerateEnhancedURL, in application order.
func EnhancementChain() []string {
	return slices.Clone(enhancementChain)
}

// GenerateEnhancedURL rewrites an asset delivery URL to apply the
// enhancement chain. Any transformation segments already present are
// replaced, so re-applying never stacks directives. Returns an error
// wrapping ErrMalformedAssetURL when rawURL is not a recognized asset URL.
func GenerateEnhancedURL(rawURL string) (string, error) {
	u, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	u.Transformation = slices.Clone(enhancementChain)
	return u.String(), nil
}

// RevertToOriginal undoes GenerateEnhancedURL. When the URL carries exactly
// the enhancement chain, the chain is stripped; any other input, including
// ones this package cannot parse or URLs with foreign transformations,
// comes back unchanged. Never returns an error; idempotent.
func RevertToOriginal(rawURL string) string {
	u, err := Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if !slices.Equal(u.Transformation, enhancementChain) {
		return rawURL
	}
	u.Transformation = nil
	return u.String()
}

// IsEnhanced reports whether the URL carries exactly the enhancement chain.
func IsEnhanced(rawURL string) bool {
	u, err := Parse(rawURL)
	return err == nil && slices.Equal(u.Transformation, enhancementChain)
}
