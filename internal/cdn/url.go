// Package cdn implements the URL algebra for Cloudinary-style asset
// delivery URLs: recognizing them, splitting them into parts, rebuilding
// them, and rewriting their transformation segments. Everything here is
// pure string work; the package never touches the network.
package cdn

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedAssetURL is returned when a URL is not a recognized asset
// delivery URL. Check with errors.Is.
var ErrMalformedAssetURL = errors.New("malformed asset url")

var resourceTypes = map[string]bool{
	"image": true,
	"video": true,
	"raw":   true,
}

var deliveryTypes = map[string]bool{
	"upload":        true,
	"fetch":         true,
	"private":       true,
	"authenticated": true,
}

// AssetURL is a deconstructed asset delivery URL:
//
//	{base}/{resourceType}/{deliveryType}/[{transformation}/...][version/]{publicId}[.{format}]
//
// All fields hold raw (still escaped) URL text so that String is the exact
// inverse of Parse.
type AssetURL struct {
	// Base is the scheme, host and any path prefix before the resource
	// type segment, e.g. "https://res.cloudinary.com/demo". Kept verbatim.
	Base string
	// ResourceType is one of "image", "video" or "raw".
	ResourceType string
	// DeliveryType is one of "upload", "fetch", "private" or "authenticated".
	DeliveryType string
	// Transformation holds the slash-separated directive components in
	// order, e.g. ["e_background_removal", "c_pad,h_1000,w_1000"]. Empty
	// for an untransformed URL.
	Transformation []string
	// Version is the version segment including its "v" prefix, e.g.
	// "v1700000000", or "" when absent.
	Version string
	// PublicID is the asset identifier, folders included and extension
	// excluded, e.g. "second-hand/listings/chair".
	PublicID string
	// Format is the file extension without the dot, or "" when the public
	// ID has none.
	Format string
}

// Parse deconstructs an asset delivery URL. It returns an error wrapping
// ErrMalformedAssetURL when rawURL is not a recognized asset URL: not an
// absolute http(s) URL, carrying a query or fragment, missing the
// resource/delivery segment pair, or missing a public ID.
func Parse(rawURL string) (*AssetURL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedAssetURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: not an absolute URL: %s", ErrMalformedAssetURL, rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrMalformedAssetURL, u.Scheme)
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return nil, fmt.Errorf("%w: query or fragment present: %s", ErrMalformedAssetURL, rawURL)
	}
	if u.User != nil {
		return nil, fmt.Errorf("%w: userinfo present: %s", ErrMalformedAssetURL, rawURL)
	}

	// Slice the path out of the raw string instead of using u.Path, so the
	// original bytes (including any percent-escapes) survive untouched.
	hostEnd := strings.Index(rawURL, "://") + 3
	slash := strings.IndexByte(rawURL[hostEnd:], '/')
	if slash == -1 {
		return nil, fmt.Errorf("%w: no path: %s", ErrMalformedAssetURL, rawURL)
	}
	base := rawURL[:hostEnd+slash]
	segments := strings.Split(rawURL[hostEnd+slash+1:], "/")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: empty path segment: %s", ErrMalformedAssetURL, rawURL)
		}
	}

	// Locate the first resourceType/deliveryType pair; everything before it
	// belongs to the base (cloud name prefixes and the like).
	pair := -1
	for i := 0; i+1 < len(segments); i++ {
		if resourceTypes[segments[i]] && deliveryTypes[segments[i+1]] {
			pair = i
			break
		}
	}
	if pair == -1 {
		return nil, fmt.Errorf("%w: no delivery segment: %s", ErrMalformedAssetURL, rawURL)
	}
	if pair > 0 {
		base = base + "/" + strings.Join(segments[:pair], "/")
	}

	out := &AssetURL{
		Base:         base,
		ResourceType: segments[pair],
		DeliveryType: segments[pair+1],
	}

	rest := segments[pair+2:]
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no public id: %s", ErrMalformedAssetURL, rawURL)
	}

	j := 0
	for j < len(rest) && isDirectiveComponent(rest[j]) {
		out.Transformation = append(out.Transformation, rest[j])
		j++
	}
	if j < len(rest) && isVersionSegment(rest[j]) {
		out.Version = rest[j]
		j++
	}

	// A file can be named like a version or a directive; if consuming left
	// nothing for the public ID, give the last consumed segment back.
	if j == len(rest) {
		switch {
		case out.Version != "":
			out.Version = ""
			j--
		case len(out.Transformation) > 0:
			out.Transformation = out.Transformation[:len(out.Transformation)-1]
			if len(out.Transformation) == 0 {
				out.Transformation = nil
			}
			j--
		default:
			return nil, fmt.Errorf("%w: no public id: %s", ErrMalformedAssetURL, rawURL)
		}
	}

	id := make([]string, len(rest)-j)
	copy(id, rest[j:])
	last := id[len(id)-1]
	if dot := strings.LastIndexByte(last, '.'); dot > 0 && dot < len(last)-1 {
		out.Format = last[dot+1:]
		id[len(id)-1] = last[:dot]
	}
	out.PublicID = strings.Join(id, "/")

	return out, nil
}

// String rebuilds the delivery URL. For any URL accepted by Parse,
// Parse(s).String() == s byte for byte.
func (u *AssetURL) String() string {
	var b strings.Builder
	b.WriteString(u.Base)
	b.WriteByte('/')
	b.WriteString(u.ResourceType)
	b.WriteByte('/')
	b.WriteString(u.DeliveryType)
	for _, t := range u.Transformation {
		b.WriteByte('/')
		b.WriteString(t)
	}
	if u.Version != "" {
		b.WriteByte('/')
		b.WriteString(u.Version)
	}
	b.WriteByte('/')
	b.WriteString(u.PublicID)
	if u.Format != "" {
		b.WriteByte('.')
		b.WriteString(u.Format)
	}
	return b.String()
}

// IsRecognizedAssetURL reports whether rawURL is an asset delivery URL the
// codec can deconstruct. It never returns an error and never panics.
func IsRecognizedAssetURL(rawURL string) bool {
	_, err := Parse(rawURL)
	return err == nil
}

// ExtractPublicID returns the public ID of an asset delivery URL, folders
// included and extension excluded. Transformation and version segments do
// not affect the result.
func ExtractPublicID(rawURL string) (string, error) {
	u, err := Parse(rawURL)
	if err != nil {
		return "", err
	}
	return u.PublicID, nil
}

// isDirectiveComponent reports whether a path segment looks like a
// transformation component: its first comma-separated token starts with
// one to three lowercase letters followed by an underscore ("c_pad",
// "e_background_removal", "q_auto:best").
func isDirectiveComponent(seg string) bool {
	token := seg
	if i := strings.IndexByte(token, ','); i != -1 {
		token = token[:i]
	}
	u := strings.IndexByte(token, '_')
	if u < 1 || u > 3 {
		return false
	}
	for _, c := range token[:u] {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

// isVersionSegment reports whether a path segment is a version marker: a
// "v" followed by digits only.
func isVersionSegment(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for i := 1; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return false
		}
	}
	return true
}
