package ai

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/kierto/listing-ai/internal/storage"
	"github.com/rs/zerolog/log"
)

// CachedDescriber wraps a Describer with SQLite caching. Identical requests
// (same image URL, category and condition) reuse the stored description
// instead of spending tokens again.
type CachedDescriber struct {
	inner Describer
	store storage.DescriptionStore
}

// NewCachedDescriber creates a cached describer. A nil store degrades to
// pass-through.
func NewCachedDescriber(inner Describer, store storage.DescriptionStore) *CachedDescriber {
	return &CachedDescriber{inner: inner, store: store}
}

// hashRequest creates a SHA256 hash from the request fields.
// Includes a length prefix per field to prevent boundary collisions.
func hashRequest(req Request) string {
	h := sha256.New()
	for _, field := range []string{req.ImageURL, string(req.Category), string(req.Condition)} {
		binary.Write(h, binary.LittleEndian, int64(len(field)))
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateDescription implements the Describer interface with caching.
// Failures are never cached.
func (c *CachedDescriber) GenerateDescription(ctx context.Context, req Request) (*Result, error) {
	if c.store == nil {
		return c.inner.GenerateDescription(ctx, req)
	}

	hash := hashRequest(req)
	if cached := c.lookup(hash); cached != nil {
		return cached, nil
	}

	result, err := c.inner.GenerateDescription(ctx, req)
	if err != nil {
		return nil, err
	}

	c.put(hash, result)
	return result, nil
}

// GenerateDescriptions implements the Describer interface with caching.
// Hits are answered from the cache; misses go to the inner describer as one
// sub-batch and are merged back in their original positions, so order and
// per-item isolation survive.
func (c *CachedDescriber) GenerateDescriptions(ctx context.Context, reqs []Request) []Outcome {
	if c.store == nil {
		return c.inner.GenerateDescriptions(ctx, reqs)
	}

	outcomes := make([]Outcome, len(reqs))
	hashes := make([]string, len(reqs))
	var missed []Request
	var missedIdx []int
	for i, req := range reqs {
		hashes[i] = hashRequest(req)
		if cached := c.lookup(hashes[i]); cached != nil {
			outcomes[i] = Outcome{Result: cached}
			continue
		}
		missed = append(missed, req)
		missedIdx = append(missedIdx, i)
	}
	if len(missed) == 0 {
		return outcomes
	}

	for k, out := range c.inner.GenerateDescriptions(ctx, missed) {
		i := missedIdx[k]
		outcomes[i] = out
		if out.Result != nil {
			c.put(hashes[i], out.Result)
		}
	}

	return outcomes
}

func (c *CachedDescriber) lookup(hash string) *Result {
	cached, err := c.store.GetDescription(hash)
	if err != nil {
		log.Warn().Err(err).Msg("failed to check description cache")
		return nil
	}
	if cached == nil {
		return nil
	}
	log.Debug().Str("hash", hash[:16]).Msg("description cache hit")
	// Zero usage and no request id: nothing was spent on a cached result.
	return &Result{Description: cached.Description, Model: cached.Model}
}

func (c *CachedDescriber) put(hash string, result *Result) {
	entry := &storage.CachedDescription{Description: result.Description, Model: result.Model}
	if err := c.store.SetDescription(hash, entry); err != nil {
		log.Warn().Err(err).Msg("failed to cache description")
	} else {
		log.Debug().Str("hash", hash[:16]).Msg("cached description")
	}
}
