package ai

import (
	"context"
	"sync"
	"testing"

	"github.com/kierto/listing-ai/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory DescriptionStore for tests.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]*storage.CachedDescription
	getErr  error
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]*storage.CachedDescription{}}
}

func (f *fakeStore) GetDescription(hash string) (*storage.CachedDescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[hash], nil
}

func (f *fakeStore) SetDescription(hash string, entry *storage.CachedDescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[hash] = entry
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func TestCachedDescriber_cachesSuccesses(t *testing.T) {
	inner := &MockDescriber{}
	store := newFakeStore()
	cached := NewCachedDescriber(inner, store)
	req := validRequest()

	first, err := cached.GenerateDescription(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.CallCount("GenerateDescription"))
	assert.Equal(t, 1, store.len())

	second, err := cached.GenerateDescription(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.CallCount("GenerateDescription"), "second call must hit the cache")

	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.Model, second.Model)
	// Nothing was spent on the cached result.
	assert.Empty(t, second.RequestID)
	assert.Equal(t, Usage{}, second.Usage)
}

func TestCachedDescriber_doesNotCacheFailures(t *testing.T) {
	inner := &MockDescriber{
		GenerateDescriptionFunc: func(ctx context.Context, req Request) (*Result, error) {
			return nil, newError(CodeUpstream, "boom")
		},
	}
	store := newFakeStore()
	cached := NewCachedDescriber(inner, store)

	_, err := cached.GenerateDescription(context.Background(), validRequest())
	require.Error(t, err)
	_, err = cached.GenerateDescription(context.Background(), validRequest())
	require.Error(t, err)

	assert.Equal(t, 2, inner.CallCount("GenerateDescription"))
	assert.Equal(t, 0, store.len())
}

func TestCachedDescriber_storeErrorsDegradeToPassThrough(t *testing.T) {
	inner := &MockDescriber{}
	store := newFakeStore()
	store.getErr = assert.AnError
	store.setErr = assert.AnError
	cached := NewCachedDescriber(inner, store)

	result, err := cached.GenerateDescription(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Description)
	assert.Equal(t, 1, inner.CallCount("GenerateDescription"))
}

func TestCachedDescriber_nilStore(t *testing.T) {
	inner := &MockDescriber{}
	cached := NewCachedDescriber(inner, nil)

	for range 2 {
		_, err := cached.GenerateDescription(context.Background(), validRequest())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, inner.CallCount("GenerateDescription"))
}

func TestCachedDescriber_batchMergesHitsAndMisses(t *testing.T) {
	reqA := Request{ImageURL: "https://cdn.example.com/image/upload/a.jpg", Category: CategoryFurniture, Condition: ConditionGood}
	reqB := Request{ImageURL: "https://cdn.example.com/image/upload/b.jpg", Category: CategoryFurniture, Condition: ConditionGood}
	reqC := Request{ImageURL: "https://cdn.example.com/image/upload/c.jpg", Category: CategoryFurniture, Condition: ConditionGood}

	store := newFakeStore()
	store.entries[hashRequest(reqB)] = &storage.CachedDescription{Description: "cached b", Model: "mock-model"}

	var innerSaw []Request
	inner := &MockDescriber{
		GenerateDescriptionsFunc: func(ctx context.Context, reqs []Request) []Outcome {
			innerSaw = reqs
			return []Outcome{
				{Result: &Result{Description: "fresh a", Model: "mock-model", RequestID: "id-a"}},
				{Err: newError(CodeRateLimit, "slow down")},
			}
		},
	}
	cached := NewCachedDescriber(inner, store)

	outcomes := cached.GenerateDescriptions(context.Background(), []Request{reqA, reqB, reqC})
	require.Len(t, outcomes, 3)

	// Only the misses reach the inner describer, in order.
	require.Equal(t, []Request{reqA, reqC}, innerSaw)

	require.NotNil(t, outcomes[0].Result)
	assert.Equal(t, "fresh a", outcomes[0].Result.Description)

	require.NotNil(t, outcomes[1].Result)
	assert.Equal(t, "cached b", outcomes[1].Result.Description)
	assert.Empty(t, outcomes[1].Result.RequestID)

	require.NotNil(t, outcomes[2].Err)
	assert.Equal(t, CodeRateLimit, outcomes[2].Err.Code)

	// The fresh success was cached, the failure was not.
	entry, err := store.GetDescription(hashRequest(reqA))
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "fresh a", entry.Description)

	entry, err = store.GetDescription(hashRequest(reqC))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCachedDescriber_batchAllHitsSkipsInner(t *testing.T) {
	req := validRequest()
	store := newFakeStore()
	store.entries[hashRequest(req)] = &storage.CachedDescription{Description: "cached", Model: "mock-model"}

	inner := &MockDescriber{}
	cached := NewCachedDescriber(inner, store)

	outcomes := cached.GenerateDescriptions(context.Background(), []Request{req})
	require.Len(t, outcomes, 1)
	assert.Equal(t, "cached", outcomes[0].Result.Description)
	assert.Equal(t, 0, inner.CallCount("GenerateDescriptions"))
}

func TestHashRequest(t *testing.T) {
	reqA := Request{ImageURL: "https://cdn.example.com/a.jpg", Category: CategoryFurniture, Condition: ConditionGood}
	reqB := Request{ImageURL: "https://cdn.example.com/a.jpg", Category: CategoryFurniture, Condition: ConditionGood}
	assert.Equal(t, hashRequest(reqA), hashRequest(reqB))

	reqC := reqA
	reqC.Condition = ConditionFair
	assert.NotEqual(t, hashRequest(reqA), hashRequest(reqC))

	// Length prefixes keep field boundaries apart.
	x := Request{ImageURL: "ab", Category: "c"}
	y := Request{ImageURL: "a", Category: "bc"}
	assert.NotEqual(t, hashRequest(x), hashRequest(y))
}
