package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignParams(t *testing.T) {
	params := map[string]string{
		"folder":    "second-hand/listings",
		"timestamp": "1700000000",
	}

	sig := SignParams(params, "secret")
	assert.Regexp(t, "^[0-9a-f]{64}$", sig)

	// Insertion order must not matter, only the sorted key order does.
	again := SignParams(map[string]string{
		"timestamp": "1700000000",
		"folder":    "second-hand/listings",
	}, "secret")
	assert.Equal(t, sig, again)

	assert.NotEqual(t, sig, SignParams(params, "other-secret"))
	assert.NotEqual(t, sig, SignParams(map[string]string{
		"folder":    "second-hand/listings",
		"timestamp": "1700000001",
	}, "secret"))
	assert.NotEqual(t, sig, SignParams(map[string]string{
		"folder": "second-hand/listings",
	}, "secret"))
}
