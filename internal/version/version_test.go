package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version, GitCommit = "v1.0.0", "unknown"
	assert.Equal(t, "v1.0.0", Short())

	GitCommit = "0123456789abcdef"
	assert.Equal(t, "v1.0.0 (0123456)", Short())
	assert.Contains(t, String(), Product+" v1.0.0 (0123456)")
	assert.Equal(t, Product, Get().Product)
}
