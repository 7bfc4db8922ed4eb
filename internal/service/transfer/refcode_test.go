package transfer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^PC-[A-Z0-9]{8}$`)

func TestNewReferenceCodeFormat(t *testing.T) {
	for range 100 {
		code, err := newReferenceCode(referencePrefix)
		require.NoError(t, err)
		assert.Regexp(t, referencePattern, code)
	}
}

func TestNewReferenceCodeDispersion(t *testing.T) {
	// 36^8 possible suffixes; 10k draws colliding would indicate a
	// broken generator, not bad luck.
	seen := make(map[string]struct{}, 10_000)
	for range 10_000 {
		code, err := newReferenceCode(referencePrefix)
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate reference code %s", code)
		seen[code] = struct{}{}
	}
}
