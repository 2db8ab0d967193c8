package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/cachesim/internal/cache"
)

func TestParse_Valid(t *testing.T) {
	req, err := Parse(strings.Fields("8 32 F 1 2 3 1 4"))
	require.NoError(t, err)
	assert.Equal(t, 8, req.Capacity())
	assert.Equal(t, 32, req.MemorySize())
	assert.Equal(t, cache.FIFO, req.Policy())
	assert.Equal(t, []cache.Block{1, 2, 3, 1, 4}, req.References())

	req, err = Parse(strings.Fields("32 128 lru 0 127"))
	require.NoError(t, err)
	assert.Equal(t, cache.LRU, req.Policy())
}

func TestParse_ValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		args string
		want error
	}{
		{"too few", "8 32 F", ErrInsufficientArguments},
		{"nothing", "", ErrInsufficientArguments},
		{"memory checked first", "99 48 X 200", ErrInvalidMemorySize},
		{"memory not numeric", "8 big F 1", ErrInvalidMemorySize},
		{"capacity before refs", "9 32 X 200", ErrInvalidCacheCapacity},
		{"capacity zero", "0 32 F 1", ErrInvalidCacheCapacity},
		{"capacity not numeric", "eight 32 F 1", ErrInvalidCacheCapacity},
		{"refs before policy", "8 32 X 1 32", ErrInvalidReference},
		{"negative ref", "8 64 F 1 -1", ErrInvalidReference},
		{"ref not numeric", "8 64 F 1 x", ErrInvalidReference},
		{"policy", "8 32 X 1 2", ErrInvalidPolicySelector},
		{"policy mru", "8 32 M 1 2", ErrInvalidPolicySelector},
	}

	for _, tc := range tests {
		_, err := Parse(strings.Fields(tc.args))
		require.Error(t, err, tc.name)
		assert.ErrorIs(t, err, tc.want, tc.name)
		for _, other := range []error{ErrInsufficientArguments, ErrInvalidMemorySize, ErrInvalidCacheCapacity, ErrInvalidReference, ErrInvalidPolicySelector} {
			if other != tc.want {
				assert.NotErrorIs(t, err, other, "%s: only the first failing check is reported", tc.name)
			}
		}
	}
}

func TestMessage(t *testing.T) {
	_, err := Parse(strings.Fields("8 32 Q 1"))
	assert.Equal(t, "Error - Type of cache replacement algorithm should be F (for FIFO) or L (for LRU).", Message(err))
	assert.True(t, IsValidation(err))

	_, err = Parse(nil)
	assert.Equal(t, "Error - Insufficient number of arguments.", Message(err))

	_, err = Parse(strings.Fields("8 16 F 1"))
	assert.Equal(t, "Error - Main memory size should be 32/64/128.", Message(err))

	_, err = Parse(strings.Fields("16 32 F 1"))
	assert.Equal(t, "Error - Cache size should neither exceed 1/4th of main memory size nor be less than 1.", Message(err))

	_, err = Parse(strings.Fields("8 32 F 33"))
	assert.Equal(t, "Error - Main memory block references should be non-negative and less than main memory size.", Message(err))

	assert.Empty(t, Message(errors.New("boom")))
	assert.False(t, IsValidation(nil))
}

func TestParseReferences(t *testing.T) {
	refs, err := ParseReferences([]string{"0", " 5", "63"}, 64)
	require.NoError(t, err)
	assert.Equal(t, []cache.Block{0, 5, 63}, refs)

	_, err = ParseReferences([]string{"64"}, 64)
	assert.ErrorIs(t, err, ErrInvalidReference)

	refs, err = ParseReferences(nil, 64)
	require.NoError(t, err)
	assert.Empty(t, refs)
}
