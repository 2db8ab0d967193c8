// Package loader turns positional command-line arguments into a validated
// simulation request.
package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tstromberg/cachesim/internal/cache"
	"github.com/tstromberg/cachesim/internal/engine"
)

// MinArgs is the number of positional arguments needed for a simulation:
// capacity, memory size, policy selector and at least one reference.
const MinArgs = 4

var (
	ErrInsufficientArguments = errors.New("insufficient number of arguments")
	ErrInvalidMemorySize     = errors.New("invalid main memory size")
	ErrInvalidCacheCapacity  = errors.New("invalid cache capacity")
	ErrInvalidReference      = errors.New("invalid memory block reference")
	ErrInvalidPolicySelector = errors.New("invalid replacement policy selector")
)

// messages holds the user-facing text printed for each validation failure.
// The text is part of the command-line contract and must stay byte for byte.
var messages = []struct {
	err error
	msg string
}{
	{ErrInsufficientArguments, "Error - Insufficient number of arguments."},
	{ErrInvalidMemorySize, "Error - Main memory size should be 32/64/128."},
	{ErrInvalidCacheCapacity, "Error - Cache size should neither exceed 1/4th of main memory size nor be less than 1."},
	{ErrInvalidReference, "Error - Main memory block references should be non-negative and less than main memory size."},
	{ErrInvalidPolicySelector, "Error - Type of cache replacement algorithm should be F (for FIFO) or L (for LRU)."},
}

// Message returns the user-facing message for a validation error, or "" if
// err is not one.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return ""
}

// IsValidation reports whether err is one of the loader's validation errors.
func IsValidation(err error) bool {
	return Message(err) != ""
}

// Parse validates "<capacity> <memory> <policy> <ref>..." and builds a request.
//
// Checks run in a fixed order and the first failure is returned: memory size,
// cache capacity, references, then policy selector. A value that is not an
// integer fails the check of the field it was given for.
func Parse(args []string) (engine.Request, error) {
	if len(args) < MinArgs {
		return engine.Request{}, fmt.Errorf("%w: got %d, need at least %d", ErrInsufficientArguments, len(args), MinArgs)
	}

	memorySize, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil || !engine.ValidMemorySize(memorySize) {
		return engine.Request{}, fmt.Errorf("%w: %q", ErrInvalidMemorySize, args[1])
	}

	capacity, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || capacity < 1 || capacity > engine.MaxCapacity(memorySize) {
		return engine.Request{}, fmt.Errorf("%w: %q with memory size %d", ErrInvalidCacheCapacity, args[0], memorySize)
	}

	refs, err := ParseReferences(args[3:], memorySize)
	if err != nil {
		return engine.Request{}, err
	}

	kind, err := cache.ParseSelector(args[2])
	if err != nil {
		return engine.Request{}, fmt.Errorf("%w: %w", ErrInvalidPolicySelector, err)
	}

	logrus.WithFields(logrus.Fields{
		"capacity":   capacity,
		"memory":     memorySize,
		"policy":     kind,
		"references": len(refs),
	}).Debug("parsed simulation arguments")

	return engine.NewRequest(capacity, memorySize, kind, refs)
}

// ParseReferences converts block references and checks each lies in
// [0, memorySize).
func ParseReferences(args []string, memorySize int) ([]cache.Block, error) {
	refs := make([]cache.Block, 0, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil || n < 0 || n >= memorySize {
			return nil, fmt.Errorf("%w: #%d %q not in [0,%d)", ErrInvalidReference, i, a, memorySize)
		}
		refs = append(refs, cache.Block(n))
	}
	return refs, nil
}
