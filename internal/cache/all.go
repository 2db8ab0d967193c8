package cache

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a replacement policy.
type Kind int

const (
	FIFO Kind = iota + 1
	LRU
)

// ErrUnknownPolicy is returned for selectors that name no registered policy.
var ErrUnknownPolicy = errors.New("unknown replacement policy")

// registry maps policy kinds to their factory functions.
var registry = map[Kind]Factory{
	FIFO: NewFIFO,
	LRU:  NewLRU,
}

// names maps policy kinds to display names.
var names = map[Kind]string{
	FIFO: "fifo",
	LRU:  "lru",
}

// selectors maps the single-letter selector to a kind. Both cases are accepted.
var selectors = map[byte]Kind{
	'F': FIFO, 'f': FIFO,
	'L': LRU, 'l': LRU,
}

// defaultOrder defines the display order for policies.
var defaultOrder = []Kind{FIFO, LRU}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name, so JSON reports read "fifo" / "lru".
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := names[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts anything ParseSelector does.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseSelector(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseSelector resolves a policy selector. Only the first character is
// significant: "F", "f", "FIFO" and "fifo" all select FIFO.
func ParseSelector(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty selector", ErrUnknownPolicy)
	}
	k, ok := selectors[s[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
	return k, nil
}

// Lookup returns the factory registered for kind.
func Lookup(kind Kind) (Factory, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, kind)
	}
	return f, nil
}

// New creates an empty policy of the given kind and capacity.
func New(kind Kind, capacity int) (Policy, error) {
	f, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	return f(capacity)
}

// Kinds returns all registered policies in display order.
func Kinds() []Kind {
	out := make([]Kind, len(defaultOrder))
	copy(out, defaultOrder)
	return out
}

// Select resolves a list of selectors, preserving display order and dropping
// duplicates. An empty list selects every policy.
func Select(list []string) ([]Kind, error) {
	if len(list) == 0 {
		return Kinds(), nil
	}
	want := make(map[Kind]bool)
	for _, s := range list {
		k, err := ParseSelector(s)
		if err != nil {
			return nil, err
		}
		want[k] = true
	}
	var out []Kind
	for _, k := range defaultOrder {
		if want[k] {
			out = append(out, k)
		}
	}
	return out, nil
}
