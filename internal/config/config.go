// Package config loads batch simulation scenarios from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tstromberg/cachesim/internal/cache"
	"github.com/tstromberg/cachesim/internal/engine"
	"github.com/tstromberg/cachesim/internal/trace"
	"github.com/tstromberg/cachesim/internal/workload"
)

// ErrInvalidScenario is returned for scenarios that cannot be turned into a
// simulation request.
var ErrInvalidScenario = errors.New("invalid scenario")

// File is the top-level structure of a scenario file.
// All top-level keys must be listed here; unknown keys are rejected.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario describes one simulation. At most one reference source
// (references, zipf, loop or trace) may be set; a scenario with none has an
// empty reference sequence.
type Scenario struct {
	Name       string    `yaml:"name"`
	Capacity   int       `yaml:"capacity"`
	MemorySize int       `yaml:"memory_size"`
	Policy     string    `yaml:"policy"`
	References []int     `yaml:"references,omitempty"`
	Zipf       *ZipfSpec `yaml:"zipf,omitempty"`
	Loop       *LoopSpec `yaml:"loop,omitempty"`
	Trace      string    `yaml:"trace,omitempty"`
}

// ZipfSpec configures a synthetic Zipf reference sequence over the
// scenario's memory size.
type ZipfSpec struct {
	Count int     `yaml:"count"`
	Alpha float64 `yaml:"alpha"`
	Seed  uint64  `yaml:"seed"`
}

// LoopSpec configures a cyclic scan over blocks 0..span-1.
type LoopSpec struct {
	Count int `yaml:"count"`
	Span  int `yaml:"span"`
}

// Load reads a scenario file. Relative trace paths are resolved against the
// directory holding the file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}

	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Trace != "" && !filepath.IsAbs(s.Trace) {
			s.Trace = filepath.Join(dir, s.Trace)
		}
	}

	logrus.Debugf("loaded %d scenarios from %s", len(f.Scenarios), path)
	return f, nil
}

// Parse decodes a scenario file with strict field checking, so typos in keys
// are errors rather than silently ignored.
func Parse(r io.Reader) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}

	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

func (s *Scenario) validate() error {
	sources := 0
	if len(s.References) > 0 {
		sources++
	}
	if s.Zipf != nil {
		sources++
		if s.Zipf.Count <= 0 || s.Zipf.Alpha <= 0 || s.Zipf.Alpha >= 1 {
			return fmt.Errorf("%w: %s: zipf needs count > 0 and 0 < alpha < 1", ErrInvalidScenario, s.Name)
		}
	}
	if s.Loop != nil {
		sources++
		if s.Loop.Count <= 0 || s.Loop.Span <= 0 {
			return fmt.Errorf("%w: %s: loop needs count > 0 and span > 0", ErrInvalidScenario, s.Name)
		}
	}
	if s.Trace != "" {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("%w: %s: set only one of references, zipf, loop, trace", ErrInvalidScenario, s.Name)
	}
	if _, err := cache.ParseSelector(s.Policy); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
	}
	return nil
}

// Blocks materializes the scenario's reference sequence.
func (s Scenario) Blocks() ([]cache.Block, error) {
	switch {
	case s.Zipf != nil:
		return workload.GenerateZipf(s.Zipf.Count, s.MemorySize, s.Zipf.Alpha, s.Zipf.Seed), nil
	case s.Loop != nil:
		return workload.GenerateLoop(s.Loop.Count, s.Loop.Span), nil
	case s.Trace != "":
		return trace.Load(s.Trace)
	}
	refs := make([]cache.Block, len(s.References))
	for i, r := range s.References {
		refs[i] = cache.Block(r)
	}
	return refs, nil
}

// Request builds the simulation request for the scenario.
func (s Scenario) Request() (engine.Request, error) {
	kind, err := cache.ParseSelector(s.Policy)
	if err != nil {
		return engine.Request{}, fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
	}
	refs, err := s.Blocks()
	if err != nil {
		return engine.Request{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	req, err := engine.NewRequest(s.Capacity, s.MemorySize, kind, refs)
	if err != nil {
		return engine.Request{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	return req, nil
}
