package flow

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mulesoft-labs/twiml"
)

// Set is a named collection of flows, loaded from disk or assembled in code.
type Set struct {
	mu    sync.RWMutex
	flows map[string]*Document
	names []string // insertion order, for stable listings
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{flows: make(map[string]*Document)}
}

// Add registers a document. Flow names are unique within a set.
func (s *Set) Add(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.flows[doc.Flow]; exists {
		return fmt.Errorf("duplicate flow %q", doc.Flow)
	}
	s.flows[doc.Flow] = doc
	s.names = append(s.names, doc.Flow)
	return nil
}

// Lookup returns the document for a flow name.
func (s *Set) Lookup(name string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.flows[name]
	return doc, ok
}

// Names returns the flow names in load order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of flows.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flows)
}

// LoadDir loads every flow file matching pattern (a doublestar glob like
// "**/*.yaml") under dir. Files load in sorted path order; every broken file
// is reported, not just the first.
func LoadDir(dir, pattern string) (*Set, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("bad flow pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	set := NewSet()
	var errs []error
	for _, rel := range matches {
		data, err := fs.ReadFile(fsys, rel)
		if err != nil {
			errs = append(errs, &ValidationError{Path: rel, Err: err})
			continue
		}
		doc, err := Parse(data)
		if err != nil {
			errs = append(errs, &ValidationError{Path: rel, Err: err})
			continue
		}
		if err := set.Add(doc); err != nil {
			errs = append(errs, &ValidationError{Flow: doc.Flow, Path: rel, Err: err})
		}
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no flows matching %q under %s", pattern, dir)
	}
	return set, nil
}

// ValidateSet renders every flow through the compiler and re-parses the
// output, collecting all failures. A set that validates cleanly will render
// at serve time with any resolver that accepts its targets.
func ValidateSet(set *Set, compiler *Compiler) error {
	var errs []error
	for _, name := range set.Names() {
		doc, _ := set.Lookup(name)
		rendered, err := compiler.Render(doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := twiml.Validate(rendered); err != nil {
			errs = append(errs, &ValidationError{Flow: name, Err: err})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
