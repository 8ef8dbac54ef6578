// Package store keeps the authoritative in-memory document and mirrors it to
// a Backend on every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoDocument is returned by a Backend that has nothing stored yet.
var ErrNoDocument = errors.New("document not found")

// Backend persists the serialized document as a whole.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store provides safe concurrent access to the document. A single lock
// covers the whole document, including the flush.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	doc     *Document
}

// New returns a Store with an empty document. Call Load or Import before
// serving traffic.
func New(backend Backend) *Store {
	doc := &Document{}
	doc.normalize()
	return &Store{backend: backend, doc: doc}
}

// Load replaces the in-memory document with the backend's contents.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	doc, err := Parse(raw)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Import parses raw, flushes it to the backend and makes it current.
func (s *Store) Import(ctx context.Context, raw []byte) error {
	doc, err := Parse(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flush(ctx, doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// View runs fn with read access to the current document. fn must not keep
// references into the document after it returns.
func (s *Store) View(fn func(doc *Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// Update runs fn on a copy of the document and flushes the result. The copy
// becomes current only if fn succeeds and the flush succeeds; otherwise the
// in-memory state is left as it was and the error is returned.
func (s *Store) Update(ctx context.Context, fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.doc.clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// Snapshot returns the current document serialized as it would be flushed.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Encode()
}

func (s *Store) flush(ctx context.Context, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("flush document: %w", err)
	}
	return nil
}
