// Package positions persists manual icon positions per location.
package positions

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lumipallolabs/foldergrid/internal/layout"
	"github.com/lumipallolabs/foldergrid/internal/logging"
)

// ErrNoLocation is returned by Save before any location was loaded
var ErrNoLocation = errors.New("no location loaded")

// record is one persisted position. Pointer fields distinguish a missing
// coordinate from zero.
type record struct {
	ID  string `yaml:"id"`
	Col *int   `yaml:"col,omitempty"`
	Row *int   `yaml:"row,omitempty"`
	X   *int   `yaml:"x,omitempty"`
	Y   *int   `yaml:"y,omitempty"`
}

type file struct {
	Location  string      `yaml:"location"`
	Positions []yaml.Node `yaml:"positions"`
}

type outFile struct {
	Location  string   `yaml:"location"`
	Positions []record `yaml:"positions"`
}

// Store maps identities to persisted positions for one location at a time
type Store struct {
	mu        sync.RWMutex
	dir       string
	location  string
	positions map[string]layout.Position
	dirty     bool
	skipped   int
}

// New creates a store writing into dir
func New(dir string) *Store {
	return &Store{
		dir:       dir,
		positions: make(map[string]layout.Position),
	}
}

// DefaultDir returns the default positions directory
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "foldergrid", "positions")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".foldergrid"
	}
	return filepath.Join(home, ".foldergrid", "positions")
}

// PathFor returns the record file used for location
func (s *Store) PathFor(location string) string {
	sum := sha1.Sum([]byte(location))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".yaml")
}

// Location returns the currently loaded location
func (s *Store) Location() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location
}

// Load replaces the in-memory positions with the record for location. A
// missing record yields an empty store. Malformed entries are skipped one
// by one.
func (s *Store) Load(location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.location = location
	s.positions = make(map[string]layout.Position)
	s.dirty = false
	s.skipped = 0

	data, err := os.ReadFile(s.PathFor(location))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read positions: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		// The whole document is unreadable; start over with auto-flow
		logging.Debug.Printf("positions for %s unreadable: %v", location, err)
		return nil
	}
	if f.Location != "" && f.Location != location {
		logging.Debug.Printf("positions file names %q, expected %q", f.Location, location)
	}

	for i := range f.Positions {
		var r record
		if err := f.Positions[i].Decode(&r); err != nil {
			s.skipped++
			logging.Debug.Printf("skipping position %d: %v", i, err)
			continue
		}
		pos, ok := r.position()
		if !ok {
			s.skipped++
			logging.Debug.Printf("skipping position %d for %q: incomplete", i, r.ID)
			continue
		}
		s.positions[r.ID] = pos
	}
	return nil
}

// Skipped returns how many records the last Load ignored
func (s *Store) Skipped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipped
}

// Lookup implements layout.PositionSource
func (s *Store) Lookup(id string) (layout.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[id]
	return p, ok
}

// Len returns the number of stored positions, stale ones included
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}

// Dirty reports whether there are unsaved changes
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// RecordManualPosition stores a committed position for id
func (s *Store) RecordManualPosition(id string, pos layout.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.positions[id]; ok && old == pos {
		return
	}
	s.positions[id] = pos
	s.dirty = true
}

// Clear drops the positions of ids, reverting them to auto-flow
func (s *Store) Clear(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.positions[id]; ok {
			delete(s.positions, id)
			s.dirty = true
		}
	}
}

// Save writes the positions of the current location. The file is replaced
// atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.location == "" {
		return ErrNoLocation
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create positions dir: %w", err)
	}

	out := outFile{Location: s.location, Positions: make([]record, 0, len(s.positions))}
	for id, p := range s.positions {
		out.Positions = append(out.Positions, toRecord(id, p))
	}
	sort.Slice(out.Positions, func(i, j int) bool {
		return out.Positions[i].ID < out.Positions[j].ID
	})

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}

	path := s.PathFor(s.location)
	tmp, err := os.CreateTemp(s.dir, ".positions-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write positions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close positions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace positions: %w", err)
	}

	s.dirty = false
	return nil
}

// Close writes pending changes
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty && s.location != "" {
		return s.saveLocked()
	}
	return nil
}

func (r record) position() (layout.Position, bool) {
	if r.ID == "" {
		return layout.Position{}, false
	}
	switch {
	case r.Col != nil && r.Row != nil:
		if *r.Col < 0 || *r.Row < 0 {
			return layout.Position{}, false
		}
		return layout.Position{Cell: image.Pt(*r.Col, *r.Row)}, true
	case r.X != nil && r.Y != nil:
		if *r.X < 0 || *r.Y < 0 {
			return layout.Position{}, false
		}
		return layout.Position{Point: image.Pt(*r.X, *r.Y), Free: true}, true
	}
	return layout.Position{}, false
}

func toRecord(id string, p layout.Position) record {
	if p.Free {
		x, y := p.Point.X, p.Point.Y
		return record{ID: id, X: &x, Y: &y}
	}
	col, row := p.Cell.X, p.Cell.Y
	return record{ID: id, Col: &col, Row: &row}
}
