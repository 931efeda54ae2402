package proxy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/lumipallolabs/foldergrid/internal/model"
)

// ErrBadPattern is returned when a filter pattern cannot be compiled
var ErrBadPattern = errors.New("invalid filter pattern")

// SortKey selects the primary ordering of the visible sequence
type SortKey int

const (
	ByName SortKey = iota
	BySize
	ByType
	ByModified
)

var sortKeyNames = []string{"name", "size", "type", "modified"}

func (k SortKey) String() string {
	if int(k) < len(sortKeyNames) && k >= 0 {
		return sortKeyNames[k]
	}
	return "unknown"
}

// ParseSortKey converts a config value to a SortKey
func ParseSortKey(s string) (SortKey, bool) {
	for i, n := range sortKeyNames {
		if strings.EqualFold(s, n) {
			return SortKey(i), true
		}
	}
	return ByName, false
}

// FilterMode selects how entries are filtered
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterPattern
	FilterMime
)

var filterModeNames = []string{"none", "pattern", "mime"}

func (m FilterMode) String() string {
	if int(m) < len(filterModeNames) && m >= 0 {
		return filterModeNames[m]
	}
	return "unknown"
}

// ParseFilterMode converts a config value to a FilterMode
func ParseFilterMode(s string) (FilterMode, bool) {
	for i, n := range filterModeNames {
		if strings.EqualFold(s, n) {
			return FilterMode(i), true
		}
	}
	return FilterNone, false
}

// Options controls sorting and filtering
type Options struct {
	SortKey    SortKey
	Descending bool
	DirsFirst  bool
	ShowHidden bool

	FilterMode FilterMode
	Pattern    string   // space separated globs, matched case-insensitively
	Mimes      []string // exact types or "type/*" wildcards
	Invert     bool     // hide matching entries instead of showing only them
}

// filter is the compiled form of the filter options
type filter struct {
	mode    FilterMode
	globs   []glob.Glob
	mimes   []string
	invert  bool
	showAll bool
}

func compileFilter(o Options) (filter, error) {
	f := filter{mode: o.FilterMode, invert: o.Invert, showAll: o.ShowHidden}
	switch o.FilterMode {
	case FilterPattern:
		for _, p := range strings.Fields(o.Pattern) {
			g, err := glob.Compile(strings.ToLower(p))
			if err != nil {
				return filter{}, fmt.Errorf("%w %q: %v", ErrBadPattern, p, err)
			}
			f.globs = append(f.globs, g)
		}
	case FilterMime:
		for _, m := range o.Mimes {
			m = strings.ToLower(strings.TrimSpace(m))
			if m != "" {
				f.mimes = append(f.mimes, m)
			}
		}
	}
	return f, nil
}

func (f filter) accepts(e model.Entry) bool {
	if e.IsHidden && !f.showAll {
		return false
	}
	var match bool
	switch f.mode {
	case FilterPattern:
		if len(f.globs) == 0 {
			return true
		}
		name := strings.ToLower(e.Name)
		for _, g := range f.globs {
			if g.Match(name) {
				match = true
				break
			}
		}
	case FilterMime:
		if len(f.mimes) == 0 {
			return true
		}
		match = matchMime(f.mimes, e.TypeKey())
	default:
		return true
	}
	return match != f.invert
}

func matchMime(patterns []string, mime string) bool {
	mime = strings.ToLower(mime)
	// Strip parameters such as "; charset=utf-8"
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	for _, p := range patterns {
		if p == mime {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "/*"); ok && strings.HasPrefix(mime, prefix+"/") {
			return true
		}
	}
	return false
}
