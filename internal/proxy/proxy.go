// Package proxy produces the sorted, filtered visible sequence of entries
// from an Entry Source and translates source notifications into visible
// sequence changes.
package proxy

import (
	"sort"
	"strings"

	"github.com/lumipallolabs/foldergrid/internal/model"
)

// ChangeKind identifies a visible sequence change
type ChangeKind int

const (
	Inserted ChangeKind = iota
	Removed
	DataChanged
	Reordered
	Reset
)

func (k ChangeKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	case DataChanged:
		return "dataChanged"
	case Reordered:
		return "reordered"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is one visible sequence mutation. Changes are applied in order;
// Index refers to the sequence as it is after all previous changes.
// Reordered and Reset carry the identities of the complete new sequence.
type Change struct {
	Kind  ChangeKind
	Index int
	ID    string
	IDs   []string
}

// Proxy maintains the visible sequence over a source
type Proxy struct {
	src     model.Source
	opts    Options
	filter  filter
	visible []int    // source indices in visible order
	ids     []string // identities in visible order
}

// New creates a proxy over src. The visible sequence is built immediately.
func New(src model.Source, opts Options) (*Proxy, error) {
	f, err := compileFilter(opts)
	if err != nil {
		return nil, err
	}
	p := &Proxy{src: src, opts: opts, filter: f}
	p.rebuild()
	return p, nil
}

// Options returns the active options
func (p *Proxy) Options() Options {
	return p.opts
}

// Len returns the length of the visible sequence
func (p *Proxy) Len() int {
	return len(p.visible)
}

// At returns the visible entry at i
func (p *Proxy) At(i int) model.Entry {
	return p.src.At(p.visible[i])
}

// SourceIndex maps a visible index to the source index
func (p *Proxy) SourceIndex(i int) int {
	return p.visible[i]
}

// IDs returns the identities of the visible sequence in order
func (p *Proxy) IDs() []string {
	ids := make([]string, len(p.ids))
	copy(ids, p.ids)
	return ids
}

// IndexOf returns the visible index of id, or -1
func (p *Proxy) IndexOf(id string) int {
	for i, v := range p.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// SetOptions re-filters and re-sorts. Entries leaving the sequence are
// reported as removals, new ones as insertions at the end, and a final
// Reordered carries the sorted order when it differs.
func (p *Proxy) SetOptions(opts Options) ([]Change, error) {
	f, err := compileFilter(opts)
	if err != nil {
		return nil, err
	}
	old := p.IDs()
	p.opts = opts
	p.filter = f
	p.rebuild()
	next := p.IDs()

	keep := make(map[string]bool, len(next))
	for _, id := range next {
		keep[id] = true
	}

	var changes []Change
	current := make([]string, 0, len(old))
	present := make(map[string]bool, len(old))
	for i := len(old) - 1; i >= 0; i-- {
		if !keep[old[i]] {
			changes = append(changes, Change{Kind: Removed, Index: i, ID: old[i]})
		}
	}
	for _, id := range old {
		if keep[id] {
			current = append(current, id)
			present[id] = true
		}
	}
	for _, id := range next {
		if !present[id] {
			changes = append(changes, Change{Kind: Inserted, Index: len(current), ID: id})
			current = append(current, id)
		}
	}
	if !sameOrder(current, next) {
		changes = append(changes, Change{Kind: Reordered, IDs: next})
	}
	return changes, nil
}

// SourceInserted handles insertion of source rows first..last
func (p *Proxy) SourceInserted(first, last int) []Change {
	n := last - first + 1
	for i, s := range p.visible {
		if s >= first {
			p.visible[i] = s + n
		}
	}
	var changes []Change
	for s := first; s <= last; s++ {
		e := p.src.At(s)
		if !p.filter.accepts(e) {
			continue
		}
		pos := p.insertPos(s)
		p.insertAt(pos, s)
		changes = append(changes, Change{Kind: Inserted, Index: pos, ID: e.ID})
	}
	return changes
}

// SourceRemoved handles removal of source rows first..last. It must be called
// after the source has dropped the rows.
func (p *Proxy) SourceRemoved(first, last int) []Change {
	n := last - first + 1
	var changes []Change
	for i := len(p.visible) - 1; i >= 0; i-- {
		s := p.visible[i]
		if s >= first && s <= last {
			changes = append(changes, Change{Kind: Removed, Index: i, ID: p.ids[i]})
			p.removeAt(i)
		}
	}
	for i, s := range p.visible {
		if s > last {
			p.visible[i] = s - n
		}
	}
	return changes
}

// SourceChanged handles data changes of source rows first..last. Changes that
// alter filter acceptance become removals or insertions, changes that alter
// the sort position produce a Reordered change.
func (p *Proxy) SourceChanged(first, last int) []Change {
	var changes []Change
	reordered := false
	for s := first; s <= last; s++ {
		e := p.src.At(s)
		vi := p.visibleIndexOfSource(s)
		accepted := p.filter.accepts(e)
		switch {
		case vi >= 0 && !accepted:
			p.removeAt(vi)
			changes = append(changes, Change{Kind: Removed, Index: vi, ID: e.ID})
		case vi < 0 && accepted:
			pos := p.insertPos(s)
			p.insertAt(pos, s)
			changes = append(changes, Change{Kind: Inserted, Index: pos, ID: e.ID})
		case vi >= 0:
			if !p.inOrderAt(vi) {
				reordered = true
			}
			changes = append(changes, Change{Kind: DataChanged, Index: vi, ID: e.ID})
		}
	}
	if reordered {
		p.sortVisible()
		changes = append(changes, Change{Kind: Reordered, IDs: p.IDs()})
	}
	return changes
}

// SourceReset rebuilds the sequence from scratch
func (p *Proxy) SourceReset() Change {
	p.rebuild()
	return Change{Kind: Reset, IDs: p.IDs()}
}

func (p *Proxy) rebuild() {
	p.visible = p.visible[:0]
	for s := 0; s < p.src.Len(); s++ {
		if p.filter.accepts(p.src.At(s)) {
			p.visible = append(p.visible, s)
		}
	}
	p.sortVisible()
}

func (p *Proxy) sortVisible() {
	sort.SliceStable(p.visible, func(i, j int) bool {
		return p.less(p.visible[i], p.visible[j])
	})
	p.ids = make([]string, len(p.visible))
	for i, s := range p.visible {
		p.ids[i] = p.src.At(s).ID
	}
}

func (p *Proxy) insertPos(s int) int {
	return sort.Search(len(p.visible), func(i int) bool {
		return p.less(s, p.visible[i])
	})
}

func (p *Proxy) insertAt(pos, s int) {
	p.visible = append(p.visible, 0)
	copy(p.visible[pos+1:], p.visible[pos:])
	p.visible[pos] = s
	p.ids = append(p.ids, "")
	copy(p.ids[pos+1:], p.ids[pos:])
	p.ids[pos] = p.src.At(s).ID
}

func (p *Proxy) removeAt(i int) {
	p.visible = append(p.visible[:i], p.visible[i+1:]...)
	p.ids = append(p.ids[:i], p.ids[i+1:]...)
}

func (p *Proxy) visibleIndexOfSource(s int) int {
	for i, v := range p.visible {
		if v == s {
			return i
		}
	}
	return -1
}

func (p *Proxy) inOrderAt(i int) bool {
	if i > 0 && !p.less(p.visible[i-1], p.visible[i]) {
		return false
	}
	if i < len(p.visible)-1 && !p.less(p.visible[i], p.visible[i+1]) {
		return false
	}
	return true
}

// less is a strict total order: directories first (when enabled), then the
// sort key, then the source order
func (p *Proxy) less(a, b int) bool {
	ea, eb := p.src.At(a), p.src.At(b)
	if p.opts.DirsFirst && ea.IsDir != eb.IsDir {
		return ea.IsDir
	}
	c := compareKey(p.opts.SortKey, ea, eb)
	if p.opts.Descending {
		c = -c
	}
	if c != 0 {
		return c < 0
	}
	return a < b
}

func compareKey(k SortKey, a, b model.Entry) int {
	switch k {
	case BySize:
		return compareInt(a.Size, b.Size)
	case ByType:
		if c := strings.Compare(a.TypeKey(), b.TypeKey()); c != 0 {
			return c
		}
	case ByModified:
		if c := a.ModTime.Compare(b.ModTime); c != 0 {
			return c
		}
		return 0
	}
	return compareName(a.Name, b.Name)
}

func compareName(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
