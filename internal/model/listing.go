package model

import "sort"

// NotificationKind identifies an Entry Source mutation
type NotificationKind int

const (
	NotifyInserted NotificationKind = iota
	NotifyRemoved
	NotifyDataChanged
	NotifyReset
	NotifyListingCompleted
	NotifyListingCanceled
)

// String returns a short name for logging
func (k NotificationKind) String() string {
	switch k {
	case NotifyInserted:
		return "inserted"
	case NotifyRemoved:
		return "removed"
	case NotifyDataChanged:
		return "dataChanged"
	case NotifyReset:
		return "reset"
	case NotifyListingCompleted:
		return "listingCompleted"
	case NotifyListingCanceled:
		return "listingCanceled"
	default:
		return "unknown"
	}
}

// Notification describes a mutation of the source. First and Last are
// inclusive source indices and are meaningful for the range kinds only.
type Notification struct {
	Kind  NotificationKind
	First int
	Last  int
}

// Source is a read-only, ordered view of entries
type Source interface {
	Len() int
	At(i int) Entry
}

// Listing is the ordered, identity-unique entry collection of one location
type Listing struct {
	location string
	entries  []Entry
	index    map[string]int
	stale    bool
}

// NewListing creates an empty listing for location
func NewListing(location string) *Listing {
	return &Listing{
		location: location,
		index:    make(map[string]int),
	}
}

// Location returns the directory this listing belongs to
func (l *Listing) Location() string {
	return l.location
}

// Len implements Source
func (l *Listing) Len() int {
	return len(l.entries)
}

// At implements Source
func (l *Listing) At(i int) Entry {
	return l.entries[i]
}

// Entries returns a copy of all entries in source order
func (l *Listing) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// IndexOf returns the source index of id, or -1
func (l *Listing) IndexOf(id string) int {
	l.reindex()
	if i, ok := l.index[id]; ok {
		return i
	}
	return -1
}

// Append adds entries at the end. Entries whose identity already exists
// replace the stored entry and are reported as data changes.
func (l *Listing) Append(entries ...Entry) []Notification {
	var out []Notification
	first := len(l.entries)
	l.reindex()
	for _, e := range entries {
		if i, ok := l.index[e.ID]; ok {
			if !l.entries[i].SameContent(e) {
				l.entries[i] = e
				out = append(out, Notification{Kind: NotifyDataChanged, First: i, Last: i})
			}
			continue
		}
		l.index[e.ID] = len(l.entries)
		l.entries = append(l.entries, e)
	}
	if len(l.entries) > first {
		out = append([]Notification{{Kind: NotifyInserted, First: first, Last: len(l.entries) - 1}}, out...)
	}
	return out
}

// Remove deletes the entries with the given identities. Notifications are
// emitted per contiguous run, highest indices first, so that applying them
// one after the other keeps every index valid.
func (l *Listing) Remove(ids ...string) []Notification {
	l.reindex()
	var idx []int
	for _, id := range ids {
		if i, ok := l.index[id]; ok {
			idx = append(idx, i)
			delete(l.index, id)
		}
	}
	if len(idx) == 0 {
		return nil
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))

	var out []Notification
	last := idx[0]
	first := idx[0]
	flush := func() {
		l.entries = append(l.entries[:first], l.entries[last+1:]...)
		out = append(out, Notification{Kind: NotifyRemoved, First: first, Last: last})
	}
	for _, i := range idx[1:] {
		if i == first-1 {
			first = i
			continue
		}
		flush()
		first, last = i, i
	}
	flush()
	l.stale = true
	return out
}

// Update replaces the stored entry with the same identity
func (l *Listing) Update(e Entry) (Notification, bool) {
	i := l.IndexOf(e.ID)
	if i < 0 || l.entries[i].SameContent(e) {
		return Notification{}, false
	}
	l.entries[i] = e
	return Notification{Kind: NotifyDataChanged, First: i, Last: i}, true
}

// Reset discards all entries and optionally switches location
func (l *Listing) Reset(location string) Notification {
	l.location = location
	l.entries = nil
	l.index = make(map[string]int)
	l.stale = false
	return Notification{Kind: NotifyReset}
}

func (l *Listing) reindex() {
	if !l.stale {
		return
	}
	l.index = make(map[string]int, len(l.entries))
	for i, e := range l.entries {
		l.index[e.ID] = i
	}
	l.stale = false
}
