package model

// Changes is the outcome of comparing two snapshots of one location
type Changes struct {
	Added   []Entry
	Removed []string
	Changed []Entry
}

// Empty reports whether the snapshots were identical
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares the current listing against a fresh scan of the same location.
// Added keeps the scan order, Removed keeps the listing order.
func Diff(current Source, scanned []Entry) Changes {
	// Build lookup map of the scanned entries by identity
	next := make(map[string]Entry, len(scanned))
	for _, e := range scanned {
		next[e.ID] = e
	}

	var c Changes
	prev := make(map[string]bool, current.Len())
	for i := 0; i < current.Len(); i++ {
		e := current.At(i)
		prev[e.ID] = true
		n, ok := next[e.ID]
		if !ok {
			c.Removed = append(c.Removed, e.ID)
			continue
		}
		if !e.SameContent(n) {
			c.Changed = append(c.Changed, n)
		}
	}

	for _, e := range scanned {
		if !prev[e.ID] {
			c.Added = append(c.Added, e)
		}
	}
	return c
}

// ApplyChanges mutates l according to c and returns the notifications in the
// order they were produced
func ApplyChanges(l *Listing, c Changes) []Notification {
	var out []Notification
	out = append(out, l.Remove(c.Removed...)...)
	for _, e := range c.Changed {
		if n, ok := l.Update(e); ok {
			out = append(out, n)
		}
	}
	out = append(out, l.Append(c.Added...)...)
	return out
}
