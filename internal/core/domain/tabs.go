package domain

// Tabs tracks the open detail tabs of the browser by asset id. Opening an id
// that is already open activates its tab instead of duplicating it. The last
// remaining tab cannot be closed; callers close the whole detail view instead.
type Tabs struct {
	open   []int
	active int
}

// Open activates the tab for id, appending a new one when it is not open yet.
// It reports whether a new tab was created.
func (t *Tabs) Open(id int) bool {
	for i, open := range t.open {
		if open == id {
			t.active = i
			return false
		}
	}
	t.open = append(t.open, id)
	t.active = len(t.open) - 1
	return true
}

// Close removes the tab for id. When the closed tab was at or before the
// active one, the active index shifts down so the selection stays on the same
// neighbor. Closing the last remaining tab is refused.
func (t *Tabs) Close(id int) bool {
	if len(t.open) <= 1 {
		return false
	}
	for i, open := range t.open {
		if open != id {
			continue
		}
		t.open = append(t.open[:i], t.open[i+1:]...)
		if t.active >= i && t.active > 0 {
			t.active--
		}
		return true
	}
	return false
}

// Active returns the active tab's asset id, or 0 when no tab is open.
func (t *Tabs) Active() int {
	if len(t.open) == 0 {
		return 0
	}
	return t.open[t.active]
}

// Next cycles the active tab forward.
func (t *Tabs) Next() {
	if len(t.open) > 1 {
		t.active = (t.active + 1) % len(t.open)
	}
}

// Prev cycles the active tab backward.
func (t *Tabs) Prev() {
	if len(t.open) > 1 {
		t.active = (t.active - 1 + len(t.open)) % len(t.open)
	}
}

// IDs returns the open tab ids in display order.
func (t *Tabs) IDs() []int {
	return append([]int(nil), t.open...)
}

// Len returns the number of open tabs.
func (t *Tabs) Len() int {
	return len(t.open)
}
