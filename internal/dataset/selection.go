package dataset

// Selected returns the selected ids in the order they were selected.
func (d *Dataset) Selected() []string {
	return append([]string{}, d.selected...)
}

func (d *Dataset) IsSelected(id string) bool {
	for _, s := range d.selected {
		if s == id {
			return true
		}
	}
	return false
}

// ToggleOne flips the selection state of a known entry id.
func (d *Dataset) ToggleOne(id string) {
	if d.IsSelected(id) {
		d.pruneSelection(map[string]bool{id: true})
		return
	}
	if d.index(id) < 0 {
		return
	}
	d.selected = append(d.selected, id)
	d.notify(SelectionChanged)
}

// ToggleAll operates on the visible ids only. When every visible id is
// already selected they are all deselected; otherwise the missing ones are
// added. Selected entries outside visible are left alone either way.
func (d *Dataset) ToggleAll(visible []string) {
	if len(visible) == 0 {
		return
	}
	all := true
	for _, id := range visible {
		if !d.IsSelected(id) {
			all = false
			break
		}
	}
	if all {
		drop := make(map[string]bool, len(visible))
		for _, id := range visible {
			drop[id] = true
		}
		d.pruneSelection(drop)
		return
	}
	for _, id := range visible {
		if !d.IsSelected(id) && d.index(id) >= 0 {
			d.selected = append(d.selected, id)
		}
	}
	d.notify(SelectionChanged)
}

// AllSelected reports whether every visible id is selected.
func (d *Dataset) AllSelected(visible []string) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !d.IsSelected(id) {
			return false
		}
	}
	return true
}

// SetSelection replaces the selection, ignoring unknown and repeated ids.
func (d *Dataset) SetSelection(ids []string) {
	d.selected = d.selected[:0:0]
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || d.index(id) < 0 {
			continue
		}
		seen[id] = true
		d.selected = append(d.selected, id)
	}
	d.notify(SelectionChanged)
}

func (d *Dataset) ClearSelection() {
	if len(d.selected) == 0 {
		return
	}
	d.selected = nil
	d.notify(SelectionChanged)
}

func (d *Dataset) pruneSelection(drop map[string]bool) {
	kept := d.selected[:0:0]
	for _, id := range d.selected {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) != len(d.selected) {
		d.selected = kept
		d.notify(SelectionChanged)
	}
}
