package domain

// Draft is an explicit edit buffer over one asset. All edits land in the
// draft; the underlying asset only changes on Commit. Discard throws the
// buffer away and returns the untouched snapshot, so a cancel never needs a
// network call.
type Draft struct {
	base Asset

	Name           string
	Type           string
	Path           string
	Description    string
	TriggerWords   string
	PositivePrompt string
	NegativePrompt string
	Tags           string
	ModelVersion   string
	UsedResources  string
	Creator        string
	BaseModel      string
	NSFWLevel      string
	DownloadURL    string
	CustomFields   map[string]string

	// KeptMedia are existing media paths that survived removal in the media
	// manager. PendingFiles/PendingURLs are new attachments uploaded on save.
	KeptMedia    []string
	PendingFiles []string
	PendingURLs  []string

	// Linked asset ids as edited; persisted only on save.
	Linked []int
}

// NewDraft snapshots an asset into an edit buffer.
func NewDraft(a Asset) *Draft {
	custom := make(map[string]string, len(a.CustomFields))
	for k, v := range a.CustomFields {
		custom[k] = v
	}
	return &Draft{
		base:           a,
		Name:           a.Name,
		Type:           a.Type,
		Path:           a.Path,
		Description:    a.Description,
		TriggerWords:   a.TriggerWords,
		PositivePrompt: a.PositivePrompt,
		NegativePrompt: a.NegativePrompt,
		Tags:           a.Tags,
		ModelVersion:   a.ModelVersion,
		UsedResources:  a.UsedResources,
		Creator:        a.Creator,
		BaseModel:      a.BaseModel,
		NSFWLevel:      a.NSFWLevel,
		DownloadURL:    a.DownloadURL,
		CustomFields:   custom,
		KeptMedia:      append([]string(nil), a.MediaFiles...),
		Linked:         append([]int(nil), a.LinkedAssets...),
	}
}

// Base returns the untouched snapshot the draft was opened from.
func (d *Draft) Base() Asset {
	return d.base
}

// Discard drops every pending edit and returns the original snapshot.
func (d *Draft) Discard() Asset {
	return d.base
}

// RemoveMedia drops one existing media path from the kept set.
func (d *Draft) RemoveMedia(path string) {
	kept := d.KeptMedia[:0]
	for _, p := range d.KeptMedia {
		if p != path {
			kept = append(kept, p)
		}
	}
	d.KeptMedia = kept
}

// MoveMedia reorders a kept media path from index i to index j.
// Out-of-range indexes are ignored.
func (d *Draft) MoveMedia(i, j int) {
	if i < 0 || j < 0 || i >= len(d.KeptMedia) || j >= len(d.KeptMedia) || i == j {
		return
	}
	p := d.KeptMedia[i]
	d.KeptMedia = append(d.KeptMedia[:i], d.KeptMedia[i+1:]...)
	rest := append([]string(nil), d.KeptMedia[j:]...)
	d.KeptMedia = append(append(d.KeptMedia[:j], p), rest...)
}

// AddLink records a pending cross-reference. Self-links and duplicates are
// no-ops.
func (d *Draft) AddLink(id int) {
	if id == d.base.ID {
		return
	}
	for _, l := range d.Linked {
		if l == id {
			return
		}
	}
	d.Linked = append(d.Linked, id)
}

// RemoveLink drops a pending cross-reference.
func (d *Draft) RemoveLink(id int) {
	linked := d.Linked[:0]
	for _, l := range d.Linked {
		if l != id {
			linked = append(linked, l)
		}
	}
	d.Linked = linked
}

// HadMedia reports whether the asset had any media before editing started.
// Saves that would empty a previously non-empty media list are rejected.
func (d *Draft) HadMedia() bool {
	return len(d.base.MediaFiles) > 0
}

// Dirty reports whether any field differs from the snapshot. Media and link
// edits always count.
func (d *Draft) Dirty() bool {
	a := d.base
	if d.Name != a.Name || d.Type != a.Type || d.Path != a.Path ||
		d.Description != a.Description || d.TriggerWords != a.TriggerWords ||
		d.PositivePrompt != a.PositivePrompt || d.NegativePrompt != a.NegativePrompt ||
		d.Tags != a.Tags || d.ModelVersion != a.ModelVersion ||
		d.UsedResources != a.UsedResources || d.Creator != a.Creator ||
		d.BaseModel != a.BaseModel || d.NSFWLevel != a.NSFWLevel ||
		d.DownloadURL != a.DownloadURL {
		return true
	}
	if len(d.PendingFiles) > 0 || len(d.PendingURLs) > 0 {
		return true
	}
	if len(d.KeptMedia) != len(a.MediaFiles) {
		return true
	}
	for i, p := range d.KeptMedia {
		if a.MediaFiles[i] != p {
			return true
		}
	}
	if len(d.Linked) != len(a.LinkedAssets) {
		return true
	}
	for i, l := range d.Linked {
		if a.LinkedAssets[i] != l {
			return true
		}
	}
	if len(d.CustomFields) != len(a.CustomFields) {
		return true
	}
	for k, v := range d.CustomFields {
		if a.CustomFields[k] != v {
			return true
		}
	}
	return false
}
