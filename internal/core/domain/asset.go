package domain

import "strings"

// Asset represents one cataloged model or media item. Field names mirror the
// backend's JSON schema exactly; the backend owns the identifiers.
type Asset struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Type           string            `json:"type"`
	Path           string            `json:"path"`
	PreviewImage   string            `json:"preview_image"`
	Description    string            `json:"description"`
	TriggerWords   string            `json:"trigger_words"`
	PositivePrompt string            `json:"positive_prompt"`
	NegativePrompt string            `json:"negative_prompt"`
	Tags           string            `json:"tags"`
	ModelVersion   string            `json:"model_version"`
	UsedResources  string            `json:"used_resources"`
	IsFavorite     bool              `json:"is_favorite"`
	Slug           string            `json:"slug"`
	Creator        string            `json:"creator"`
	BaseModel      string            `json:"base_model"`
	CreatedAt      string            `json:"created_at"`
	NSFWLevel      string            `json:"nsfw_level"`
	DownloadURL    string            `json:"download_url"`
	MediaFiles     []string          `json:"media_files"`
	CustomFields   map[string]string `json:"custom_fields,omitempty"`
	LinkedAssets   []int             `json:"linked_assets,omitempty"`
}

// MediaCount returns the number of attached media files.
func (a Asset) MediaCount() int {
	return len(a.MediaFiles)
}

// Preview resolves the displayable preview path: the explicit preview image
// if set, otherwise the first media file.
func (a Asset) Preview() string {
	if a.PreviewImage != "" {
		return a.PreviewImage
	}
	if len(a.MediaFiles) > 0 {
		return a.MediaFiles[0]
	}
	return ""
}

// TagList splits the comma-separated tags field into trimmed tags.
func (a Asset) TagList() []string {
	if strings.TrimSpace(a.Tags) == "" {
		return nil
	}
	parts := strings.Split(a.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// IsLinkedTo reports whether other is already in the linked-asset list.
func (a Asset) IsLinkedTo(id int) bool {
	for _, linked := range a.LinkedAssets {
		if linked == id {
			return true
		}
	}
	return false
}

// Mature reports whether the asset carries an NSFW marker. The backend stores
// the level as free text; anything other than empty, "none" or "false" counts.
func (a Asset) Mature() bool {
	switch strings.ToLower(strings.TrimSpace(a.NSFWLevel)) {
	case "", "none", "false":
		return false
	}
	return true
}

// AssetUpdate is a partial PATCH payload. Nil pointers are omitted so the
// backend only touches fields the client actually edited.
type AssetUpdate struct {
	Name           *string            `json:"name,omitempty"`
	Type           *string            `json:"type,omitempty"`
	Path           *string            `json:"path,omitempty"`
	PreviewImage   *string            `json:"preview_image,omitempty"`
	Description    *string            `json:"description,omitempty"`
	TriggerWords   *string            `json:"trigger_words,omitempty"`
	PositivePrompt *string            `json:"positive_prompt,omitempty"`
	NegativePrompt *string            `json:"negative_prompt,omitempty"`
	Tags           *string            `json:"tags,omitempty"`
	ModelVersion   *string            `json:"model_version,omitempty"`
	UsedResources  *string            `json:"used_resources,omitempty"`
	Slug           *string            `json:"slug,omitempty"`
	Creator        *string            `json:"creator,omitempty"`
	BaseModel      *string            `json:"base_model,omitempty"`
	NSFWLevel      *string            `json:"nsfw_level,omitempty"`
	DownloadURL    *string            `json:"download_url,omitempty"`
	MediaFiles     *[]string          `json:"media_files,omitempty"`
	CustomFields   *map[string]string `json:"custom_fields,omitempty"`
	LinkedAssets   *[]int             `json:"linked_assets,omitempty"`
	IsFavorite     *bool              `json:"is_favorite,omitempty"`
}

// String returns a pointer for optional PATCH fields.
func String(s string) *string { return &s }

// Keyword is one entry of the search keyword cloud.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}
