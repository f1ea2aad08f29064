package domain

// UploadState tracks one queued import item through its lifecycle.
type UploadState int

const (
	UploadPending UploadState = iota
	UploadRunning
	UploadDone
	UploadFailed
)

func (s UploadState) String() string {
	switch s {
	case UploadPending:
		return "pending"
	case UploadRunning:
		return "running"
	case UploadDone:
		return "done"
	case UploadFailed:
		return "failed"
	}
	return "unknown"
}

// UploadItem is one transient entry of an import queue: a local file or a
// remote URL plus whatever metadata extraction produced for it. Items are
// discarded after a successful save.
type UploadItem struct {
	// Exactly one of LocalPath / URL is set.
	LocalPath string
	URL       string

	// Extraction output used to prefill the asset payload.
	Meta ExtractedMeta

	State UploadState
	Err   string

	// Backend path after a successful upload.
	StoredPath string

	// Created asset id after a successful save.
	AssetID int
}

// Source returns the user-facing origin of the item.
func (u UploadItem) Source() string {
	if u.LocalPath != "" {
		return u.LocalPath
	}
	return u.URL
}

// ExtractedMeta is the prompt and model metadata pulled out of an image by
// the backend's extraction endpoint. Custom fields arrive pre-categorized.
type ExtractedMeta struct {
	PositivePrompt string            `json:"positive_prompt"`
	NegativePrompt string            `json:"negative_prompt"`
	ModelName      string            `json:"model_name"`
	BaseModel      string            `json:"base_model"`
	CustomFields   map[string]string `json:"custom_fields"`
}
