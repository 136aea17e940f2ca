package model

// MediaKind discriminates image and video attachments.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Wire codes for media kinds (backend contract).
const (
	MediaKindCodeImage = 1
	MediaKindCodeVideo = 2
)

// Code returns the numeric wire code for the media kind.
func (k MediaKind) Code() int {
	if k == MediaKindVideo {
		return MediaKindCodeVideo
	}
	return MediaKindCodeImage
}

// PreviewRef is a locally-owned, revocable handle used to render a
// not-yet-persisted file. It must be released exactly once — on replace, on
// delete, or on draft teardown.
type PreviewRef interface {
	Release()
}

// FileInfo describes an uploaded file as reported by the upload service.
type FileInfo struct {
	FileName   string `json:"fileName"`
	FileSizeKb int64  `json:"fileSizeKb"`
	FileExt    string `json:"fileExt"`
	FileType   string `json:"fileType"`
}

// FileDescriptor is the persisted location of an uploaded file.
type FileDescriptor struct {
	AssetURL  string   `json:"assetUrl"`
	SignedURL string   `json:"signedUrl"`
	Info      FileInfo `json:"info"`
}

// MediaItem is a media attachment on a question.
//
// ID follows the same identity rule as Question: present iff persisted. A
// persisted item is never physically removed on delete; it is retained with
// Deleted set so the backend receives an explicit delete instruction.
type MediaItem struct {
	ID        *int64    `json:"id,omitempty"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	Kind      MediaKind `json:"kind"`
	Deleted   bool      `json:"deleted,omitempty"`

	// Preview exists only while the item has no fresh Persisted descriptor,
	// or alongside one for rendering. Never released twice; the draft nils
	// the field after releasing.
	Preview PreviewRef `json:"-"`

	// Persisted is set from the upload response for fresh uploads, or
	// carried through unchanged from the remote read for hydrated items.
	Persisted *FileDescriptor `json:"persisted,omitempty"`
}

// ReleasePreview releases the preview handle if one is held. Safe to call
// more than once; only the first call releases.
func (m *MediaItem) ReleasePreview() {
	if m.Preview != nil {
		m.Preview.Release()
		m.Preview = nil
	}
}
