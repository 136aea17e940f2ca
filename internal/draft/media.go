package draft

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// Uploading reports whether any media upload is still in flight. Submission
// and tab navigation are blocked while true; this is the only cross-cutting
// concurrency guard in the draft.
func (s *Store) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// UploadMedia uploads a file for the question at questionIdx and attaches the
// result. When replaceIdx is non-nil the existing item at that index is
// replaced and its old preview handle released; otherwise a new item is
// appended. The new item has no backend ID until the assignment itself is
// saved.
//
// A file over the size ceiling is rejected before any network call with no
// state transition. On transport failure the coordinator returns to idle and
// the draft is unchanged; there is no retry and no cancellation — an
// in-flight upload runs to completion.
func (s *Store) UploadMedia(ctx context.Context, questionIdx int, replaceIdx *int, f File) (*model.MediaItem, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		releaseFilePreview(f)
		return nil, ErrClosed
	}

	q, err := s.questionLocked(questionIdx)
	if err == nil && q.RecordType == model.RecordTypeDelete {
		err = ErrQuestionDeleted
	}
	if err == nil && replaceIdx != nil && (*replaceIdx < 0 || *replaceIdx >= len(q.Media)) {
		err = ErrIndexOutOfRange
	}
	if err != nil {
		s.mu.Unlock()
		releaseFilePreview(f)
		return nil, err
	}

	if f.Size > s.maxUpload {
		s.mu.Unlock()
		releaseFilePreview(f)
		return nil, fmt.Errorf("%w: %q is %d bytes (limit %d)",
			ErrFileTooLarge, f.Name, f.Size, s.maxUpload)
	}

	s.inFlight++
	s.mu.Unlock()

	// The transport call runs outside the store lock so other edits stay
	// responsive; only submission is gated on the in-flight count.
	desc, upErr := s.uploader.Upload(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if upErr != nil {
		releaseFilePreview(f)
		s.sink.Error(fmt.Sprintf("Upload of %q failed: %v", f.Name, upErr))
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, upErr)
	}

	if s.closed {
		releaseFilePreview(f)
		return nil, ErrClosed
	}

	// The question may have been deleted while the upload was in flight. A
	// local-only question is spliced out of the collection, so attaching to
	// the pointer captured before the transport call would orphan the item
	// and leak its preview handle; re-locate by draft-local identity first.
	q = s.questionByLocalIDLocked(q.LocalID)
	if q == nil || q.RecordType == model.RecordTypeDelete {
		releaseFilePreview(f)
		return nil, ErrQuestionDeleted
	}

	item := &model.MediaItem{
		Name:      f.Name,
		SizeBytes: f.Size,
		Kind:      mediaKindFromContentType(f.ContentType, f.Name),
		Preview:   f.Preview,
		Persisted: desc,
	}

	if replaceIdx != nil && *replaceIdx < len(q.Media) {
		old := q.Media[*replaceIdx]
		old.ReleasePreview()
		// Keep the backend identity so the replacement reconciles as an
		// update of the existing row.
		item.ID = old.ID
		q.Media[*replaceIdx] = item
	} else {
		q.Media = append(q.Media, item)
	}

	return item, nil
}

// DeleteMedia removes the media item at mediaIdx from the question at
// questionIdx. The preview handle is always released; a persisted item is
// retained and tagged deleted, a local-only item is spliced out.
func (s *Store) DeleteMedia(questionIdx, mediaIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.questionLocked(questionIdx)
	if err != nil {
		return err
	}
	if q.RecordType == model.RecordTypeDelete {
		return ErrQuestionDeleted
	}
	if mediaIdx < 0 || mediaIdx >= len(q.Media) {
		return ErrIndexOutOfRange
	}

	m := q.Media[mediaIdx]
	m.ReleasePreview()

	if m.ID != nil {
		m.Deleted = true
	} else {
		q.Media = append(q.Media[:mediaIdx], q.Media[mediaIdx+1:]...)
	}
	return nil
}

func releaseFilePreview(f File) {
	if f.Preview != nil {
		f.Preview.Release()
	}
}

// mediaKindFromContentType maps a MIME type to the media kind, falling back
// to the filename extension.
func mediaKindFromContentType(contentType, name string) model.MediaKind {
	if strings.HasPrefix(contentType, "video/") {
		return model.MediaKindVideo
	}
	if strings.HasPrefix(contentType, "image/") {
		return model.MediaKindImage
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".webm", ".mov":
		return model.MediaKindVideo
	}
	return model.MediaKindImage
}

// mediaKindFromInfo derives the kind of a hydrated media item from its
// upload-service file info.
func mediaKindFromInfo(info model.FileInfo) model.MediaKind {
	return mediaKindFromContentType(info.FileType, info.FileName)
}
