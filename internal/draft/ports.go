// Package draft implements the in-memory assignment draft: a nested,
// identity-aware tree of questions, answers and media that supports arbitrary
// local edits while keeping a stable ordering invariant, running
// type-specific validation, coordinating file uploads that gate submission,
// and projecting itself into the minimal create/update/delete reconciliation
// payload the backend accepts.
package draft

import (
	"context"
	"io"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// File is a file selected for upload, together with the locally-owned
// preview handle acquired on selection (may be nil when the caller renders
// from the persisted descriptor instead).
type File struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
	Preview     model.PreviewRef
}

// Uploader is the file-upload transport. Only the request/response contract
// matters to the draft; the transport itself is an external collaborator.
type Uploader interface {
	Upload(ctx context.Context, f File) (*model.FileDescriptor, error)
}

// SubmissionService persists a reconciliation payload. Create returns the new
// assignment's backend ID.
type SubmissionService interface {
	Create(ctx context.Context, p *model.AssignmentPayload) (int64, error)
	Update(ctx context.Context, id int64, p *model.AssignmentPayload) error
}

// NotificationSink receives fire-and-forget UI feedback.
type NotificationSink interface {
	Success(msg string)
	Error(msg string)
}

// nopSink is used when no sink is configured.
type nopSink struct{}

func (nopSink) Success(string) {}
func (nopSink) Error(string)   {}
