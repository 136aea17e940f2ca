package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

func pngFile(name string, size int64, prev model.PreviewRef) File {
	return File{
		Name:        name,
		Size:        size,
		ContentType: "image/png",
		Content:     strings.NewReader("not really a png"),
		Preview:     prev,
	}
}

func TestUploadAppendsMediaItem(t *testing.T) {
	s, up, _ := newTestStore(t)

	item, err := s.UploadMedia(context.Background(), 0, nil, pngFile("shot.png", 2048, nil))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}

	if up.callCount() != 1 {
		t.Fatalf("expected one transport call, got %d", up.callCount())
	}
	if item.ID != nil {
		t.Error("fresh upload must have no server id until the assignment is saved")
	}
	if item.Persisted == nil || item.Persisted.AssetURL != "/uploads/shot.png" {
		t.Fatalf("descriptor not applied: %+v", item.Persisted)
	}
	if item.Kind != model.MediaKindImage {
		t.Errorf("expected image kind, got %s", item.Kind)
	}
	if got := len(s.Questions()[0].Media); got != 1 {
		t.Fatalf("expected 1 media item, got %d", got)
	}
	if s.Uploading() {
		t.Fatal("coordinator must return to idle after success")
	}
}

func TestUploadRejectsOversizedFileBeforeTransport(t *testing.T) {
	s, up, _ := newTestStore(t)
	prev := &fakePreview{}

	_, err := s.UploadMedia(context.Background(), 0, nil, pngFile("huge.png", DefaultMaxUploadBytes+1, prev))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if up.callCount() != 0 {
		t.Fatal("oversized file must be rejected before any network call")
	}
	if s.Uploading() {
		t.Fatal("rejection must cause no state transition")
	}
	if got := len(s.Questions()[0].Media); got != 0 {
		t.Fatalf("no item may be added, got %d", got)
	}
	if prev.releaseCount() != 1 {
		t.Fatalf("orphaned preview must be released, got %d", prev.releaseCount())
	}
}

func TestUploadFailureLeavesDraftUnchanged(t *testing.T) {
	s, up, sink := newTestStore(t)
	up.err = errors.New("boom")

	_, err := s.UploadMedia(context.Background(), 0, nil, pngFile("shot.png", 100, nil))
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if got := len(s.Questions()[0].Media); got != 0 {
		t.Fatalf("failure must not add an item, got %d", got)
	}
	if s.Uploading() {
		t.Fatal("coordinator must return to idle after failure")
	}
	if sink.errorCount() != 1 {
		t.Fatalf("failure must surface through the sink, got %d errors", sink.errorCount())
	}
}

func TestUploadReplaceReleasesOldPreviewAndKeepsIdentity(t *testing.T) {
	s, _, _ := hydratedStore(t)
	oldPrev := &fakePreview{}

	q := s.Questions()[0]
	q.Media[0].Preview = oldPrev
	oldID := *q.Media[0].ID

	idx := 0
	item, err := s.UploadMedia(context.Background(), 0, &idx, pngFile("new.png", 512, nil))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}

	if oldPrev.releaseCount() != 1 {
		t.Fatalf("replaced item's preview must be released exactly once, got %d", oldPrev.releaseCount())
	}
	if item.ID == nil || *item.ID != oldID {
		t.Fatalf("replacement must keep the backend identity %d, got %v", oldID, item.ID)
	}
	if got := len(s.Questions()[0].Media); got != 1 {
		t.Fatalf("replace must not grow the list, got %d", got)
	}
	if item.Persisted.AssetURL != "/uploads/new.png" {
		t.Fatalf("descriptor not refreshed: %+v", item.Persisted)
	}
}

func TestDeleteMediaIdentityRule(t *testing.T) {
	s, _, _ := hydratedStore(t)
	prev := &fakePreview{}
	s.Questions()[0].Media[0].Preview = prev

	// Persisted: retained, tagged deleted, preview released.
	if err := s.DeleteMedia(0, 0); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}
	q := s.Questions()[0]
	if len(q.Media) != 1 || !q.Media[0].Deleted {
		t.Fatalf("persisted media must be retained and tagged: %+v", q.Media)
	}
	if prev.releaseCount() != 1 {
		t.Fatalf("preview must be released on delete, got %d", prev.releaseCount())
	}

	// Local-only: spliced out.
	if _, err := s.UploadMedia(context.Background(), 0, nil, pngFile("tmp.png", 64, nil)); err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if err := s.DeleteMedia(0, 1); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}
	if got := len(s.Questions()[0].Media); got != 1 {
		t.Fatalf("local-only media must be spliced, got %d items", got)
	}
}

func TestUploadToQuestionDeletedMidFlight(t *testing.T) {
	s, up, _ := newTestStore(t)
	s.AddQuestion()
	up.release = make(chan struct{})
	prev := &fakePreview{}

	done := make(chan error, 1)
	go func() {
		_, err := s.UploadMedia(context.Background(), 1, nil, pngFile("late.png", 128, prev))
		done <- err
	}()

	waitFor(t, s.Uploading, "upload to start")

	// Splice out the local-only target while the transport call is running.
	if err := s.DeleteQuestion(1); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	close(up.release)
	if err := <-done; !errors.Is(err, ErrQuestionDeleted) {
		t.Fatalf("expected ErrQuestionDeleted, got %v", err)
	}
	for i, q := range s.Questions() {
		if len(q.Media) != 0 {
			t.Fatalf("question %d must not pick up the orphaned item", i)
		}
	}
	if prev.releaseCount() != 1 {
		t.Fatalf("orphaned preview must be released exactly once, got %d", prev.releaseCount())
	}
	if s.Uploading() {
		t.Fatal("coordinator must return to idle")
	}
}

func TestUploadToQuestionTaggedDeletedMidFlight(t *testing.T) {
	s, up, _ := hydratedStore(t)
	up.release = make(chan struct{})
	prev := &fakePreview{}

	done := make(chan error, 1)
	go func() {
		_, err := s.UploadMedia(context.Background(), 1, nil, pngFile("late.png", 128, prev))
		done <- err
	}()

	waitFor(t, s.Uploading, "upload to start")

	// A persisted question is retained and tagged; the finishing upload
	// must still refuse to attach to it.
	if err := s.DeleteQuestion(1); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	close(up.release)
	if err := <-done; !errors.Is(err, ErrQuestionDeleted) {
		t.Fatalf("expected ErrQuestionDeleted, got %v", err)
	}
	if got := len(s.Questions()[1].Media); got != 0 {
		t.Fatalf("tagged question must not gain media, got %d", got)
	}
	if prev.releaseCount() != 1 {
		t.Fatalf("orphaned preview must be released exactly once, got %d", prev.releaseCount())
	}
}

func TestUploadGateBlocksSubmit(t *testing.T) {
	s, up, _ := hydratedStore(t)
	up.release = make(chan struct{})
	svc := &fakeSubmission{}

	done := make(chan error, 1)
	go func() {
		_, err := s.UploadMedia(context.Background(), 0, nil, pngFile("slow.png", 128, nil))
		done <- err
	}()

	waitFor(t, s.Uploading, "upload to start")

	if _, err := s.Submit(context.Background(), svc); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("expected ErrUploadInFlight, got %v", err)
	}
	if svc.callCount() != 0 {
		t.Fatal("submission service must not be called while uploading")
	}
	if err := s.CheckGate(); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("tab advance must be gated too, got %v", err)
	}

	close(up.release)
	if err := <-done; err != nil {
		t.Fatalf("upload should finish cleanly: %v", err)
	}

	if _, err := s.Submit(context.Background(), svc); err != nil {
		t.Fatalf("submit should pass once idle: %v", err)
	}
	if svc.callCount() != 1 {
		t.Fatalf("expected one submission, got %d", svc.callCount())
	}
}
