package draft

import (
	"context"
	"fmt"
)

// CheckGate runs the submit gate without submitting: it fails while any
// media upload is in flight or while any validation error exists. The
// "proceed to next tab" action uses the same gate.
func (s *Store) CheckGate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkGateLocked()
}

func (s *Store) checkGateLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.inFlight > 0 {
		return ErrUploadInFlight
	}
	if res := s.validateLocked(); !res.OK() {
		return &ValidationFailedError{Result: res}
	}
	return nil
}

// Submit gates, builds the reconciliation payload, and sends it through the
// given submission service — update when the draft was hydrated from an
// existing assignment, create otherwise. Returns the assignment's backend ID.
//
// The request is all-or-nothing: no partial payload is ever sent. On failure
// the draft is preserved in full so the user can retry; nothing is retried
// automatically. The caller owns teardown on success.
func (s *Store) Submit(ctx context.Context, svc SubmissionService) (int64, error) {
	s.mu.Lock()
	if err := s.checkGateLocked(); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	payload := s.buildPayloadLocked()
	id := s.meta.ID
	s.mu.Unlock()

	if id != nil {
		if err := svc.Update(ctx, *id, payload); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
		}
		return *id, nil
	}

	newID, err := svc.Create(ctx, payload)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	s.mu.Lock()
	s.meta.ID = &newID
	s.mu.Unlock()
	return newID, nil
}
