package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/config"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/draft"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// ErrDraftNotFound is returned for unknown, expired, or foreign draft ids.
var ErrDraftNotFound = errors.New("draft session not found")

// AssignmentBackend is the store the draft engine reads from and reconciles
// into.
type AssignmentBackend interface {
	Get(ctx context.Context, id int64) (*model.RemoteAssignment, error)
	draft.SubmissionService
}

// NotificationSinks hands out per-user notification sinks.
type NotificationSinks interface {
	For(userID string) draft.NotificationSink
}

// AuditEvent is one entry pushed to the audit queue after a successful
// submission; the audit worker batches these into PostgreSQL.
type AuditEvent struct {
	AssignmentID int64     `json:"assignment_id"`
	Action       string    `json:"action"` // "created" | "updated"
	Actor        string    `json:"actor"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type draftSession struct {
	store       *draft.Store
	owner       string
	lastTouched time.Time
}

// DraftService owns all live draft sessions. Each session wraps one
// draft.Store; the store serializes its own mutations, the service only
// guards the session registry. Idle sessions are reaped by the background
// reaper, which releases their preview handles.
type DraftService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*draftSession

	backend  AssignmentBackend
	uploader draft.Uploader
	sinks    NotificationSinks
	rdb      *redis.Client
	cfg      *config.Config
	log      zerolog.Logger
}

// NewDraftService creates a new DraftService.
func NewDraftService(backend AssignmentBackend, uploader draft.Uploader, sinks NotificationSinks, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *DraftService {
	return &DraftService{
		sessions: make(map[uuid.UUID]*draftSession),
		backend:  backend,
		uploader: uploader,
		sinks:    sinks,
		rdb:      rdb,
		cfg:      cfg,
		log:      log.With().Str("component", "draft_service").Logger(),
	}
}

// Open starts a draft session for the given user. With an assignment id the
// draft hydrates from the backend read (edit mode); without one a fresh
// create-mode draft is seeded.
func (s *DraftService) Open(ctx context.Context, owner string, assignmentID *int64) (uuid.UUID, *draft.Store, error) {
	cfg := draft.Config{
		Uploader:       s.uploader,
		Sink:           s.sinks.For(owner),
		MaxUploadBytes: s.cfg.MaxUploadBytes,
	}

	var store *draft.Store
	if assignmentID != nil {
		remote, err := s.backend.Get(ctx, *assignmentID)
		if err != nil {
			return uuid.Nil, nil, err
		}
		store = draft.NewFromRemote(cfg, remote)
	} else {
		store = draft.New(cfg)
	}

	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &draftSession{
		store:       store,
		owner:       owner,
		lastTouched: time.Now(),
	}
	s.mu.Unlock()

	s.log.Info().Str("draft_id", id.String()).Str("owner", owner).
		Bool("edit_mode", assignmentID != nil).Msg("Draft session opened")
	return id, store, nil
}

// Get returns the store behind a draft session and refreshes its idle timer.
// Foreign sessions are indistinguishable from missing ones.
func (s *DraftService) Get(id uuid.UUID, owner string) (*draft.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.owner != owner {
		return nil, ErrDraftNotFound
	}
	sess.lastTouched = time.Now()
	return sess.store, nil
}

// Discard tears the session down, releasing every live preview handle.
func (s *DraftService) Discard(id uuid.UUID, owner string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || sess.owner != owner {
		s.mu.Unlock()
		return ErrDraftNotFound
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	sess.store.Teardown()
	s.log.Info().Str("draft_id", id.String()).Msg("Draft session discarded")
	return nil
}

// Submit reconciles the draft into the backend. On success the session is
// torn down, a success toast is published, and an audit event is enqueued. On
// any failure the draft is preserved in full so the user can retry.
func (s *DraftService) Submit(ctx context.Context, id uuid.UUID, owner string) (int64, error) {
	store, err := s.Get(id, owner)
	if err != nil {
		return 0, err
	}

	wasUpdate := store.Meta().ID != nil
	sink := s.sinks.For(owner)

	assignmentID, err := store.Submit(ctx, s.backend)
	if err != nil {
		if errors.Is(err, draft.ErrSubmitFailed) {
			sink.Error("Saving the assignment failed. Your draft has been kept.")
		}
		return 0, err
	}

	action := "created"
	if wasUpdate {
		action = "updated"
	}
	s.enqueueAudit(ctx, AuditEvent{
		AssignmentID: assignmentID,
		Action:       action,
		Actor:        owner,
		OccurredAt:   time.Now().UTC(),
	})
	sink.Success("Assignment saved.")

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	store.Teardown()

	s.log.Info().Int64("assignment_id", assignmentID).Str("action", action).
		Str("owner", owner).Msg("Assignment submitted")
	return assignmentID, nil
}

func (s *DraftService) enqueueAudit(ctx context.Context, ev AuditEvent) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal audit event")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.AssignmentAuditQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).Msg("audit enqueue failed")
	}
}

// ReapIdle tears down sessions idle for longer than the configured TTL and
// returns how many were reaped.
func (s *DraftService) ReapIdle() int {
	cutoff := time.Now().Add(-s.cfg.DraftTTL)

	s.mu.Lock()
	var expired []*draftSession
	for id, sess := range s.sessions {
		if sess.lastTouched.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.store.Teardown()
	}
	return len(expired)
}

// Shutdown tears down every live session. Called on graceful shutdown so no
// preview handle outlives the process's bookkeeping.
func (s *DraftService) Shutdown() {
	s.mu.Lock()
	sessions := make([]*draftSession, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.store.Teardown()
	}
}
