package draft

import (
	"sync"

	"github.com/google/uuid"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// DefaultMaxUploadBytes is the fixed ceiling for a single media upload.
const DefaultMaxUploadBytes = 10 << 20 // 10 MB

// Config wires the draft's external collaborators.
type Config struct {
	Uploader Uploader
	Sink     NotificationSink

	// MaxUploadBytes defaults to DefaultMaxUploadBytes when zero.
	MaxUploadBytes int64
}

// Store is the single owner of the question/answer/media tree and the sole
// mutation entry point. All exported methods are safe for concurrent use;
// mutations are atomic with respect to each other, and every structural
// mutation re-runs the order reconciler before returning.
//
// The draft lives entirely in memory for the duration of the edit session and
// is discarded on successful submission or explicit teardown.
type Store struct {
	mu        sync.Mutex
	meta      model.Assignment
	questions []*model.Question
	closed    bool

	uploader  Uploader
	sink      NotificationSink
	maxUpload int64

	// inFlight counts running uploads. Submission is unconditionally blocked
	// while it is non-zero.
	inFlight int
}

// New creates a create-mode draft seeded with one empty multiple-choice
// question.
func New(cfg Config) *Store {
	s := newStore(cfg)
	s.questions = append(s.questions, newQuestion(1))
	return s
}

// NewFromRemote creates an edit-mode draft hydrated from a backend read.
func NewFromRemote(cfg Config, remote *model.RemoteAssignment) *Store {
	s := newStore(cfg)
	s.hydrate(remote)
	return s
}

func newStore(cfg Config) *Store {
	sink := cfg.Sink
	if sink == nil {
		sink = nopSink{}
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Store{
		uploader:  cfg.Uploader,
		sink:      sink,
		maxUpload: maxUpload,
	}
}

// newQuestion returns a fresh local-only question with the given order.
func newQuestion(order int) *model.Question {
	return &model.Question{
		LocalID:    uuid.New(),
		Type:       model.QuestionTypeMCQ,
		Order:      order,
		RecordType: model.RecordTypeCreate,
		Answers:    []*model.Answer{},
		Media:      []*model.MediaItem{},
	}
}

// hydrate maps a remote assignment into local records. Persisted questions
// start as record type update; the backend's order is preserved, defaulting
// to position+1 only where the backend omitted it.
func (s *Store) hydrate(remote *model.RemoteAssignment) {
	id := remote.ID
	s.meta = model.Assignment{
		ID:              &id,
		Code:            remote.Code,
		Name:            remote.Name,
		DurationMinutes: remote.DurationMinutes,
		Instructions:    remote.Instructions,
	}

	s.questions = make([]*model.Question, 0, len(remote.Questions))
	for i, rq := range remote.Questions {
		qID := rq.ID
		order := rq.Order
		if order <= 0 {
			order = i + 1
		}

		q := &model.Question{
			LocalID:    uuid.New(),
			ID:         &qID,
			Text:       rq.QuestionText,
			Type:       model.QuestionTypeFromRemote(rq.QuestionType.ID, rq.QuestionType.Name),
			Points:     rq.Points,
			Required:   rq.IsRequired,
			Order:      order,
			RecordType: model.RecordTypeUpdate,
			Answers:    make([]*model.Answer, 0, len(rq.Answers)),
			Media:      make([]*model.MediaItem, 0, len(rq.Media)),
		}

		for _, ra := range rq.Answers {
			aID := ra.ID
			q.Answers = append(q.Answers, &model.Answer{
				ID:        &aID,
				Text:      ra.Text,
				IsCorrect: ra.IsCorrect,
			})
		}

		for _, rm := range rq.Media {
			mID := rm.ID
			desc := rm.DocumentURL
			q.Media = append(q.Media, &model.MediaItem{
				ID:        &mID,
				Name:      desc.Info.FileName,
				SizeBytes: desc.Info.FileSizeKb * 1024,
				Kind:      mediaKindFromInfo(desc.Info),
				Persisted: &desc,
			})
		}

		s.questions = append(s.questions, q)
	}

	s.reconcileLocked()
}

// Meta returns the assignment metadata.
func (s *Store) Meta() model.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// SetMeta applies a metadata patch. Nil fields are left unchanged.
func (s *Store) SetMeta(req *model.UpdateAssignmentMetaRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Code != nil {
		s.meta.Code = *req.Code
	}
	if req.Name != nil {
		s.meta.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		s.meta.DurationMinutes = *req.DurationMinutes
	}
	if req.Instructions != nil {
		s.meta.Instructions = *req.Instructions
	}
}

// Questions returns the full collection, deleted-tagged questions included,
// in collection order. The returned slice is a copy; the elements are live.
func (s *Store) Questions() []*model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// ActiveQuestions returns all questions not tagged for deletion, in
// ascending order.
func (s *Store) ActiveQuestions() []*model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked()
}

func (s *Store) activeLocked() []*model.Question {
	out := make([]*model.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if q.RecordType != model.RecordTypeDelete {
			out = append(out, q)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Order > out[j].Order; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Snapshot is a point-in-time view of the draft for the UI.
type Snapshot struct {
	Meta      model.Assignment  `json:"meta"`
	Questions []*model.Question `json:"questions"`
	Uploading bool              `json:"uploading"`
}

// Snapshot returns the current draft state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	qs := make([]*model.Question, len(s.questions))
	copy(qs, s.questions)
	return Snapshot{
		Meta:      s.meta,
		Questions: qs,
		Uploading: s.inFlight > 0,
	}
}

// Teardown releases every live preview handle and closes the draft. Called on
// successful submission, explicit discard, and session expiry. Idempotent.
func (s *Store) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, q := range s.questions {
		for _, m := range q.Media {
			m.ReleasePreview()
		}
	}
	s.questions = nil
}

// question returns the question at the given collection index.
func (s *Store) questionLocked(idx int) (*model.Question, error) {
	if idx < 0 || idx >= len(s.questions) {
		return nil, ErrIndexOutOfRange
	}
	return s.questions[idx], nil
}

// questionByLocalIDLocked finds a question by its draft-local identity, or
// nil if it has been spliced out of the collection.
func (s *Store) questionByLocalIDLocked(localID uuid.UUID) *model.Question {
	for _, q := range s.questions {
		if q.LocalID == localID {
			return q
		}
	}
	return nil
}
