package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// ErrAssignmentNotFound is returned when an assignment id has no row.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentRepository handles assignment data access. The backend store has
// no partial-patch semantics: Apply replays a full reconciliation payload in
// one transaction, acting on every entity's record type.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// List retrieves assignments with pagination and optional name/code search.
func (r *AssignmentRepository) List(ctx context.Context, limit, offset int, search string) ([]model.AssignmentSummary, int, error) {
	where := ``
	args := []interface{}{}
	if search != "" {
		where = ` WHERE a.name ILIKE $1 OR a.code ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assignments a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.code, a.name, a.duration_minutes, a.updated_at,
		       (SELECT COUNT(*) FROM assignment_questions q WHERE q.assignment_id = a.id) AS question_count
		FROM assignments a%s
		ORDER BY a.updated_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.AssignmentSummary
	for rows.Next() {
		var s model.AssignmentSummary
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.DurationMinutes, &s.UpdatedAt, &s.QuestionCount); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// GetRemote retrieves an assignment in the remote read shape the draft store
// hydrates from.
func (r *AssignmentRepository) GetRemote(ctx context.Context, id int64) (*model.RemoteAssignment, error) {
	a := &model.RemoteAssignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, duration_minutes, instructions
		 FROM assignments WHERE id = $1`, id,
	).Scan(&a.ID, &a.Code, &a.Name, &a.DurationMinutes, &a.Instructions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, question_text, question_type, points, is_required, order_num
		 FROM assignment_questions WHERE assignment_id = $1
		 ORDER BY order_num`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var q model.RemoteQuestion
		var typeCode int
		if err := rows.Scan(&q.ID, &q.QuestionText, &typeCode, &q.Points, &q.IsRequired, &q.Order); err != nil {
			return nil, err
		}
		q.QuestionType = model.RemoteQuestionType{ID: typeCode, Name: typeName(typeCode)}
		a.Questions = append(a.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range a.Questions {
		q := &a.Questions[i]
		if err := r.loadAnswers(ctx, q); err != nil {
			return nil, err
		}
		if err := r.loadMedia(ctx, q); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (r *AssignmentRepository) loadAnswers(ctx context.Context, q *model.RemoteQuestion) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, text, is_correct FROM assignment_answers
		 WHERE question_id = $1 ORDER BY order_num`, q.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a model.RemoteAnswer
		if err := rows.Scan(&a.ID, &a.Text, &a.IsCorrect); err != nil {
			return err
		}
		q.Answers = append(q.Answers, a)
	}
	return rows.Err()
}

func (r *AssignmentRepository) loadMedia(ctx context.Context, q *model.RemoteQuestion) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, asset_url, signed_url, file_name, file_size_kb, file_ext, file_type
		 FROM assignment_media WHERE question_id = $1 ORDER BY order_num`, q.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.RemoteMedia
		if err := rows.Scan(&m.ID, &m.DocumentURL.AssetURL, &m.DocumentURL.SignedURL,
			&m.DocumentURL.Info.FileName, &m.DocumentURL.Info.FileSizeKb,
			&m.DocumentURL.Info.FileExt, &m.DocumentURL.Info.FileType); err != nil {
			return err
		}
		q.Media = append(q.Media, m)
	}
	return rows.Err()
}

// Create persists a brand-new assignment from a reconciliation payload and
// returns its id. Delete-tagged entries cannot occur in a create payload and
// are skipped defensively.
func (r *AssignmentRepository) Create(ctx context.Context, p *model.AssignmentPayload) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO assignments (code, name, duration_minutes, instructions)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Code, p.Name, p.DurationMinutes, p.Instructions,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for i := range p.Questions {
		q := &p.Questions[i]
		if q.RecordType == model.RecordTypeDelete {
			continue
		}
		if err := r.insertQuestion(ctx, tx, id, q); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// Apply replays an update payload against an existing assignment: metadata is
// rewritten, then every question, answer, and media entry is inserted,
// updated, or deleted according to its record type.
func (r *AssignmentRepository) Apply(ctx context.Context, id int64, p *model.AssignmentPayload) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE assignments
		 SET code = $1, name = $2, duration_minutes = $3, instructions = $4, updated_at = now()
		 WHERE id = $5`,
		p.Code, p.Name, p.DurationMinutes, p.Instructions, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}

	for i := range p.Questions {
		q := &p.Questions[i]
		switch q.RecordType {
		case model.RecordTypeCreate:
			if err := r.insertQuestion(ctx, tx, id, q); err != nil {
				return err
			}
		case model.RecordTypeUpdate:
			if q.ID == nil {
				return fmt.Errorf("update question without id at position %d", i)
			}
			if _, err := tx.Exec(ctx,
				`UPDATE assignment_questions
				 SET question_text = $1, question_type = $2, points = $3,
				     is_required = $4, order_num = $5
				 WHERE id = $6 AND assignment_id = $7`,
				q.QuestionText, q.QuestionType, q.Points, q.IsRequired, q.Order, *q.ID, id,
			); err != nil {
				return err
			}
			if err := r.applyAnswers(ctx, tx, *q.ID, q.Answers); err != nil {
				return err
			}
			if err := r.applyMedia(ctx, tx, *q.ID, q.Media); err != nil {
				return err
			}
		case model.RecordTypeDelete:
			if q.ID == nil {
				continue // never persisted, nothing to delete
			}
			// Answers and media cascade via FK.
			if _, err := tx.Exec(ctx,
				`DELETE FROM assignment_questions WHERE id = $1 AND assignment_id = $2`,
				*q.ID, id,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *AssignmentRepository) insertQuestion(ctx context.Context, tx pgx.Tx, assignmentID int64, q *model.QuestionPayload) error {
	var qID int64
	err := tx.QueryRow(ctx,
		`INSERT INTO assignment_questions
		   (assignment_id, question_text, question_type, points, is_required, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		assignmentID, q.QuestionText, q.QuestionType, q.Points, q.IsRequired, q.Order,
	).Scan(&qID)
	if err != nil {
		return err
	}

	for _, a := range q.Answers {
		if a.RecordType == model.RecordTypeDelete {
			continue
		}
		if err := insertAnswer(ctx, tx, qID, a); err != nil {
			return err
		}
	}
	for _, m := range q.Media {
		if m.RecordType == model.RecordTypeDelete {
			continue
		}
		if err := insertMedia(ctx, tx, qID, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *AssignmentRepository) applyAnswers(ctx context.Context, tx pgx.Tx, questionID int64, answers []model.AnswerPayload) error {
	for _, a := range answers {
		switch a.RecordType {
		case model.RecordTypeCreate:
			if err := insertAnswer(ctx, tx, questionID, a); err != nil {
				return err
			}
		case model.RecordTypeUpdate:
			if a.ID == nil {
				continue
			}
			if _, err := tx.Exec(ctx,
				`UPDATE assignment_answers SET text = $1, is_correct = $2, order_num = $3
				 WHERE id = $4 AND question_id = $5`,
				a.Text, a.IsCorrect, a.Order, *a.ID, questionID,
			); err != nil {
				return err
			}
		case model.RecordTypeDelete:
			if a.ID == nil {
				continue
			}
			if _, err := tx.Exec(ctx,
				`DELETE FROM assignment_answers WHERE id = $1 AND question_id = $2`,
				*a.ID, questionID,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *AssignmentRepository) applyMedia(ctx context.Context, tx pgx.Tx, questionID int64, media []model.MediaPayload) error {
	for _, m := range media {
		switch m.RecordType {
		case model.RecordTypeCreate:
			if err := insertMedia(ctx, tx, questionID, m); err != nil {
				return err
			}
		case model.RecordTypeUpdate:
			if m.ID == nil {
				continue
			}
			if _, err := tx.Exec(ctx,
				`UPDATE assignment_media
				 SET media_type = $1, asset_url = $2, signed_url = $3,
				     file_name = $4, file_size_kb = $5, file_ext = $6, file_type = $7, order_num = $8
				 WHERE id = $9 AND question_id = $10`,
				m.MediaType, m.File.ImageURL, m.File.GenerateSignedURL,
				m.File.Info.FileName, m.File.Info.FileSizeKb, m.File.Info.FileExt, m.File.Info.FileType,
				m.Order, *m.ID, questionID,
			); err != nil {
				return err
			}
		case model.RecordTypeDelete:
			if m.ID == nil {
				continue
			}
			if _, err := tx.Exec(ctx,
				`DELETE FROM assignment_media WHERE id = $1 AND question_id = $2`,
				*m.ID, questionID,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertAnswer(ctx context.Context, tx pgx.Tx, questionID int64, a model.AnswerPayload) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO assignment_answers (question_id, text, is_correct, order_num)
		 VALUES ($1, $2, $3, $4)`,
		questionID, a.Text, a.IsCorrect, a.Order,
	)
	return err
}

func insertMedia(ctx context.Context, tx pgx.Tx, questionID int64, m model.MediaPayload) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO assignment_media
		   (question_id, media_type, asset_url, signed_url, file_name, file_size_kb, file_ext, file_type, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		questionID, m.MediaType, m.File.ImageURL, m.File.GenerateSignedURL,
		m.File.Info.FileName, m.File.Info.FileSizeKb, m.File.Info.FileExt, m.File.Info.FileType, m.Order,
	)
	return err
}

func typeName(code int) string {
	switch code {
	case model.QuestionTypeCodeTrueFalse:
		return "True/False"
	case model.QuestionTypeCodeEssay:
		return "Essay"
	default:
		return "Multiple Choice"
	}
}
