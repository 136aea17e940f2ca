package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/draft"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/middleware"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/repository"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/response"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/service"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/validator"
)

// DraftHandler exposes the draft session API: every edit operation mutates a
// server-held draft and returns the refreshed snapshot so the UI never
// re-derives ordering or validation state on its own.
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// OpenDraft godoc
// POST /api/v1/backoffice/drafts
// Opens a draft session: create mode without a body, edit mode with
// {"assignment_id": N}.
func (h *DraftHandler) OpenDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.OpenDraftRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	id, store, err := h.draftService.Open(c.Request.Context(), claims.UserID, req.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"draft_id": id,
		"draft":    store.Snapshot(),
	})
}

// GetDraft godoc
// GET /api/v1/backoffice/drafts/:draft_id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// DiscardDraft godoc
// DELETE /api/v1/backoffice/drafts/:draft_id
func (h *DraftHandler) DiscardDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	id, err := uuid.Parse(c.Param("draft_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.draftService.Discard(id, claims.UserID); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrDraftNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"discarded": true})
}

// UpdateMeta godoc
// PATCH /api/v1/backoffice/drafts/:draft_id
// Edits draft metadata; absent fields are left untouched.
func (h *DraftHandler) UpdateMeta(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	var req model.UpdateAssignmentMetaRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	store.SetMeta(&req)
	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// AddQuestion godoc
// POST /api/v1/backoffice/drafts/:draft_id/questions
func (h *DraftHandler) AddQuestion(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	q := store.AddQuestion()
	response.Success(c, http.StatusCreated, gin.H{
		"question": q,
		"draft":    store.Snapshot(),
	})
}

// DuplicateQuestion godoc
// POST /api/v1/backoffice/drafts/:draft_id/questions/:index/duplicate
// Clones a question only when the source passes validation; otherwise the
// draft is left untouched and the source's errors are surfaced.
func (h *DraftHandler) DuplicateQuestion(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}
	clone, err := store.DuplicateQuestion(idx)
	if err != nil {
		h.failDraftError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"question": clone,
		"draft":    store.Snapshot(),
	})
}

// DeleteQuestion godoc
// DELETE /api/v1/backoffice/drafts/:draft_id/questions/:index
func (h *DraftHandler) DeleteQuestion(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}
	if err := store.DeleteQuestion(idx); err != nil {
		h.failDraftError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// PatchQuestion godoc
// PATCH /api/v1/backoffice/drafts/:draft_id/questions/:index
// Applies field-level edits. Type changes reseed the answer list per the
// question-type rules; order changes swap with the occupant of the target
// position.
func (h *DraftHandler) PatchQuestion(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}

	var req model.PatchQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if req.QuestionType != nil {
		if err := store.SetQuestionType(idx, model.QuestionType(*req.QuestionType)); err != nil {
			h.failDraftError(c, err)
			return
		}
	}
	if req.Text != nil {
		if err := store.SetQuestionText(idx, *req.Text); err != nil {
			h.failDraftError(c, err)
			return
		}
	}
	if req.Points != nil {
		if err := store.SetQuestionPoints(idx, *req.Points); err != nil {
			h.failDraftError(c, err)
			return
		}
	}
	if req.Required != nil {
		if err := store.SetQuestionRequired(idx, *req.Required); err != nil {
			h.failDraftError(c, err)
			return
		}
	}
	if req.Order != nil {
		if err := store.ReorderQuestion(idx, *req.Order); err != nil {
			h.failDraftError(c, err)
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// AddAnswer godoc
// POST /api/v1/backoffice/drafts/:draft_id/questions/:index/answers
func (h *DraftHandler) AddAnswer(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}
	answer, err := store.AddAnswer(idx)
	if err != nil {
		h.failDraftError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"answer": answer,
		"draft":  store.Snapshot(),
	})
}

// DeleteAnswer godoc
// DELETE /api/v1/backoffice/drafts/:draft_id/questions/:index/answers/:answer_index
func (h *DraftHandler) DeleteAnswer(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}
	answerIdx, ok := pathIndex(c, "answer_index")
	if !ok {
		return
	}
	if err := store.DeleteAnswer(idx, answerIdx); err != nil {
		h.failDraftError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// PatchAnswer godoc
// PATCH /api/v1/backoffice/drafts/:draft_id/questions/:index/answers/:answer_index
func (h *DraftHandler) PatchAnswer(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}
	answerIdx, ok := pathIndex(c, "answer_index")
	if !ok {
		return
	}

	var req model.PatchAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := store.SetAnswerText(idx, answerIdx, req.Text); err != nil {
		h.failDraftError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// MarkCorrectAnswer godoc
// PUT /api/v1/backoffice/drafts/:draft_id/questions/:index/correct-answer
// Designates exactly one answer as correct. A blank answer is rejected and
// flagged in place.
func (h *DraftHandler) MarkCorrectAnswer(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}

	var req model.MarkCorrectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := store.SetCorrectAnswer(idx, *req.AnswerIndex); err != nil {
		h.failDraftError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// UploadMedia godoc
// POST /api/v1/backoffice/drafts/:draft_id/questions/:index/media
// Multipart upload. An optional media_index form field replaces an existing
// attachment instead of appending.
func (h *DraftHandler) UploadMedia(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	var replaceIdx *int
	if raw := c.PostForm("media_index"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		replaceIdx = &n
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer src.Close()

	item, err := store.UploadMedia(c.Request.Context(), idx, replaceIdx, draft.File{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     src,
	})
	if err != nil {
		h.failDraftError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"media": item,
		"draft": store.Snapshot(),
	})
}

// DeleteMedia godoc
// DELETE /api/v1/backoffice/drafts/:draft_id/questions/:index/media/:media_index
func (h *DraftHandler) DeleteMedia(c *gin.Context) {
	store, idx, ok := h.storeWithIndex(c)
	if !ok {
		return
	}
	mediaIdx, ok := pathIndex(c, "media_index")
	if !ok {
		return
	}
	if err := store.DeleteMedia(idx, mediaIdx); err != nil {
		h.failDraftError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": store.Snapshot()})
}

// ValidateDraft godoc
// GET /api/v1/backoffice/drafts/:draft_id/validate
// Runs full validation, marking every active question touched, and returns
// the aggregate result.
func (h *DraftHandler) ValidateDraft(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	result := store.Validate()
	// The gate also covers in-flight uploads, so "valid" and "can_submit"
	// can disagree while media is still uploading.
	response.Success(c, http.StatusOK, gin.H{
		"valid":      result.OK(),
		"can_submit": store.CheckGate() == nil,
		"result":     result,
		"draft":      store.Snapshot(),
	})
}

// SubmitDraft godoc
// POST /api/v1/backoffice/drafts/:draft_id/submit
// Reconciles the draft into the assignment store. Blocked while uploads are
// in flight or validation fails; on success the session is gone.
func (h *DraftHandler) SubmitDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	id, err := uuid.Parse(c.Param("draft_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assignmentID, err := h.draftService.Submit(c.Request.Context(), id, claims.UserID)
	if err != nil {
		h.failDraftError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment_id": assignmentID})
}

// store resolves the draft session from the path and the caller's claims.
func (h *DraftHandler) store(c *gin.Context) (*draft.Store, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	id, err := uuid.Parse(c.Param("draft_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, false
	}
	store, err := h.draftService.Get(id, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrDraftNotFound)
		return nil, false
	}
	return store, true
}

func (h *DraftHandler) storeWithIndex(c *gin.Context) (*draft.Store, int, bool) {
	store, ok := h.store(c)
	if !ok {
		return nil, 0, false
	}
	idx, ok := pathIndex(c, "index")
	if !ok {
		return nil, 0, false
	}
	return store, idx, true
}

func pathIndex(c *gin.Context, param string) (int, bool) {
	idx, err := strconv.Atoi(c.Param(param))
	if err != nil || idx < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrIndexOutOfRange)
		return 0, false
	}
	return idx, true
}

// failDraftError maps draft engine sentinels onto the API error vocabulary.
func (h *DraftHandler) failDraftError(c *gin.Context, err error) {
	var vErr *draft.ValidationFailedError
	if errors.As(err, &vErr) {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrDraftInvalid, vErr.Result.MetaErrors)
		return
	}

	switch {
	case errors.Is(err, service.ErrDraftNotFound), errors.Is(err, draft.ErrClosed):
		response.Fail(c, http.StatusNotFound, response.ErrDraftNotFound)
	case errors.Is(err, draft.ErrIndexOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrIndexOutOfRange)
	case errors.Is(err, draft.ErrQuestionDeleted):
		response.Fail(c, http.StatusConflict, response.ErrQuestionDeleted)
	case errors.Is(err, draft.ErrSourceInvalid):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrSourceInvalid)
	case errors.Is(err, draft.ErrLastAnswer):
		response.Fail(c, http.StatusConflict, response.ErrLastAnswer)
	case errors.Is(err, draft.ErrBlankAnswerCorrect):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrBlankAnswerCorrect)
	case errors.Is(err, draft.ErrUploadInFlight):
		response.Fail(c, http.StatusConflict, response.ErrUploadInFlight)
	case errors.Is(err, draft.ErrFileTooLarge), errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
	case errors.Is(err, draft.ErrUploadFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrUploadFailed)
	case errors.Is(err, draft.ErrSubmitFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrSubmitFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
