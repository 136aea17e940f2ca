package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/service"
)

const DraftReapInterval = 1 * time.Minute

// DraftReaperWorker tears down draft sessions nobody has touched within the
// configured TTL, releasing their live preview handles.
type DraftReaperWorker struct {
	draftService *service.DraftService
	log          zerolog.Logger
}

// NewDraftReaperWorker creates a new DraftReaperWorker.
func NewDraftReaperWorker(draftService *service.DraftService, log zerolog.Logger) *DraftReaperWorker {
	return &DraftReaperWorker{
		draftService: draftService,
		log:          log.With().Str("component", "draft_reaper").Logger(),
	}
}

func (w *DraftReaperWorker) Start(ctx context.Context) {
	w.log.Info().Msg("DraftReaperWorker started")

	ticker := time.NewTicker(DraftReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return
		case <-ticker.C:
			if reaped := w.draftService.ReapIdle(); reaped > 0 {
				w.log.Info().Int("reaped", reaped).Msg("Idle draft sessions reaped")
			}
		}
	}
}
