package provider

import (
	"context"

	"github.com/reservalexis/creolespeak/internal/models"
)

// ---------------------------------------------------------------------------
// Provider interfaces — the handlers depend on these, not on the
// concrete clients, so tests can inject fakes.
// ---------------------------------------------------------------------------

// Translator converts text between two-letter language codes.
type Translator interface {
	Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error)
}

// TTSClient is the CreoleCentric job lifecycle: discover voices,
// submit a job, poll its status.
type TTSClient interface {
	// ListVoicesAndModels fetches both catalogs best-effort; a failed
	// fetch yields nil for that catalog only, never an error.
	ListVoicesAndModels(ctx context.Context) (*models.VoiceCatalog, *models.ModelCatalog)

	// SubmitJob posts a synthesis job. Empty voiceID/modelID trigger
	// auto-selection from the provider's catalogs.
	SubmitJob(ctx context.Context, text, voiceID, modelID string) (*models.Submission, error)

	// PollJob fetches the current status of a submitted job.
	PollJob(ctx context.Context, jobID string) (*models.JobState, error)
}
