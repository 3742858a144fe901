package models

// Enums

// JobStatus tracks a synthesis job from submission to terminal state.
// Values past "submitted" come straight from the CreoleCentric API, so
// unknown provider statuses pass through verbatim.
type JobStatus string

const (
	StatusIdle       JobStatus = "idle"
	StatusSubmitted  JobStatus = "submitted"
	StatusProcessing JobStatus = "processing"
	StatusDelivered  JobStatus = "delivered"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further provider polling should happen
// for the current job.
func (s JobStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// Provider catalog types

type Voice struct {
	VoiceID string `json:"voice_id"`
	Name    string `json:"name,omitempty"`
}

type VoiceCatalog struct {
	Voices []Voice `json:"voices"`
}

type Model struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type ModelCatalog struct {
	Models []Model `json:"models"`
}

// Submission is the provider's answer to a successful job submission.
type Submission struct {
	JobID  string
	Status JobStatus
}

// JobState is one poll result from the provider.
type JobState struct {
	Status   JobStatus
	AudioURL string
}

// JobSnapshot is the tracker's read-only view of the current job.
// JobID and AudioURL are empty strings when unset.
type JobSnapshot struct {
	JobID    string
	Status   JobStatus
	AudioURL string
}

// DTOs for API requests and responses

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

type TranslateResponse struct {
	Success     bool   `json:"success"`
	Translation string `json:"translation"`
}

type SubmitTTSRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id,omitempty"`
	ModelID string `json:"model_id,omitempty"`
}

type SubmitTTSResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
}

// StatusResponse is the polling contract: always 200, jobId explicitly
// null before any submission.
type StatusResponse struct {
	Status   JobStatus `json:"status"`
	JobID    *string   `json:"jobId"`
	AudioURL *string   `json:"audio_url,omitempty"`
	Error    string    `json:"error,omitempty"`
}

type VoicesResponse struct {
	Success bool          `json:"success"`
	Voices  *VoiceCatalog `json:"voices"`
	Models  *ModelCatalog `json:"models"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
