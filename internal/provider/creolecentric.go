package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reservalexis/creolespeak/internal/models"
)

// ---------------------------------------------------------------------------
// CreoleCentric Text-to-Speech client
// Asynchronous job API: POST /tts/jobs/ returns a job id, the caller
// polls GET /tts/jobs/{id}/status/ until the job is delivered or failed.
// All requests authenticate with "Authorization: ApiKey <key>".
// ---------------------------------------------------------------------------

const (
	defaultCreoleCentricBaseURL = "https://api.creolecentric.com/v1"

	// Fallback identifiers used when the catalogs are unavailable
	defaultVoiceID = "voice_1"
	defaultModelID = "model_1"

	// Catalog entries with this prefix are placeholder voices; real
	// voices are preferred during auto-selection.
	placeholderVoicePrefix = "voice_"
)

type CreoleCentricClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Ensure CreoleCentricClient implements TTSClient at compile time.
var _ TTSClient = (*CreoleCentricClient)(nil)

// NewCreoleCentricClient creates a TTS client. baseURL overrides the
// production endpoint when non-empty (tests).
func NewCreoleCentricClient(baseURL, apiKey string) *CreoleCentricClient {
	if baseURL == "" {
		baseURL = defaultCreoleCentricBaseURL
	}
	return &CreoleCentricClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// ListVoicesAndModels fetches both catalogs concurrently. Each fetch is
// independently best-effort: a failed leg is logged and returned as nil
// so the caller can degrade gracefully.
func (c *CreoleCentricClient) ListVoicesAndModels(ctx context.Context) (*models.VoiceCatalog, *models.ModelCatalog) {
	var (
		voices  *models.VoiceCatalog
		catalog *models.ModelCatalog
	)

	// Plain errgroup without a derived context: one leg failing must
	// not cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		v, err := c.fetchVoices(ctx)
		if err != nil {
			log.Printf("[CreoleCentric] voices fetch failed: %v", err)
			return nil
		}
		voices = v
		return nil
	})
	g.Go(func() error {
		m, err := c.fetchModels(ctx)
		if err != nil {
			log.Printf("[CreoleCentric] models fetch failed: %v", err)
			return nil
		}
		catalog = m
		return nil
	})
	_ = g.Wait()

	return voices, catalog
}

func (c *CreoleCentricClient) fetchVoices(ctx context.Context) (*models.VoiceCatalog, error) {
	var catalog models.VoiceCatalog
	if err := c.getJSON(ctx, "/tts/voices/", &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *CreoleCentricClient) fetchModels(ctx context.Context) (*models.ModelCatalog, error) {
	var catalog models.ModelCatalog
	if err := c.getJSON(ctx, "/tts/models/", &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *CreoleCentricClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type submitJobRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	ModelID string `json:"model_id"`
}

type submitJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SubmitJob posts a synthesis job. When voiceID or modelID is empty the
// provider's catalogs are consulted; placeholder voices are skipped in
// favor of the first real one.
func (c *CreoleCentricClient) SubmitJob(ctx context.Context, text, voiceID, modelID string) (*models.Submission, error) {
	if voiceID == "" || modelID == "" {
		voices, catalog := c.ListVoicesAndModels(ctx)
		if voiceID == "" {
			voiceID = chooseVoice(voices)
		}
		if modelID == "" {
			modelID = chooseModel(catalog)
		}
	}

	reqBody := submitJobRequest{
		Text:    text,
		VoiceID: voiceID,
		ModelID: modelID,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/tts/jobs/", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	log.Printf("[CreoleCentric] Submitting job (voice=%s, model=%s, textLen=%d)", voiceID, modelID, len(text))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job submission request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result submitJobResponse
	if err := json.Unmarshal(body, &result); err != nil || result.ID == "" {
		return nil, &ShapeError{Op: "submit", Message: "response missing job id"}
	}

	status := models.JobStatus(result.Status)
	if status == "" {
		status = models.StatusProcessing
	}

	log.Printf("[CreoleCentric] Job submitted (id=%s, status=%s)", result.ID, status)

	return &models.Submission{JobID: result.ID, Status: status}, nil
}

type jobStatusResponse struct {
	Status       string `json:"status"`
	AudioFileURL string `json:"audio_file_url"`
	AudioURL     string `json:"audio_url"`
}

// PollJob fetches the current job state. The provider's status is
// passed through verbatim; the audio location is taken from whichever
// of the two known field names is populated first.
func (c *CreoleCentricClient) PollJob(ctx context.Context, jobID string) (*models.JobState, error) {
	url := fmt.Sprintf("%s/tts/jobs/%s/status/", c.baseURL, jobID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &StatusError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &StatusError{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Message:    fmt.Sprintf("returned status %d: %s", resp.StatusCode, string(body)),
			StatusCode: resp.StatusCode,
		}
	}

	var result jobStatusResponse
	if err := json.Unmarshal(body, &result); err != nil || result.Status == "" {
		return nil, &ShapeError{Op: "status", Message: "response missing status"}
	}

	audioURL := result.AudioFileURL
	if audioURL == "" {
		audioURL = result.AudioURL
	}

	return &models.JobState{
		Status:   models.JobStatus(result.Status),
		AudioURL: audioURL,
	}, nil
}

// chooseVoice prefers the first catalog voice that is not a placeholder,
// then the first voice, then the fixed default.
func chooseVoice(catalog *models.VoiceCatalog) string {
	if catalog == nil || len(catalog.Voices) == 0 {
		return defaultVoiceID
	}
	for _, v := range catalog.Voices {
		if v.VoiceID != "" && !strings.HasPrefix(v.VoiceID, placeholderVoicePrefix) {
			return v.VoiceID
		}
	}
	if catalog.Voices[0].VoiceID != "" {
		return catalog.Voices[0].VoiceID
	}
	return defaultVoiceID
}

// chooseModel takes the first catalog model, falling back to the fixed
// default.
func chooseModel(catalog *models.ModelCatalog) string {
	if catalog == nil || len(catalog.Models) == 0 || catalog.Models[0].ID == "" {
		return defaultModelID
	}
	return catalog.Models[0].ID
}
