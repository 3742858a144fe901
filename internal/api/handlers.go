package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/reservalexis/creolespeak/internal/cache"
	"github.com/reservalexis/creolespeak/internal/config"
	"github.com/reservalexis/creolespeak/internal/jobs"
	"github.com/reservalexis/creolespeak/internal/models"
	"github.com/reservalexis/creolespeak/internal/provider"
)

// langCodes maps the human-readable language names the browser sends to
// the provider's two-letter codes. Unmapped names fall back to their
// lowercase form so raw codes keep working.
var langCodes = map[string]string{
	"English": "en",
	"Spanish": "es",
	"Creole":  "ht", // Haitian Creole
}

type Handler struct {
	cfg        *config.Config
	translator provider.Translator
	tts        provider.TTSClient
	tracker    *jobs.Tracker
	cache      cache.Cache
}

func NewHandler(cfg *config.Config, translator provider.Translator, tts provider.TTSClient, tracker *jobs.Tracker, c cache.Cache) *Handler {
	return &Handler{
		cfg:        cfg,
		translator: translator,
		tts:        tts,
		tracker:    tracker,
		cache:      c,
	}
}

// Translate handles POST /api/translate
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req models.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" || req.SourceLang == "" || req.TargetLang == "" {
		respondError(w, http.StatusBadRequest, "Missing text or language parameters.")
		return
	}

	sourceCode := langCode(req.SourceLang)
	targetCode := langCode(req.TargetLang)

	key := cache.Key(req.Text, sourceCode, targetCode)
	if cached, ok := h.cache.Get(key); ok {
		respondJSON(w, http.StatusOK, models.TranslateResponse{Success: true, Translation: cached})
		return
	}

	translated, err := h.translator.Translate(r.Context(), req.Text, sourceCode, targetCode)
	if err != nil {
		log.Printf("[Translate] %s->%s failed: %v", sourceCode, targetCode, err)
		respondError(w, http.StatusInternalServerError, "Translation failed: "+err.Error())
		return
	}

	if err := h.cache.Set(key, translated); err != nil {
		log.Printf("[Translate] cache write failed: %v", err)
	}

	respondJSON(w, http.StatusOK, models.TranslateResponse{Success: true, Translation: translated})
}

// SubmitTTS handles POST /api/submit-tts
func (h *Handler) SubmitTTS(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitTTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Text is required.")
		return
	}

	if h.cfg.HasPlaceholderCredentials() {
		log.Printf("[TTS] rejected submission: CreoleCentric credentials are still placeholders")
		respondError(w, http.StatusInternalServerError,
			"Configuration Error: Please replace the placeholder CreoleCentric credentials with your actual values.")
		return
	}

	// Reset before the provider round trip so a poll arriving
	// mid-submission observes "submitted", not the previous job.
	subID := h.tracker.Reset()
	log.Printf("[TTS] submission %s: submitting job (textLen=%d)", subID, len(req.Text))

	sub, err := h.tts.SubmitJob(r.Context(), req.Text, req.VoiceID, req.ModelID)
	if err != nil {
		h.tracker.RecordPollResult(models.StatusFailed, "")

		var subErr *provider.SubmissionError
		if errors.As(err, &subErr) {
			log.Printf("[TTS] submission %s rejected by provider: HTTP %d", subID, subErr.StatusCode)
			respondJSON(w, subErr.StatusCode, models.ErrorResponse{
				Error:   fmt.Sprintf("API Submission Failed: HTTP Status %d", subErr.StatusCode),
				Details: rawDetails(subErr.Body),
			})
			return
		}

		log.Printf("[TTS] submission %s failed: %v", subID, err)
		respondError(w, http.StatusInternalServerError, "Job submission failed: "+err.Error())
		return
	}

	h.tracker.RecordSubmitted(sub.JobID, sub.Status)
	log.Printf("[TTS] submission %s accepted (jobId=%s, status=%s)", subID, sub.JobID, sub.Status)

	respondJSON(w, http.StatusOK, models.SubmitTTSResponse{Success: true, JobID: sub.JobID})
}

// CheckStatus handles GET /api/check-status
func (h *Handler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	snap := h.tracker.Snapshot()

	if snap.Status == models.StatusIdle {
		respondJSON(w, http.StatusOK, models.StatusResponse{Status: models.StatusIdle, JobID: nil})
		return
	}

	// Terminal jobs and in-flight submissions (no id yet) are answered
	// from the cached snapshot without touching the provider.
	if snap.Status.Terminal() || snap.JobID == "" {
		respondJSON(w, http.StatusOK, snapshotResponse(snap, ""))
		return
	}

	state, err := h.tts.PollJob(r.Context(), snap.JobID)
	if err != nil {
		// Downgraded to a terminal domain status in a 200 response so
		// the client's polling loop stays uniform.
		log.Printf("[TTS] status check for job %s failed: %v", snap.JobID, err)
		h.tracker.RecordPollResult(models.StatusFailed, "")
		respondJSON(w, http.StatusOK, snapshotResponse(h.tracker.Snapshot(), err.Error()))
		return
	}

	h.tracker.RecordPollResult(state.Status, state.AudioURL)
	respondJSON(w, http.StatusOK, snapshotResponse(h.tracker.Snapshot(), ""))
}

// ListVoices handles GET /api/voices
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	voices, catalog := h.tts.ListVoicesAndModels(r.Context())

	// Best-effort contract: total failure still answers 200 with an
	// empty voices collection.
	if voices == nil {
		voices = &models.VoiceCatalog{Voices: []models.Voice{}}
	}

	respondJSON(w, http.StatusOK, models.VoicesResponse{
		Success: true,
		Voices:  voices,
		Models:  catalog,
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helpers

func langCode(name string) string {
	if code, ok := langCodes[name]; ok {
		return code
	}
	return strings.ToLower(name)
}

func snapshotResponse(snap models.JobSnapshot, errMsg string) models.StatusResponse {
	resp := models.StatusResponse{Status: snap.Status, Error: errMsg}
	if snap.JobID != "" {
		resp.JobID = &snap.JobID
	}
	if snap.AudioURL != "" {
		resp.AudioURL = &snap.AudioURL
	}
	return resp
}

// rawDetails keeps provider JSON bodies structured in error payloads
// and falls back to the raw text otherwise.
func rawDetails(body string) interface{} {
	if body == "" {
		return nil
	}
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}
