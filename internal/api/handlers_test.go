package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reservalexis/creolespeak/internal/cache"
	"github.com/reservalexis/creolespeak/internal/config"
	"github.com/reservalexis/creolespeak/internal/jobs"
	"github.com/reservalexis/creolespeak/internal/models"
	"github.com/reservalexis/creolespeak/internal/provider"
)

// Fakes

type fakeTranslator struct {
	calls      int
	lastSource string
	lastTarget string
	result     string
	err        error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	f.calls++
	f.lastSource = sourceCode
	f.lastTarget = targetCode
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeTTS struct {
	listCalls   int
	voices      *models.VoiceCatalog
	modelsReply *models.ModelCatalog

	submitCalls int
	submission  *models.Submission
	submitErr   error

	pollCalls  int
	pollStates []models.JobState
	pollErr    error
}

func (f *fakeTTS) ListVoicesAndModels(ctx context.Context) (*models.VoiceCatalog, *models.ModelCatalog) {
	f.listCalls++
	return f.voices, f.modelsReply
}

func (f *fakeTTS) SubmitJob(ctx context.Context, text, voiceID, modelID string) (*models.Submission, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submission, nil
}

func (f *fakeTTS) PollJob(ctx context.Context, jobID string) (*models.JobState, error) {
	f.pollCalls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	state := f.pollStates[0]
	if len(f.pollStates) > 1 {
		f.pollStates = f.pollStates[1:]
	}
	return &state, nil
}

func newTestHandler(tr *fakeTranslator, tts *fakeTTS) *Handler {
	cfg := &config.Config{
		CreoleCentricAPIKey: "cc_real_key",
		CreoleCentricUserID: "someone@example.com",
	}
	return NewHandler(cfg, tr, tts, jobs.NewTracker(), cache.NewMemoryCache(0))
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON response: %v (%s)", err, rec.Body.String())
	}
	return rec, payload
}

// Translate

func TestTranslateLanguageMapping(t *testing.T) {
	cases := []struct {
		source  string
		target  string
		wantSrc string
		wantTgt string
	}{
		{"English", "Creole", "en", "ht"},
		{"Spanish", "English", "es", "en"},
		{"Creole", "Spanish", "ht", "es"},
		{"French", "Creole", "french", "ht"}, // unmapped names fall back to lowercase
	}

	for _, c := range cases {
		tr := &fakeTranslator{result: "Bonjou"}
		h := newTestHandler(tr, &fakeTTS{})

		body := `{"text":"Hello","sourceLang":"` + c.source + `","targetLang":"` + c.target + `"}`
		rec, payload := doJSON(t, h.Translate, "POST", body)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s->%s: status %d", c.source, c.target, rec.Code)
		}
		if tr.lastSource != c.wantSrc || tr.lastTarget != c.wantTgt {
			t.Errorf("%s->%s: sent codes %s->%s, want %s->%s",
				c.source, c.target, tr.lastSource, tr.lastTarget, c.wantSrc, c.wantTgt)
		}
		if payload["translation"] != "Bonjou" {
			t.Errorf("translation = %v", payload["translation"])
		}
	}
}

func TestTranslateMissingFields(t *testing.T) {
	h := newTestHandler(&fakeTranslator{}, &fakeTTS{})

	for _, body := range []string{
		`{"sourceLang":"English","targetLang":"Creole"}`,
		`{"text":"Hello","targetLang":"Creole"}`,
		`{"text":"Hello","sourceLang":"English"}`,
	} {
		rec, payload := doJSON(t, h.Translate, "POST", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status %d, want 400", body, rec.Code)
		}
		if payload["success"] != false {
			t.Errorf("body %s: success = %v", body, payload["success"])
		}
	}
}

func TestTranslateCacheHit(t *testing.T) {
	tr := &fakeTranslator{result: "Bonjou"}
	h := newTestHandler(tr, &fakeTTS{})

	body := `{"text":"Hello","sourceLang":"English","targetLang":"Creole"}`
	doJSON(t, h.Translate, "POST", body)
	_, payload := doJSON(t, h.Translate, "POST", body)

	if tr.calls != 1 {
		t.Fatalf("provider calls = %d, want 1 (second request should hit the cache)", tr.calls)
	}
	if payload["translation"] != "Bonjou" {
		t.Fatalf("cached translation = %v", payload["translation"])
	}
}

func TestTranslateProviderFailure(t *testing.T) {
	tr := &fakeTranslator{err: &provider.TranslateError{Message: "returned status 503", StatusCode: 503}}
	h := newTestHandler(tr, &fakeTTS{})

	rec, payload := doJSON(t, h.Translate, "POST",
		`{"text":"Hello","sourceLang":"English","targetLang":"Creole"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if payload["success"] != false {
		t.Fatal("expected success:false")
	}
}

// Submit

func TestSubmitRequiresText(t *testing.T) {
	tts := &fakeTTS{}
	h := newTestHandler(&fakeTranslator{}, tts)

	rec, _ := doJSON(t, h.SubmitTTS, "POST", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if tts.submitCalls != 0 {
		t.Fatal("validation failure must not reach the provider")
	}
}

func TestSubmitPlaceholderCredentials(t *testing.T) {
	tts := &fakeTTS{}
	cfg := &config.Config{
		CreoleCentricAPIKey: config.PlaceholderAPIKey,
		CreoleCentricUserID: config.PlaceholderUserID,
	}
	h := NewHandler(cfg, &fakeTranslator{}, tts, jobs.NewTracker(), cache.NewMemoryCache(0))

	rec, payload := doJSON(t, h.SubmitTTS, "POST", `{"text":"Bonjou"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if payload["success"] != false || !strings.Contains(payload["error"].(string), "Configuration Error") {
		t.Fatalf("payload = %v", payload)
	}
	if tts.submitCalls != 0 {
		t.Fatal("configuration guard must not reach the provider")
	}

	// The tracker must stay untouched: a follow-up poll reports idle.
	recStatus, statusPayload := doJSON(t, h.CheckStatus, "GET", "")
	if recStatus.Code != http.StatusOK || statusPayload["status"] != "idle" {
		t.Fatalf("status after rejected submit = %v", statusPayload)
	}
}

func TestSubmitProviderRejection(t *testing.T) {
	tts := &fakeTTS{submitErr: &provider.SubmissionError{
		StatusCode: http.StatusPaymentRequired,
		Body:       `{"detail":"quota exceeded"}`,
	}}
	h := newTestHandler(&fakeTranslator{}, tts)

	rec, payload := doJSON(t, h.SubmitTTS, "POST", `{"text":"Bonjou"}`)

	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want provider's 402", rec.Code)
	}
	if payload["success"] != false {
		t.Fatal("expected success:false")
	}
	details, ok := payload["details"].(map[string]interface{})
	if !ok || details["detail"] != "quota exceeded" {
		t.Fatalf("details = %v", payload["details"])
	}

	_, statusPayload := doJSON(t, h.CheckStatus, "GET", "")
	if statusPayload["status"] != "failed" {
		t.Fatalf("tracker status = %v, want failed", statusPayload["status"])
	}
}

// Status polling

func TestCheckStatusIdle(t *testing.T) {
	tts := &fakeTTS{}
	h := newTestHandler(&fakeTranslator{}, tts)

	rec, payload := doJSON(t, h.CheckStatus, "GET", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["status"] != "idle" {
		t.Fatalf("status = %v, want idle", payload["status"])
	}
	if jobID, present := payload["jobId"]; !present || jobID != nil {
		t.Fatalf("jobId = %v, want explicit null", jobID)
	}
	if tts.pollCalls != 0 {
		t.Fatal("idle poll must not contact the provider")
	}
}

// TestJobLifecycle runs submit then three polls: processing, delivered
// with audio, and a cached terminal answer with no provider call.
func TestJobLifecycle(t *testing.T) {
	tts := &fakeTTS{
		submission: &models.Submission{JobID: "job-42", Status: models.StatusProcessing},
		pollStates: []models.JobState{
			{Status: models.StatusProcessing},
			{Status: models.StatusDelivered, AudioURL: "https://x/a.mp3"},
		},
	}
	h := newTestHandler(&fakeTranslator{}, tts)

	rec, payload := doJSON(t, h.SubmitTTS, "POST", `{"text":"Bonjou tout moun"}`)
	if rec.Code != http.StatusOK || payload["jobId"] != "job-42" {
		t.Fatalf("submit payload = %v", payload)
	}

	_, poll1 := doJSON(t, h.CheckStatus, "GET", "")
	if poll1["status"] != "processing" || poll1["jobId"] != "job-42" {
		t.Fatalf("poll 1 = %v", poll1)
	}

	_, poll2 := doJSON(t, h.CheckStatus, "GET", "")
	if poll2["status"] != "delivered" || poll2["audio_url"] != "https://x/a.mp3" {
		t.Fatalf("poll 2 = %v", poll2)
	}

	_, poll3 := doJSON(t, h.CheckStatus, "GET", "")
	if poll3["status"] != "delivered" || poll3["jobId"] != "job-42" || poll3["audio_url"] != "https://x/a.mp3" {
		t.Fatalf("poll 3 = %v", poll3)
	}
	if tts.pollCalls != 2 {
		t.Fatalf("provider polls = %d, want 2 (terminal state must short-circuit)", tts.pollCalls)
	}
}

func TestCheckStatusPollFailure(t *testing.T) {
	tts := &fakeTTS{
		submission: &models.Submission{JobID: "job-9", Status: models.StatusProcessing},
		pollErr:    &provider.StatusError{Message: "returned status 500", StatusCode: 500},
	}
	h := newTestHandler(&fakeTranslator{}, tts)

	doJSON(t, h.SubmitTTS, "POST", `{"text":"Bonjou"}`)

	rec, payload := doJSON(t, h.CheckStatus, "GET", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("poll failure must stay a 200, got %d", rec.Code)
	}
	if payload["status"] != "failed" || payload["jobId"] != "job-9" {
		t.Fatalf("payload = %v", payload)
	}
	if payload["error"] == nil || payload["error"] == "" {
		t.Fatal("expected error detail in payload")
	}

	// failed is terminal: the next poll is served from the snapshot
	doJSON(t, h.CheckStatus, "GET", "")
	if tts.pollCalls != 1 {
		t.Fatalf("provider polls = %d, want 1", tts.pollCalls)
	}
}

// TestResubmitDiscardsTerminalState verifies reset-on-submit: after a
// second submission the first job's terminal state is unreachable.
func TestResubmitDiscardsTerminalState(t *testing.T) {
	tts := &fakeTTS{
		submission: &models.Submission{JobID: "job-1", Status: models.StatusProcessing},
		pollStates: []models.JobState{{Status: models.StatusDelivered, AudioURL: "https://x/one.mp3"}},
	}
	h := newTestHandler(&fakeTranslator{}, tts)

	doJSON(t, h.SubmitTTS, "POST", `{"text":"first"}`)
	doJSON(t, h.CheckStatus, "GET", "")

	tts.submission = &models.Submission{JobID: "job-2", Status: models.StatusProcessing}
	tts.pollStates = []models.JobState{{Status: models.StatusProcessing}}
	doJSON(t, h.SubmitTTS, "POST", `{"text":"second"}`)

	_, payload := doJSON(t, h.CheckStatus, "GET", "")
	if payload["jobId"] != "job-2" {
		t.Fatalf("jobId = %v, want job-2", payload["jobId"])
	}
	if _, present := payload["audio_url"]; present {
		t.Fatalf("first job's audio_url leaked into the new job: %v", payload)
	}
}

// Voices

func TestListVoicesBestEffort(t *testing.T) {
	tts := &fakeTTS{
		voices: &models.VoiceCatalog{Voices: []models.Voice{{VoiceID: "alex"}}},
	}
	h := newTestHandler(&fakeTranslator{}, tts)

	rec, payload := doJSON(t, h.ListVoices, "GET", "")
	if rec.Code != http.StatusOK || payload["success"] != true {
		t.Fatalf("payload = %v", payload)
	}
	if payload["models"] != nil {
		t.Fatalf("models = %v, want null when that fetch failed", payload["models"])
	}
}

func TestListVoicesTotalFailure(t *testing.T) {
	h := newTestHandler(&fakeTranslator{}, &fakeTTS{})

	rec, payload := doJSON(t, h.ListVoices, "GET", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on total failure", rec.Code)
	}
	voices, ok := payload["voices"].(map[string]interface{})
	if !ok {
		t.Fatalf("voices = %v", payload["voices"])
	}
	list, ok := voices["voices"].([]interface{})
	if !ok || len(list) != 0 {
		t.Fatalf("voices list = %v, want empty", voices["voices"])
	}
}
