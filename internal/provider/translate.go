package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Google Translate client
// Uses the public translate_a/single endpoint (no key required). The
// response is a nested array: element 0 is a list of segments, each
// segment's first field the translated fragment. Multi-sentence input
// comes back as multiple segments that must be joined in order.
// ---------------------------------------------------------------------------

const defaultTranslateBaseURL = "https://translate.googleapis.com"

type GoogleTranslator struct {
	baseURL string
	client  *http.Client
}

// Ensure GoogleTranslator implements Translator at compile time.
var _ Translator = (*GoogleTranslator)(nil)

// NewGoogleTranslator creates a translator against the public Google
// endpoint. baseURL overrides the endpoint when non-empty (tests).
func NewGoogleTranslator(baseURL string) *GoogleTranslator {
	if baseURL == "" {
		baseURL = defaultTranslateBaseURL
	}
	return &GoogleTranslator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Translate fetches a translation and reconstructs the full text from
// all returned segments.
func (t *GoogleTranslator) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", sourceCode)
	params.Set("tl", targetCode)
	params.Set("dt", "t")
	params.Set("q", text)

	reqURL := fmt.Sprintf("%s/translate_a/single?%s", t.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", &TranslateError{Message: "failed to create request", Cause: err}
	}
	// The endpoint sometimes blocks requests without a browser UA
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &TranslateError{Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &TranslateError{
			Message:    fmt.Sprintf("returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TranslateError{Message: "failed to read response", Cause: err}
	}

	translated, err := joinSegments(body)
	if err != nil {
		return "", err
	}

	return translated, nil
}

// joinSegments extracts all translated fragments from the nested-array
// payload and concatenates them in order. Segments whose first field is
// not a string (trailing metadata entries) are skipped.
func joinSegments(body []byte) (string, error) {
	var doc []json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil || len(doc) == 0 {
		return "", &ShapeError{Op: "translate", Message: "response is not a non-empty array"}
	}

	var segments [][]interface{}
	if err := json.Unmarshal(doc[0], &segments); err != nil {
		return "", &ShapeError{Op: "translate", Message: "first element is not a segment list"}
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if fragment, ok := seg[0].(string); ok {
			sb.WriteString(fragment)
		}
	}

	if sb.Len() == 0 {
		return "", &ShapeError{Op: "translate", Message: "no translated segments in response"}
	}

	return sb.String(), nil
}
