// Package convai talks to the conversational backend that plays the scenario
// persona.
package convai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/interview-sim/backend/internal/analysis/emotion"
	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
)

// DefaultURL is the character response endpoint.
const DefaultURL = "https://api.convai.com/character/getResponse"

// EmotionFields lists the response fields that may carry emotion weights, in
// priority order. The first one present wins.
var EmotionFields = []string{"emotion_scores", "emotion", "emotions"}

// maxResponseBytes bounds the body read; voice replies embed base64 audio.
const maxResponseBytes = 16 << 20

// Request is one exchange with the persona.
type Request struct {
	UserText      string
	CharacterID   string
	SessionID     string
	VoiceResponse bool
}

// Response is the decoded reply.
type Response struct {
	Text        string
	SessionID   string
	CharacterID string
	Audio       string
	Emotion     chat.Emotion
}

// Config configures the HTTP client.
type Config struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// Client calls the character response endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// NewClient builds a Client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	return &Client{httpClient: httpClient, url: url, apiKey: cfg.APIKey}
}

// Exchange posts the user text and decodes the persona reply.
func (c *Client) Exchange(ctx context.Context, req Request) (*Response, error) {
	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, fmt.Errorf("encode convai request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("build convai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("CONVAI-API-KEY", c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("convai request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read convai response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("convai responded with status %d", resp.StatusCode)
	}

	decoded, err := decodeResponse(raw)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("component", "convai").
		Str("session_id", decoded.SessionID).
		Str("character_id", req.CharacterID).
		Int("text_len", len(decoded.Text)).
		Bool("emotion", decoded.Emotion != nil).
		Dur("elapsed", time.Since(started)).
		Msg("exchange completed")
	return decoded, nil
}

func encodeForm(req Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"userText", req.UserText},
		{"charID", req.CharacterID},
		{"sessionID", req.SessionID},
		{"voiceResponse", strconv.FormatBool(req.VoiceResponse)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func decodeResponse(raw []byte) (*Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode convai response: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("decode convai response: empty body")
	}

	resp := &Response{}
	for name, dst := range map[string]*string{
		"text":         &resp.Text,
		"sessionID":    &resp.SessionID,
		"character_id": &resp.CharacterID,
		"audio":        &resp.Audio,
	} {
		value, ok := fields[name]
		if !ok || isNull(value) {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return nil, fmt.Errorf("decode convai field %s: %w", name, err)
		}
	}

	resp.Emotion = pickEmotion(fields)
	return resp, nil
}

// pickEmotion takes the first present emotion field. A present but
// unreadable field counts as no signal rather than an error.
func pickEmotion(fields map[string]json.RawMessage) chat.Emotion {
	for _, name := range EmotionFields {
		value, ok := fields[name]
		if !ok || isNull(value) {
			continue
		}
		var weights map[string]float64
		if err := json.Unmarshal(value, &weights); err != nil {
			log.Warn().Str("component", "convai").Str("field", name).Err(err).Msg("ignoring unreadable emotion payload")
			return nil
		}
		return emotion.Normalize(weights)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
