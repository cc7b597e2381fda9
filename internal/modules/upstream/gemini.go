package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vidsum/core/internal/models"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// geminiClient talks to the Gemini REST API. It is the only backend that
// accepts a video URL directly, via a fileData part.
type geminiClient struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
}

func newGeminiClient(apiKey, model string) (*geminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("no API key configured")
	}
	if strings.TrimSpace(model) == "" {
		model = models.DefaultModel
	}
	return &geminiClient{
		apiKey:   strings.TrimSpace(apiKey),
		model:    strings.TrimSpace(model),
		endpoint: defaultGeminiEndpoint,
		http:     &http.Client{Timeout: 10 * time.Minute},
	}, nil
}

type geminiPart struct {
	Text     string          `json:"text,omitempty"`
	FileData *geminiFileData `json:"fileData,omitempty"`
}

type geminiFileData struct {
	FileURI string `json:"fileUri"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func videoParts(video models.VideoReference, prompt string) []geminiPart {
	return []geminiPart{
		{FileData: &geminiFileData{FileURI: video.URL}},
		{Text: prompt},
	}
}

func (c *geminiClient) SummarizeVideo(ctx context.Context, video models.VideoReference, prompt string) (string, error) {
	return c.generate(ctx, videoParts(video, prompt))
}

func (c *geminiClient) SummarizeVideoStream(ctx context.Context, video models.VideoReference, prompt string, onToken func(string)) (string, error) {
	return c.generateStream(ctx, videoParts(video, prompt), onToken)
}

func (c *geminiClient) SummarizeTranscript(ctx context.Context, transcript, prompt string) (string, error) {
	return c.generate(ctx, []geminiPart{
		{Text: prompt + "\n\nTranscript:\n" + transcript},
	})
}

func (c *geminiClient) TestConnection(ctx context.Context) bool {
	out, err := c.generate(ctx, []geminiPart{{Text: "Say OK"}})
	return err == nil && strings.TrimSpace(out) != ""
}

func (c *geminiClient) generate(ctx context.Context, parts []geminiPart) (string, error) {
	body, _ := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	})

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", geminiError(resp.StatusCode, respBody)
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("%d %s: %s", result.Error.Code, result.Error.Status, result.Error.Message)
	}

	text := collectGeminiText(result)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

func (c *geminiClient) generateStream(ctx context.Context, parts []geminiPart, onToken func(string)) (string, error) {
	body, _ := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	})

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(resp.Body)
		return "", geminiError(resp.StatusCode, respBody)
	}

	var full strings.Builder
	buf := make([]byte, 4096)
	remainder := ""

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			chunk := remainder + string(buf[:n])
			remainder = ""
			lines := splitLines(chunk)
			for i, line := range lines {
				if i == len(lines)-1 && readErr == nil {
					remainder = line
					continue
				}
				line = strings.TrimSpace(line)
				if !strings.HasPrefix(line, "data:") {
					continue
				}
				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				if data == "" || data == "[DONE]" {
					continue
				}

				var event geminiResponse
				if err2 := json.Unmarshal([]byte(data), &event); err2 != nil {
					continue
				}
				if event.Error != nil {
					return "", fmt.Errorf("%d %s: %s", event.Error.Code, event.Error.Status, event.Error.Message)
				}

				token := collectGeminiText(event)
				if token == "" {
					continue
				}
				full.WriteString(token)
				if onToken != nil {
					onToken(token)
				}
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", readErr
		}
	}

	result := full.String()
	if strings.TrimSpace(result) == "" {
		return "", errors.New("empty response from model")
	}
	return result, nil
}

func collectGeminiText(resp geminiResponse) string {
	var full strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			full.WriteString(part.Text)
		}
	}
	return full.String()
}

// geminiError keeps the upstream status and message in the error text so
// the failure classifier can recognize 401/429 responses.
func geminiError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error.Message) != "" {
		return fmt.Errorf("%d %s: %s", status, payload.Error.Status, payload.Error.Message)
	}
	return fmt.Errorf("%d: %s", status, strings.TrimSpace(string(body)))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
