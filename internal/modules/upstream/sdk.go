package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"

	"github.com/vidsum/core/internal/models"
)

// sdkClient runs OpenAI and Anthropic models through their native SDKs.
// These backends cannot ingest a video URL, so video requests fall back
// to a text prompt built from the video metadata; transcript mode is the
// intended use.
type sdkClient struct {
	model jetapi.LanguageModel
	id    string
}

func newSDKClient(apiKey, modelID string) (*sdkClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("no API key configured")
	}

	if strings.HasPrefix(modelID, "claude-") {
		client := anthropicclient.NewClient(
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		)
		model := jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client))
		return &sdkClient{model: model, id: modelID}, nil
	}

	client := openaiclient.NewClient(
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	)
	model := jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client))
	return &sdkClient{model: model, id: modelID}, nil
}

func videoFallbackPrompt(video models.VideoReference, prompt string) string {
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nVideo: ")
	if video.Title != "" {
		b.WriteString(video.Title)
		b.WriteString(" — ")
	}
	b.WriteString(video.URL)
	b.WriteString("\nSummarize based on what is publicly known about this video.")
	return b.String()
}

func (c *sdkClient) SummarizeVideo(ctx context.Context, video models.VideoReference, prompt string) (string, error) {
	return c.generate(ctx, videoFallbackPrompt(video, prompt))
}

func (c *sdkClient) SummarizeVideoStream(ctx context.Context, video models.VideoReference, prompt string, onToken func(string)) (string, error) {
	return c.generateStream(ctx, videoFallbackPrompt(video, prompt), onToken)
}

func (c *sdkClient) SummarizeTranscript(ctx context.Context, transcript, prompt string) (string, error) {
	return c.generate(ctx, prompt+"\n\nTranscript:\n"+transcript)
}

func (c *sdkClient) TestConnection(ctx context.Context) bool {
	out, err := c.generate(ctx, "Say OK")
	return err == nil && strings.TrimSpace(out) != ""
}

func (c *sdkClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(c.model),
	)
	if err != nil {
		return "", err
	}
	return extractText(resp)
}

func (c *sdkClient) generateStream(ctx context.Context, prompt string, onToken func(string)) (string, error) {
	streamResp, err := jetai.StreamText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(c.model),
	)
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for event := range streamResp.Stream {
		switch evt := event.(type) {
		case *jetapi.TextDeltaEvent:
			if evt.TextDelta == "" {
				continue
			}
			full.WriteString(evt.TextDelta)
			if onToken != nil {
				onToken(evt.TextDelta)
			}
		case *jetapi.ErrorEvent:
			if evt.Err == nil {
				return "", errors.New("stream returned an unknown error")
			}
			return "", fmt.Errorf("%v", evt.Err)
		}
	}

	result := full.String()
	if strings.TrimSpace(result) == "" {
		return "", errors.New("empty response from model")
	}
	return result, nil
}

func extractText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from model")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
