package docgensvc

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/services/docgen/prompts"
)

var ErrEmptyResponse = errors.New("model returned no content")

// genBackoff spaces out retries on rate limits and transient API failures.
var genBackoff = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

type geminiService struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	prompts *prompts.PromptBuilder
	logger  core.Logger
}

var _ core.DocumentGenerator = (*geminiService)(nil)

func NewGeminiService(ctx context.Context, conf *core.Config, logger core.Logger) (*geminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(conf.GeminiApiKey))
	if err != nil {
		return nil, errors.Wrap(err, "initializing Gemini client")
	}

	model := client.GenerativeModel(conf.GeminiModel)
	temp := float32(0.4)
	model.Temperature = &temp

	return &geminiService{
		client:  client,
		model:   model,
		prompts: prompts.NewPromptBuilder(conf.AppName),
		logger:  logger,
	}, nil
}

func (svc *geminiService) Close() error { return svc.client.Close() }

func (svc *geminiService) MeetingMinutes(ctx context.Context, req core.MinutesRequest) (string, error) {
	prompt := svc.prompts.BuildMinutesPrompt(req.Title, req.MeetingDate, req.Attendees, req.Transcript)
	return svc.generate(ctx, prompt)
}

func (svc *geminiService) OfficialLetter(ctx context.Context, req core.LetterRequest) (string, error) {
	prompt := svc.prompts.BuildLetterPrompt(req.Kind, req.Number, req.Recipient, req.Subject, req.Points)
	return svc.generate(ctx, prompt)
}

func (svc *geminiService) DailyBriefing(ctx context.Context, req core.BriefingRequest) (string, error) {
	prompt := svc.prompts.BuildBriefingPrompt(req.Date, req.Items)
	return svc.generate(ctx, prompt)
}

func (svc *geminiService) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for i, wait := range genBackoff {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		resp, err := svc.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			if !isRateLimitError(err) {
				svc.logger.Warn("document generation attempt failed", map[string]interface{}{"attempt": i + 1, "error": err.Error()})
			}
			time.Sleep(wait)
			continue
		}

		text, err := extractText(resp)
		if err != nil {
			lastErr = err
			time.Sleep(wait)
			continue
		}
		return text, nil
	}

	return "", errors.Wrap(lastErr, "generating document")
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota exceeded")
}
