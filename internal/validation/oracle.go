package validation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/fieldscope/fieldscope/pkg/formatting"
)

// Oracle obtains relevance judgments from an external scoring service.
// Implementations must never propagate transport or parse failures as raw
// errors; every failure mode resolves to ErrUnavailable.
type Oracle interface {
	ScoreText(ctx context.Context, subject Subject, mission *MissionContext) (*Assessment, error)
	ScoreImage(ctx context.Context, imageURL string, mission *MissionContext) (*ImageAssessment, error)
}

type textResponse struct {
	Score          float64  `json:"score"`
	Reasoning      string   `json:"reasoning"`
	Issues         []string `json:"issues"`
	Recommendation string   `json:"recommendation"`
}

type imageResponse struct {
	Relevant        bool    `json:"relevant"`
	Description     string  `json:"description"`
	MatchesMission  bool    `json:"matchesMission"`
	SpeciesDetected *string `json:"species_detected"`
	Quality         string  `json:"quality"`
	Score           float64 `json:"score"`
}

// ChatOracle is an Oracle backed by an OpenAI-compatible chat completions
// endpoint (Groq in production). Each call carries its own timeout so a
// hung oracle never stalls the background scoring task.
type ChatOracle struct {
	client      *openai.Client
	logger      *slog.Logger
	textModel   string
	visionModel string
	timeout     time.Duration
	enabled     bool
}

// NewChatOracle creates a ChatOracle from the oracle configuration.
func NewChatOracle(cfg *Config, logger *slog.Logger) *ChatOracle {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &ChatOracle{
		client:      openai.NewClientWithConfig(clientCfg),
		logger:      logger.With("system", "oracle"),
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		timeout:     cfg.CallTimeoutDuration(),
		enabled:     cfg.Enabled(),
	}
}

func (o *ChatOracle) ScoreText(
	ctx context.Context,
	subject Subject,
	mission *MissionContext,
) (*Assessment, error) {
	if !o.enabled {
		o.logger.Warn("no oracle api key configured, skipping assessment")
		return nil, fmt.Errorf("%w: no api key configured", ErrUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: o.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: textSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildTextPrompt(subject, mission)},
		},
		Temperature: 0.1,
		MaxTokens:   500,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		o.logger.Error("text scoring call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty oracle response", ErrUnavailable)
	}

	parsed, err := formatting.Parse[textResponse](resp.Choices[0].Message.Content)
	if err != nil {
		o.logger.Error("text scoring response unparseable", "error", err)
		return nil, fmt.Errorf("%w: malformed oracle output", ErrUnavailable)
	}

	return &Assessment{
		Score:     clampScore(parsed.Score),
		Rationale: composeRationale(parsed),
	}, nil
}

func (o *ChatOracle) ScoreImage(
	ctx context.Context,
	imageURL string,
	mission *MissionContext,
) (*ImageAssessment, error) {
	if !o.enabled || imageURL == "" {
		return nil, fmt.Errorf("%w: image assessment skipped", ErrUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: o.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: buildImagePrompt(mission),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    imageURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
		Temperature: 0.1,
		MaxTokens:   300,
	})
	if err != nil {
		o.logger.Error("image scoring call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty oracle response", ErrUnavailable)
	}

	parsed, err := formatting.Parse[imageResponse](resp.Choices[0].Message.Content)
	if err != nil {
		o.logger.Error("image scoring response unparseable", "error", err)
		return nil, fmt.Errorf("%w: malformed oracle output", ErrUnavailable)
	}

	return &ImageAssessment{
		Score:       clampScore(parsed.Score),
		Description: parsed.Description,
	}, nil
}

func composeRationale(resp textResponse) string {
	var sb strings.Builder

	reasoning := resp.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}
	fmt.Fprintf(&sb, "AI Assessment: %s", reasoning)

	if len(resp.Issues) > 0 {
		fmt.Fprintf(&sb, "\nIssues: %s", strings.Join(resp.Issues, "; "))
	}

	recommendation := resp.Recommendation
	if recommendation == "" {
		recommendation = "review"
	}
	fmt.Fprintf(&sb, "\nRecommendation: %s", recommendation)

	return sb.String()
}
