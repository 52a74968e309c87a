package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/config"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"google.golang.org/genai"
)

//go:embed prompts/smart_sort.tmpl
var smartSortTemplate string

// contentGenerator is the part of the genai client the Sorter needs.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Sorter suggests folders for cards using a Gemini model.
type Sorter struct {
	logger         *slog.Logger
	models         contentGenerator
	model          string
	timeout        time.Duration
	promptTemplate *template.Template
}

// NewSorter creates a Sorter backed by the Gemini API.
func NewSorter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Sorter, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return newSorter(logger, client.Models, cfg.ModelName, cfg.Timeout())
}

func newSorter(logger *slog.Logger, models contentGenerator, model string, timeout time.Duration) (*Sorter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	tmpl, err := template.New("smart_sort").Parse(smartSortTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	return &Sorter{
		logger:         logger.With(slog.String("component", "gemini_sorter")),
		models:         models,
		model:          model,
		timeout:        timeout,
		promptTemplate: tmpl,
	}, nil
}

// Suggest asks the model to group cards into the given folders or new ones.
// The answer is returned as is; callers filter unknown card and folder ids.
func (s *Sorter) Suggest(
	ctx context.Context,
	cards []*domain.Card,
	folders []domain.Folder,
) ([]domain.SortSuggestion, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	prompt, err := s.createPrompt(cards, folders)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.InfoContext(ctx, "requesting folder suggestions",
		slog.Int("card_count", len(cards)),
		slog.Int("folder_count", len(folders)),
		slog.String("model", s.model))

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "gemini API call failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	parsed, err := parseResponse(resp)
	if err != nil {
		s.logger.WarnContext(ctx, "unusable gemini response", slog.String("error", err.Error()))
		return nil, err
	}

	suggestions := make([]domain.SortSuggestion, 0, len(parsed.Suggestions))
	for _, sg := range parsed.Suggestions {
		suggestions = append(suggestions, sg.toDomain())
	}

	s.logger.InfoContext(ctx, "received folder suggestions", slog.Int("suggestion_count", len(suggestions)))
	return suggestions, nil
}

func (s *Sorter) createPrompt(cards []*domain.Card, folders []domain.Folder) (string, error) {
	data := promptData{Cards: make([]promptCard, 0, len(cards))}
	for _, c := range cards {
		data.Cards = append(data.Cards, promptCard{ID: c.ID, Term: c.OriginalTerm, Translation: c.Translation})
	}
	for _, f := range folders {
		if f.ID != domain.DefaultFolderID {
			data.Folders = append(data.Folders, f)
		}
	}

	var buf bytes.Buffer
	if err := s.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

func parseResponse(resp *genai.GenerateContentResponse) (*ResponseSchema, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, ErrContentBlocked
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(text.String()), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
	}
	return &parsed, nil
}
