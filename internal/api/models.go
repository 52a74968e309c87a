package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/service/review"
	"github.com/lusolearn/lusolearn-api/internal/store"
)

// Requests

// CardInput is one card of a batch create request.
type CardInput struct {
	OriginalTerm string   `json:"original_term" validate:"required,max=500"`
	Translation  string   `json:"translation"   validate:"max=2000"`
	Frequency    string   `json:"frequency"     validate:"max=50"`
	FolderIDs    []string `json:"folder_ids"    validate:"omitempty,dive,required"`
}

// CreateCardsRequest adds a batch of cards.
type CreateCardsRequest struct {
	Cards []CardInput `json:"cards" validate:"required,min=1,max=500,dive"`
}

// UpdateCardRequest edits a card. Omitted fields are left unchanged.
type UpdateCardRequest struct {
	OriginalTerm *string `json:"original_term" validate:"omitempty,max=500"`
	Translation  *string `json:"translation"   validate:"omitempty,max=2000"`
	Frequency    *string `json:"frequency"     validate:"omitempty,max=50"`
}

// FolderRequest creates or renames a folder.
type FolderRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// StartSessionRequest starts a study session. Empty buckets select every bucket.
type StartSessionRequest struct {
	Mode     string   `json:"mode"      validate:"omitempty,oneof=srs interval frequency"`
	Buckets  []string `json:"buckets"`
	FolderID string   `json:"folder_id"`
}

// ShuffleRequest toggles shuffled ordering.
type ShuffleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// SetFolderRequest changes the folder filter of the session.
type SetFolderRequest struct {
	FolderID string `json:"folder_id" validate:"required"`
}

// AnswerRequest reports the outcome of the current card. CardID, when set,
// must name the card being answered.
type AnswerRequest struct {
	Success *bool  `json:"success" validate:"required"`
	CardID  string `json:"card_id"`
}

// ApplySortRequest confirms the cards of a sort job to move.
type ApplySortRequest struct {
	CardIDs []string `json:"card_ids" validate:"required,min=1,dive,required"`
}

// Responses

// CardResponse is the API representation of a card.
type CardResponse struct {
	ID           string    `json:"id"`
	OriginalTerm string    `json:"original_term"`
	Translation  string    `json:"translation"`
	Frequency    string    `json:"frequency,omitempty"`
	FolderIDs    []string  `json:"folder_ids"`
	Interval     int       `json:"interval"`
	EaseFactor   float64   `json:"ease_factor"`
	Learned      bool      `json:"learned"`
	NextReviewAt time.Time `json:"next_review_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileResponse is the learner profile.
type ProfileResponse struct {
	XP              int            `json:"xp"`
	Level           int            `json:"level"`
	Streak          int            `json:"streak"`
	LastStudyDate   string         `json:"last_study_date"`
	CardsLearned    int            `json:"cards_learned"`
	LearningHistory map[string]int `json:"learning_history"`
}

// FolderResponse is a folder with its card count.
type FolderResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CardCount int    `json:"card_count"`
	IsDefault bool   `json:"is_default"`
}

// NoticesResponse lists problems found while loading stored data.
type NoticesResponse struct {
	Notices []store.Notice `json:"notices"`
}

// NextCardResponse is the head of the study queue.
type NextCardResponse struct {
	Session review.SessionView `json:"session"`
	Card    CardResponse       `json:"card"`
}

// AnswerResponse is the result of an answer.
type AnswerResponse struct {
	Card    CardResponse       `json:"card"`
	Profile ProfileResponse    `json:"profile"`
	Session review.SessionView `json:"session"`
}

// SortJobCreatedResponse is returned when a sort job is accepted.
type SortJobCreatedResponse struct {
	JobID uuid.UUID `json:"job_id"`
}

// SuggestionResponse is one proposed folder move.
type SuggestionResponse struct {
	Action              string   `json:"action"`
	TargetFolderID      string   `json:"target_folder_id,omitempty"`
	SuggestedFolderName string   `json:"suggested_folder_name,omitempty"`
	CardIDs             []string `json:"card_ids"`
}

// SortJobResponse is the state of a sort job.
type SortJobResponse struct {
	ID          uuid.UUID            `json:"id"`
	Outcome     string               `json:"outcome"`
	Stage       string               `json:"stage,omitempty"`
	Suggestions []SuggestionResponse `json:"suggestions"`
	Error       string               `json:"error,omitempty"`
	Applied     bool                 `json:"applied"`
	CreatedAt   time.Time            `json:"created_at"`
	FinishedAt  *time.Time           `json:"finished_at,omitempty"`
}

// ImportResponse summarizes an imported backup.
type ImportResponse struct {
	Cards   int `json:"cards"`
	Folders int `json:"folders"`
}

func cardToResponse(c *domain.Card) CardResponse {
	folders := make([]string, len(c.FolderIDs))
	copy(folders, c.FolderIDs)
	return CardResponse{
		ID:           c.ID,
		OriginalTerm: c.OriginalTerm,
		Translation:  c.Translation,
		Frequency:    c.Frequency,
		FolderIDs:    folders,
		Interval:     c.Interval,
		EaseFactor:   c.EaseFactor,
		Learned:      c.IsLearned(),
		NextReviewAt: time.UnixMilli(c.NextReviewDate).UTC(),
		CreatedAt:    time.UnixMilli(c.CreatedAt).UTC(),
	}
}

func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i, c := range cards {
		out[i] = cardToResponse(c)
	}
	return out
}

func profileToResponse(u domain.UserProfile) ProfileResponse {
	history := u.LearningHistory
	if history == nil {
		history = map[string]int{}
	}
	return ProfileResponse{
		XP:              u.XP,
		Level:           u.Level,
		Streak:          u.Streak,
		LastStudyDate:   u.LastStudyDate,
		CardsLearned:    u.CardsLearned,
		LearningHistory: history,
	}
}

func sortJobToResponse(job *service.SortJob) SortJobResponse {
	suggestions := make([]SuggestionResponse, len(job.Suggestions))
	for i, s := range job.Suggestions {
		suggestions[i] = SuggestionResponse{
			Action:              string(s.Action),
			TargetFolderID:      s.TargetFolderID,
			SuggestedFolderName: s.SuggestedFolderName,
			CardIDs:             s.CardIDs,
		}
	}
	return SortJobResponse{
		ID:          job.ID,
		Outcome:     string(job.Outcome),
		Stage:       string(job.Stage),
		Suggestions: suggestions,
		Error:       job.Error,
		Applied:     job.Applied,
		CreatedAt:   job.CreatedAt,
		FinishedAt:  job.FinishedAt,
	}
}
