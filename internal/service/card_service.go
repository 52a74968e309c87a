package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/lusolearn/lusolearn-api/internal/store"
)

// CardStatus filters cards by learning progress.
type CardStatus string

const (
	CardStatusAny      CardStatus = ""
	CardStatusLearned  CardStatus = "learned"
	CardStatusLearning CardStatus = "learning"
)

// ErrUnknownCardStatus is returned for a status filter other than learned or learning.
var ErrUnknownCardStatus = errors.New("unknown card status")

// ParseCardStatus parses a status filter; the empty string matches every card.
func ParseCardStatus(s string) (CardStatus, error) {
	switch CardStatus(s) {
	case CardStatusAny, CardStatusLearned, CardStatusLearning:
		return CardStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCardStatus, s)
	}
}

// NewCardInput describes a card to add.
type NewCardInput struct {
	OriginalTerm string
	Translation  string
	Frequency    string
	FolderIDs    []string
}

// CardUpdate holds the editable card fields; nil fields are left unchanged.
type CardUpdate struct {
	OriginalTerm *string
	Translation  *string
	Frequency    *string
}

// CardFilter selects cards for listing.
type CardFilter struct {
	// FolderID restricts the list to one folder; empty or "all" lists every card.
	FolderID string
	Status   CardStatus
}

// DayCount is one point of the learning history series.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsReport summarises recent activity.
type StatsReport struct {
	Days       int        `json:"days"`
	CardsAdded int        `json:"cards_added"`
	Learned    int        `json:"learned"`
	Learning   int        `json:"learning"`
	History    []DayCount `json:"history"`
}

// CardService manages the card collection and the learner profile.
type CardService interface {
	// CreateCards adds cards at the front of the collection and rewards the learner.
	CreateCards(ctx context.Context, inputs []NewCardInput) ([]*domain.Card, error)

	// UpdateCard edits the term, translation or frequency of a card.
	UpdateCard(ctx context.Context, cardID string, update CardUpdate) (*domain.Card, error)

	// DeleteCard removes a card.
	DeleteCard(ctx context.Context, cardID string) error

	// ToggleFolder adds the card to the folder or removes it. A card that
	// loses its last folder returns to the default folder.
	ToggleFolder(ctx context.Context, cardID, folderID string) (*domain.Card, error)

	// ListCards returns the cards matching filter in collection order.
	ListCards(ctx context.Context, filter CardFilter) ([]*domain.Card, error)

	// Stats reports activity over the last days days (7 or 30).
	Stats(ctx context.Context, days int) (StatsReport, error)

	// Profile returns the learner profile.
	Profile(ctx context.Context) domain.UserProfile
}

type cardServiceImpl struct {
	library *Library
	logger  *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a CardService backed by library.
func NewCardService(library *Library, logger *slog.Logger) CardService {
	if library == nil {
		panic("library cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cardServiceImpl{
		library: library,
		logger:  logger.With(slog.String("component", "card_service")),
	}
}

func (s *cardServiceImpl) CreateCards(ctx context.Context, inputs []NewCardInput) ([]*domain.Card, error) {
	if len(inputs) == 0 {
		return nil, NewServiceError("create cards", "no cards given", domain.ErrEmptyContent)
	}

	var created []*domain.Card
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		now := s.library.Now()
		created = make([]*domain.Card, 0, len(inputs))

		for i, in := range inputs {
			folders := domain.NewFolderSet(in.FolderIDs...)
			for _, id := range folders {
				if _, ok := domain.FindFolder(snap.Folders, id); !ok {
					return fmt.Errorf("card %d: %w: %s", i, domain.ErrFolderNotFound, id)
				}
			}

			card, err := domain.NewCard(in.OriginalTerm, in.Translation, in.Frequency, folders, now)
			if err != nil {
				return fmt.Errorf("card %d: %w", i, err)
			}
			created = append(created, card)
		}

		cards := make([]*domain.Card, 0, len(created)+len(snap.Cards))
		cards = append(cards, created...)
		snap.Cards = append(cards, snap.Cards...)
		snap.User = snap.User.RecordCardsCreated(len(created))
		return nil
	})
	if err != nil {
		return nil, NewServiceError("create cards", "failed to add cards", err)
	}

	s.logger.InfoContext(ctx, "cards created", slog.Int("count", len(created)))
	s.library.Emit(ctx, events.TypeCardsCreated, events.CardsCreatedPayload{Count: len(created)})

	return cloneCards(created), nil
}

func (s *cardServiceImpl) UpdateCard(ctx context.Context, cardID string, update CardUpdate) (*domain.Card, error) {
	var updated *domain.Card
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		card, ok := domain.FindCard(snap.Cards, cardID)
		if !ok {
			return domain.ErrCardNotFound
		}

		if update.OriginalTerm != nil {
			card.OriginalTerm = strings.TrimSpace(*update.OriginalTerm)
		}
		if update.Translation != nil {
			card.Translation = strings.TrimSpace(*update.Translation)
		}
		if update.Frequency != nil {
			card.Frequency = strings.TrimSpace(*update.Frequency)
		}

		if err := card.Validate(); err != nil {
			return err
		}
		updated = card.Clone()
		return nil
	})
	if err != nil {
		return nil, NewServiceError("update card", "failed to update card", err)
	}
	return updated, nil
}

func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID string) error {
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		idx := slices.IndexFunc(snap.Cards, func(c *domain.Card) bool { return c.ID == cardID })
		if idx < 0 {
			return domain.ErrCardNotFound
		}
		snap.Cards = slices.Delete(snap.Cards, idx, idx+1)
		return nil
	})
	if err != nil {
		return NewServiceError("delete card", "failed to delete card", err)
	}

	s.logger.InfoContext(ctx, "card deleted", slog.String("card_id", cardID))
	return nil
}

func (s *cardServiceImpl) ToggleFolder(ctx context.Context, cardID, folderID string) (*domain.Card, error) {
	var updated *domain.Card
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		if _, ok := domain.FindFolder(snap.Folders, folderID); !ok {
			return domain.ErrFolderNotFound
		}
		card, ok := domain.FindCard(snap.Cards, cardID)
		if !ok {
			return domain.ErrCardNotFound
		}

		card.FolderIDs = card.FolderIDs.Toggle(folderID)
		if card.FolderIDs.IsEmpty() {
			card.FolderIDs = domain.NewFolderSet(domain.DefaultFolderID)
		}
		updated = card.Clone()
		return nil
	})
	if err != nil {
		return nil, NewServiceError("toggle folder", "failed to change card folders", err)
	}
	return updated, nil
}

func (s *cardServiceImpl) ListCards(_ context.Context, filter CardFilter) ([]*domain.Card, error) {
	snap := s.library.Snapshot()

	folderID := filter.FolderID
	if folderID == "" {
		folderID = domain.AllFoldersID
	}
	if folderID != domain.AllFoldersID {
		if _, ok := domain.FindFolder(snap.Folders, folderID); !ok {
			return nil, NewServiceError("list cards", "unknown folder", domain.ErrFolderNotFound)
		}
	}

	out := make([]*domain.Card, 0, len(snap.Cards))
	for _, c := range snap.Cards {
		if !c.InFolder(folderID) {
			continue
		}
		switch filter.Status {
		case CardStatusLearned:
			if !c.IsLearned() {
				continue
			}
		case CardStatusLearning:
			if c.IsLearned() {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *cardServiceImpl) Stats(_ context.Context, days int) (StatsReport, error) {
	if days != 7 && days != 30 {
		return StatsReport{}, NewServiceError("stats", "unsupported range", ErrInvalidStatsRange)
	}

	snap := s.library.Snapshot()
	now := s.library.Now().UTC()
	cutoff := now.AddDate(0, 0, -days).UnixMilli()

	report := StatsReport{Days: days, History: make([]DayCount, 0, days)}
	for _, c := range snap.Cards {
		if c.CreatedAt >= cutoff {
			report.CardsAdded++
		}
		if c.IsLearned() {
			report.Learned++
		} else {
			report.Learning++
		}
	}

	for i := days - 1; i >= 0; i-- {
		key := now.AddDate(0, 0, -i).Format(domain.HistoryDateLayout)
		report.History = append(report.History, DayCount{Date: key, Count: snap.User.LearningHistory[key]})
	}

	return report, nil
}

func (s *cardServiceImpl) Profile(_ context.Context) domain.UserProfile {
	return s.library.Snapshot().User
}

func cloneCards(cards []*domain.Card) []*domain.Card {
	out := make([]*domain.Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}
