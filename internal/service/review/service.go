// Package review runs study sessions: it keeps the session state, picks the
// next card and records answers through the review scheduler.
package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/domain/frequency"
	"github.com/lusolearn/lusolearn-api/internal/domain/srs"
	"github.com/lusolearn/lusolearn-api/internal/events"
	"github.com/lusolearn/lusolearn-api/internal/service"
	"github.com/lusolearn/lusolearn-api/internal/store"
	"github.com/lusolearn/lusolearn-api/internal/study"
)

var (
	// ErrSessionIdle is returned when a card is requested outside a session.
	ErrSessionIdle = errors.New("no study session in progress")

	// ErrNoCardDue is returned when answering while the queue is empty.
	ErrNoCardDue = errors.New("no card is due")

	// ErrStaleAnswer is returned when an answer names a card that is no
	// longer at the head of the queue.
	ErrStaleAnswer = errors.New("answered card is not the current card")
)

// SessionView is the externally visible session state.
type SessionView struct {
	State         study.State `json:"state"`
	Mode          study.Mode  `json:"mode"`
	Buckets       []string    `json:"buckets"`
	FolderID      string      `json:"folder_id"`
	Shuffle       bool        `json:"shuffle"`
	Seed          string      `json:"seed,omitempty"`
	FocusedCardID string      `json:"focused_card_id,omitempty"`
	Reviewed      int         `json:"reviewed"`
	Remaining     int         `json:"remaining"`
}

// StartOptions configures a new session. An empty FolderID keeps the
// current folder filter.
type StartOptions struct {
	Mode     study.Mode
	Buckets  frequency.Set
	FolderID string
}

// NextResult is the head of the queue. Card is nil when the session is exhausted.
type NextResult struct {
	Session SessionView
	Card    *domain.Card
}

// AnswerResult is the outcome of a recorded answer.
type AnswerResult struct {
	Card    *domain.Card       `json:"card"`
	Profile domain.UserProfile `json:"profile"`
	Session SessionView        `json:"session"`
}

// Service drives the study session.
type Service interface {
	Session(ctx context.Context) SessionView
	Start(ctx context.Context, opts StartOptions) (SessionView, error)
	Stop(ctx context.Context) SessionView
	Focus(ctx context.Context, cardID string) (SessionView, error)
	SetShuffle(ctx context.Context, enabled bool) SessionView
	SetFolder(ctx context.Context, folderID string) (SessionView, error)
	Next(ctx context.Context) (NextResult, error)

	// Answer records a pass or fail for the card at the head of the queue.
	// A non-empty cardID must match that card.
	Answer(ctx context.Context, success bool, cardID string) (AnswerResult, error)
}

// Option configures the review service.
type Option func(*reviewService)

// WithSeedSource overrides how shuffle seeds are drawn.
func WithSeedSource(next func() study.Seed) Option {
	return func(s *reviewService) {
		s.newSeed = next
	}
}

type reviewService struct {
	library   *service.Library
	scheduler srs.Service
	newSeed   func() study.Seed
	logger    *slog.Logger

	mu      sync.Mutex
	session study.Session
}

var _ Service = (*reviewService)(nil)

// NewService creates the review service.
func NewService(library *service.Library, scheduler srs.Service, logger *slog.Logger, opts ...Option) Service {
	if library == nil {
		panic("library cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &reviewService{
		library:   library,
		scheduler: scheduler,
		newSeed:   study.NewSeed,
		logger:    logger.With(slog.String("component", "review_service")),
		session:   study.NewSession(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *reviewService) Session(_ context.Context) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.library.Snapshot().Cards)
}

func (s *reviewService) Start(ctx context.Context, opts StartOptions) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.library.Snapshot()
	session := s.session
	if opts.FolderID != "" {
		if err := checkFolder(snap, opts.FolderID); err != nil {
			return SessionView{}, service.NewServiceError("start session", "unknown folder", err)
		}
		session = session.WithFolderFilter(opts.FolderID)
	}
	s.session = session.Start(opts.Mode, opts.Buckets)

	s.logger.InfoContext(ctx, "study session started",
		slog.String("mode", string(opts.Mode)),
		slog.Any("buckets", opts.Buckets.Labels()),
		slog.String("folder_id", s.session.FolderFilter()))
	s.library.Emit(ctx, events.TypeSessionStarted, events.SessionStartedPayload{Mode: string(opts.Mode)})

	return s.view(snap.Cards), nil
}

func (s *reviewService) Stop(_ context.Context) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = s.session.Reset()
	return s.view(s.library.Snapshot().Cards)
}

func (s *reviewService) Focus(ctx context.Context, cardID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.library.Snapshot()
	if _, ok := domain.FindCard(snap.Cards, cardID); !ok {
		return SessionView{}, service.NewServiceError("focus card", "unknown card", domain.ErrCardNotFound)
	}
	s.session = s.session.Focus(cardID)

	s.library.Emit(ctx, events.TypeSessionStarted, events.SessionStartedPayload{
		Mode:    string(s.session.Mode()),
		Focused: true,
	})
	return s.view(snap.Cards), nil
}

func (s *reviewService) SetShuffle(_ context.Context, enabled bool) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = s.session.WithShuffle(enabled, s.newSeed())
	return s.view(s.library.Snapshot().Cards)
}

func (s *reviewService) SetFolder(_ context.Context, folderID string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.library.Snapshot()
	if err := checkFolder(snap, folderID); err != nil {
		return SessionView{}, service.NewServiceError("set folder", "unknown folder", err)
	}
	s.session = s.session.WithFolderFilter(folderID)
	return s.view(snap.Cards), nil
}

func (s *reviewService) Next(_ context.Context) (NextResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Active() {
		return NextResult{}, service.NewServiceError("next card", "session is idle", ErrSessionIdle)
	}

	cards := s.library.Snapshot().Cards
	result := NextResult{Session: s.view(cards)}
	if queue := s.session.Queue(cards); len(queue) > 0 {
		result.Card = queue[0]
	}
	return result, nil
}

func (s *reviewService) Answer(ctx context.Context, success bool, cardID string) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Active() {
		return AnswerResult{}, service.NewServiceError("answer", "session is idle", ErrSessionIdle)
	}

	queue := s.session.Queue(s.library.Snapshot().Cards)
	if len(queue) == 0 {
		return AnswerResult{}, service.NewServiceError("answer", "queue is empty", ErrNoCardDue)
	}
	head := queue[0]
	if cardID != "" && cardID != head.ID {
		return AnswerResult{}, service.NewServiceError("answer", "card changed", ErrStaleAnswer)
	}

	var result AnswerResult
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		card, ok := domain.FindCard(snap.Cards, head.ID)
		if !ok {
			return domain.ErrCardNotFound
		}

		now := s.library.Now()
		next, err := s.scheduler.CalculateNextReview(card, success, now)
		if err != nil {
			return err
		}
		*card = *next
		snap.User = snap.User.RecordReview(success, now)

		result.Card = next.Clone()
		result.Profile = snap.User.Clone()
		return nil
	})
	if err != nil {
		return AnswerResult{}, service.NewServiceError("answer", "failed to record review", err)
	}

	mode := s.session.Mode()
	s.session = s.session.Advance(head.ID)
	result.Session = s.view(s.library.Snapshot().Cards)

	s.logger.DebugContext(ctx, "review recorded",
		slog.String("card_id", head.ID),
		slog.Bool("success", success),
		slog.Int("interval", result.Card.Interval))
	s.library.Emit(ctx, events.TypeReviewRecorded, events.ReviewRecordedPayload{
		CardID:   head.ID,
		Mode:     string(mode),
		Success:  success,
		Interval: result.Card.Interval,
	})

	return result, nil
}

// view must be called with s.mu held.
func (s *reviewService) view(cards []*domain.Card) SessionView {
	v := SessionView{
		State:         s.session.Status(cards),
		Mode:          s.session.Mode(),
		Buckets:       s.session.Buckets().Labels(),
		FolderID:      s.session.FolderFilter(),
		Shuffle:       s.session.Shuffle(),
		FocusedCardID: s.session.FocusedCardID(),
		Reviewed:      s.session.ReviewedCount(),
	}
	if v.Shuffle {
		v.Seed = s.session.Seed().String()
	}
	if s.session.Active() {
		v.Remaining = len(s.session.Queue(cards))
	}
	return v
}

func checkFolder(snap *store.Snapshot, folderID string) error {
	if folderID == domain.AllFoldersID {
		return nil
	}
	if _, ok := domain.FindFolder(snap.Folders, folderID); !ok {
		return domain.ErrFolderNotFound
	}
	return nil
}
