// Package srs implements the two-state review scheduler: a card is either
// learning (interval 0) or scheduled a whole number of days ahead.
package srs

import (
	"errors"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/domain"
)

// ErrNilCard is returned when no card is passed to the scheduler.
var ErrNilCard = errors.New("card cannot be nil")

// Service defines the interface for scheduling operations
type Service interface {
	// CalculateNextReview returns the card as it should be stored after a
	// pass or fail review at time now.
	CalculateNextReview(card *domain.Card, success bool, now time.Time) (*domain.Card, error)
}

type defaultService struct {
	params *Params
}

var _ Service = (*defaultService)(nil)

// NewDefaultService creates a new scheduler with default parameters
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a new scheduler with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// CalculateNextReview implements Service.
func (s *defaultService) CalculateNextReview(card *domain.Card, success bool, now time.Time) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}
	return calculateNextCard(card, success, now, s.params), nil
}
