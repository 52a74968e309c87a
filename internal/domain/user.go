package domain

import (
	"maps"
	"time"
)

// Profile rewards.
const (
	XPPerSuccessfulReview = 10
	XPPerFailedReview     = 2
	XPPerCreatedCard      = 20
	XPPerLevel            = 500

	// HistoryDateLayout is the key format of UserProfile.LearningHistory.
	HistoryDateLayout = "2006-01-02"
)

// UserProfile is the single learner's progress record.
type UserProfile struct {
	XP              int            `json:"xp"              yaml:"xp"`
	Level           int            `json:"level"           yaml:"level"`
	Streak          int            `json:"streak"          yaml:"streak"`
	LastStudyDate   string         `json:"lastStudyDate"   yaml:"lastStudyDate"`
	CardsLearned    int            `json:"cardsLearned"    yaml:"cardsLearned"`
	LearningHistory map[string]int `json:"learningHistory" yaml:"learningHistory"`
}

// NewUserProfile returns the profile of a learner who has not studied yet.
func NewUserProfile(now time.Time) UserProfile {
	return UserProfile{
		XP:              0,
		Level:           1,
		Streak:          0,
		LastStudyDate:   now.UTC().Format(time.RFC3339),
		CardsLearned:    0,
		LearningHistory: map[string]int{},
	}
}

// Normalize repairs profiles written by older clients.
func (u *UserProfile) Normalize() {
	if u.Level < 1 {
		u.Level = 1
	}
	if u.LearningHistory == nil {
		u.LearningHistory = map[string]int{}
	}
}

// Clone returns a deep copy of the profile.
func (u UserProfile) Clone() UserProfile {
	u.LearningHistory = maps.Clone(u.LearningHistory)
	if u.LearningHistory == nil {
		u.LearningHistory = map[string]int{}
	}
	return u
}

// RecordReview applies the reward for a reported review. A success grants
// XP, counts a learned card, increments today's history entry and may raise
// the level; a failure grants a small amount of XP only. Level never drops.
func (u UserProfile) RecordReview(success bool, now time.Time) UserProfile {
	next := u.Clone()

	if !success {
		next.XP += XPPerFailedReview
		return next
	}

	next.XP += XPPerSuccessfulReview
	next.CardsLearned++
	next.LearningHistory[now.UTC().Format(HistoryDateLayout)]++
	next.Level = max(next.Level, next.XP/XPPerLevel+1)

	return next
}

// RecordCardsCreated grants XP for newly captured cards.
func (u UserProfile) RecordCardsCreated(count int) UserProfile {
	next := u.Clone()
	if count > 0 {
		next.XP += count * XPPerCreatedCard
	}
	return next
}
