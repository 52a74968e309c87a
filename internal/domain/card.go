package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Scheduling bounds shared by the card model and the scheduler.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	InitialEaseFactor = 2.5
)

// Card-specific validation errors. Each wraps ErrValidation.
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)

	// ErrCardTermEmpty is returned when a card has no original term.
	ErrCardTermEmpty = fmt.Errorf("%w: card term cannot be empty", ErrValidation)

	// ErrCardIntervalNegative is returned when a card interval is below zero.
	ErrCardIntervalNegative = fmt.Errorf("%w: card interval cannot be negative", ErrValidation)

	// ErrCardEaseOutOfRange is returned when the ease factor leaves [1.3, 2.5].
	ErrCardEaseOutOfRange = fmt.Errorf("%w: card ease factor out of range", ErrValidation)
)

// Card is a vocabulary flashcard together with its scheduling state.
//
// Timestamps are epoch milliseconds so that persisted records and backups stay
// compatible with data written by earlier clients.
type Card struct {
	ID             string    `json:"id"                  yaml:"id"`
	OriginalTerm   string    `json:"originalTerm"        yaml:"originalTerm"`
	Translation    string    `json:"translation"         yaml:"translation"`
	Frequency      string    `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	FolderIDs      FolderSet `json:"folderIds"           yaml:"folderIds"`
	Interval       int       `json:"interval"            yaml:"interval"`
	EaseFactor     float64   `json:"easeFactor"          yaml:"easeFactor"`
	NextReviewDate int64     `json:"nextReviewDate"      yaml:"nextReviewDate"`
	CreatedAt      int64     `json:"createdAt"           yaml:"createdAt"`
}

// NewCard creates a card that is due immediately. Cards without folders are
// placed in the default folder.
func NewCard(term, translation, frequency string, folders FolderSet, now time.Time) (*Card, error) {
	if len(folders) == 0 {
		folders = NewFolderSet(DefaultFolderID)
	}

	card := &Card{
		ID:             uuid.NewString(),
		OriginalTerm:   strings.TrimSpace(term),
		Translation:    strings.TrimSpace(translation),
		Frequency:      strings.TrimSpace(frequency),
		FolderIDs:      NewFolderSet(folders...),
		Interval:       0,
		EaseFactor:     InitialEaseFactor,
		NextReviewDate: now.UnixMilli(),
		CreatedAt:      now.UnixMilli(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == "" {
		return ErrCardIDEmpty
	}

	if strings.TrimSpace(c.OriginalTerm) == "" {
		return ErrCardTermEmpty
	}

	if c.Interval < 0 {
		return ErrCardIntervalNegative
	}

	if c.EaseFactor < MinEaseFactor || c.EaseFactor > MaxEaseFactor {
		return ErrCardEaseOutOfRange
	}

	return nil
}

// Normalize fills defaults for records written by older clients and clamps
// scheduling values into their valid ranges.
func (c *Card) Normalize() {
	if len(c.FolderIDs) == 0 {
		c.FolderIDs = NewFolderSet(DefaultFolderID)
	} else {
		c.FolderIDs = NewFolderSet(c.FolderIDs...)
	}

	if c.Interval < 0 {
		c.Interval = 0
	}

	switch {
	case c.EaseFactor == 0 || math.IsNaN(c.EaseFactor):
		c.EaseFactor = InitialEaseFactor
	case c.EaseFactor < MinEaseFactor:
		c.EaseFactor = MinEaseFactor
	case c.EaseFactor > MaxEaseFactor:
		c.EaseFactor = MaxEaseFactor
	}
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	clone := *c
	clone.FolderIDs = c.FolderIDs.Clone()
	return &clone
}

// IsLearned reports whether the card has left the learning phase.
func (c *Card) IsLearned() bool {
	return c.Interval > 0
}

// InFolder reports whether the card passes the folder filter. The AllFoldersID
// filter matches every card.
func (c *Card) InFolder(folderID string) bool {
	return folderID == AllFoldersID || c.FolderIDs.Has(folderID)
}

// UnmarshalJSON decodes a card and upgrades legacy records, which carried a
// single folderId instead of folderIds and may lack scheduling fields.
func (c *Card) UnmarshalJSON(data []byte) error {
	type plainCard Card
	var raw struct {
		plainCard
		LegacyFolderID string `json:"folderId"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.upgrade(Card(raw.plainCard), raw.LegacyFolderID)
	return nil
}

// UnmarshalYAML applies the same legacy upgrade as UnmarshalJSON.
func (c *Card) UnmarshalYAML(value *yaml.Node) error {
	type plainCard Card
	var raw struct {
		plainCard      `yaml:",inline"`
		LegacyFolderID string `yaml:"folderId"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.upgrade(Card(raw.plainCard), raw.LegacyFolderID)
	return nil
}

func (c *Card) upgrade(decoded Card, legacyFolderID string) {
	*c = decoded
	if len(c.FolderIDs) == 0 && legacyFolderID != "" {
		c.FolderIDs = NewFolderSet(legacyFolderID)
	}
	c.Normalize()
}

// FindCard returns the card with the given id.
func FindCard(cards []*Card, id string) (*Card, bool) {
	for _, c := range cards {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}
