package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/platform/logger"
)

// Snapshot is the complete application state.
type Snapshot struct {
	Cards   []*domain.Card
	User    domain.UserProfile
	Folders []domain.Folder
}

// NewSnapshot returns the state of a fresh installation.
func NewSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Cards:   []*domain.Card{},
		User:    domain.NewUserProfile(now),
		Folders: []domain.Folder{domain.DefaultFolder()},
	}
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	cards := make([]*domain.Card, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = c.Clone()
	}
	folders := make([]domain.Folder, len(s.Folders))
	copy(folders, s.Folders)

	return &Snapshot{
		Cards:   cards,
		User:    s.User.Clone(),
		Folders: folders,
	}
}

// Notice describes data that could not be loaded and was replaced or skipped.
type Notice struct {
	Record  string `json:"record"`
	Message string `json:"message"`
}

// LoadSnapshot reads and decodes every record. Missing records take their
// defaults; only storage failures are returned as errors.
func LoadSnapshot(ctx context.Context, rs RecordStore, now time.Time) (*Snapshot, []Notice, error) {
	raw := make(map[string][]byte, len(Keys))
	for _, key := range Keys {
		value, err := rs.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, NewStoreError(key, "get", "failed to read record", err)
		}
		raw[key] = value
	}

	snapshot, notices := DecodeSnapshot(raw, now)

	log := logger.FromContext(ctx)
	for _, n := range notices {
		log.Warn("recovered from corrupt stored data",
			slog.String("record", n.Record),
			slog.String("detail", n.Message))
	}

	return snapshot, notices, nil
}

// SaveSnapshot writes the whole state in one PutAll call.
func SaveSnapshot(ctx context.Context, rs RecordStore, s *Snapshot) error {
	records, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	if err := rs.PutAll(ctx, records); err != nil {
		return NewStoreError("snapshot", "put", "failed to write records", err)
	}
	return nil
}

// DecodeSnapshot builds a snapshot from raw records. Absent records take
// their defaults. Corrupt records are replaced by defaults and corrupt or
// duplicate cards are skipped; each such repair yields a Notice.
func DecodeSnapshot(raw map[string][]byte, now time.Time) (*Snapshot, []Notice) {
	snapshot := NewSnapshot(now)
	var notices []Notice

	if data, ok := raw[KeyCards]; ok {
		cards, cardNotices := decodeCards(data)
		snapshot.Cards = cards
		notices = append(notices, cardNotices...)
	}

	if data, ok := raw[KeyUser]; ok {
		var user domain.UserProfile
		if err := json.Unmarshal(data, &user); err != nil {
			notices = append(notices, Notice{Record: KeyUser, Message: "profile unreadable, starting fresh: " + err.Error()})
		} else {
			user.Normalize()
			snapshot.User = user
		}
	}

	if data, ok := raw[KeyFolders]; ok {
		var folders []domain.Folder
		if err := json.Unmarshal(data, &folders); err != nil {
			notices = append(notices, Notice{Record: KeyFolders, Message: "folders unreadable, keeping only the default folder: " + err.Error()})
		} else {
			snapshot.Folders = domain.EnsureDefaultFolder(validFolders(folders))
		}
	}

	return snapshot, notices
}

func decodeCards(data []byte) ([]*domain.Card, []Notice) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return []*domain.Card{}, []Notice{{Record: KeyCards, Message: "card list unreadable: " + err.Error()}}
	}

	var notices []Notice
	cards := make([]*domain.Card, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		var card domain.Card
		if err := json.Unmarshal(item, &card); err != nil {
			notices = append(notices, Notice{Record: KeyCards, Message: fmt.Sprintf("skipped card #%d: %v", i, err)})
			continue
		}
		if card.ID == "" {
			notices = append(notices, Notice{Record: KeyCards, Message: fmt.Sprintf("skipped card #%d: missing id", i)})
			continue
		}
		if _, dup := seen[card.ID]; dup {
			notices = append(notices, Notice{Record: KeyCards, Message: fmt.Sprintf("skipped card #%d: duplicate id %s", i, card.ID)})
			continue
		}
		seen[card.ID] = struct{}{}
		cards = append(cards, &card)
	}

	return cards, notices
}

func validFolders(folders []domain.Folder) []domain.Folder {
	out := make([]domain.Folder, 0, len(folders))
	seen := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		if f.ID == "" {
			continue
		}
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out
}

// EncodeSnapshot serializes the snapshot into its three records.
func EncodeSnapshot(s *Snapshot) ([]Record, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidRecord)
	}

	cards := s.Cards
	if cards == nil {
		cards = []*domain.Card{}
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyCards, cards},
		{KeyUser, s.User},
		{KeyFolders, s.Folders},
	}

	records := make([]Record, 0, len(values))
	for _, v := range values {
		data, err := json.Marshal(v.value)
		if err != nil {
			return nil, NewStoreError(v.key, "encode", "failed to encode record", err)
		}
		records = append(records, Record{Key: v.key, Value: data})
	}

	return records, nil
}
