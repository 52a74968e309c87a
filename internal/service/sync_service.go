package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/store"
	"gopkg.in/yaml.v3"
)

// BackupVersion is written into every exported document.
const BackupVersion = 1

// backupDateLayout matches JavaScript's Date.toISOString.
const backupDateLayout = "2006-01-02T15:04:05.000Z"

// BackupFormat selects the encoding of a backup document.
type BackupFormat string

const (
	BackupFormatJSON BackupFormat = "json"
	BackupFormatYAML BackupFormat = "yaml"
)

// ParseBackupFormat accepts json, yaml and yml.
func ParseBackupFormat(s string) (BackupFormat, error) {
	switch s {
	case "json", "":
		return BackupFormatJSON, nil
	case "yaml", "yml":
		return BackupFormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// BackupDocument is the full export of the learner's data. Nil collections
// mark a document that lacks them and cannot be imported.
type BackupDocument struct {
	Cards   []*domain.Card      `json:"cards"   yaml:"cards"`
	User    *domain.UserProfile `json:"user"    yaml:"user"`
	Folders []domain.Folder     `json:"folders" yaml:"folders"`
	Version int                 `json:"version" yaml:"version"`
	Date    string              `json:"date"    yaml:"date"`
}

// EncodeBackup writes doc to w in the given format.
func EncodeBackup(w io.Writer, doc *BackupDocument, format BackupFormat) error {
	switch format {
	case BackupFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case BackupFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeBackup reads a document from r in the given format.
func DecodeBackup(r io.Reader, format BackupFormat) (*BackupDocument, error) {
	var doc BackupDocument
	var err error

	switch format {
	case BackupFormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case BackupFormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return &doc, nil
}

// SyncService exports and restores the learner's data.
type SyncService interface {
	// Export returns the current state as a backup document.
	Export(ctx context.Context) *BackupDocument

	// Import replaces the whole state with doc. Nothing changes unless the
	// document holds cards, user and folders. Invalid or duplicate cards and
	// folders are skipped and logged.
	Import(ctx context.Context, doc *BackupDocument) error
}

type syncServiceImpl struct {
	library *Library
	logger  *slog.Logger
}

var _ SyncService = (*syncServiceImpl)(nil)

// NewSyncService creates a SyncService backed by library.
func NewSyncService(library *Library, logger *slog.Logger) SyncService {
	if library == nil {
		panic("library cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &syncServiceImpl{
		library: library,
		logger:  logger.With(slog.String("component", "sync_service")),
	}
}

func (s *syncServiceImpl) Export(_ context.Context) *BackupDocument {
	snap := s.library.Snapshot()
	user := snap.User
	return &BackupDocument{
		Cards:   snap.Cards,
		User:    &user,
		Folders: snap.Folders,
		Version: BackupVersion,
		Date:    s.library.Now().UTC().Format(backupDateLayout),
	}
}

func (s *syncServiceImpl) Import(ctx context.Context, doc *BackupDocument) error {
	next, notices, err := snapshotFromBackup(doc)
	if err != nil {
		return NewServiceError("import backup", "backup rejected", err)
	}

	err = s.library.Update(ctx, func(snap *store.Snapshot) error {
		*snap = *next
		return nil
	})
	if err != nil {
		return NewServiceError("import backup", "failed to store backup", err)
	}

	for _, n := range notices {
		s.logger.WarnContext(ctx, "skipped backup entry",
			slog.String("record", n.Record),
			slog.String("detail", n.Message))
	}
	s.logger.InfoContext(ctx, "backup imported",
		slog.Int("card_count", len(next.Cards)),
		slog.Int("folder_count", len(next.Folders)),
		slog.Int("skipped", len(notices)))
	return nil
}

// snapshotFromBackup builds the state a backup restores. Entries that cannot
// be kept are dropped, each with a notice.
func snapshotFromBackup(doc *BackupDocument) (*store.Snapshot, []store.Notice, error) {
	if doc == nil || doc.Cards == nil || doc.User == nil || doc.Folders == nil {
		return nil, nil, ErrIncompleteBackup
	}

	var notices []store.Notice

	folders := make([]domain.Folder, 0, len(doc.Folders))
	folderIDs := make(map[string]bool, len(doc.Folders))
	for i, f := range doc.Folders {
		switch {
		case f.ID == "" || f.Name == "":
			notices = append(notices, store.Notice{Record: store.KeyFolders,
				Message: fmt.Sprintf("skipped folder #%d: missing id or name", i)})
			continue
		case folderIDs[f.ID]:
			notices = append(notices, store.Notice{Record: store.KeyFolders,
				Message: fmt.Sprintf("skipped folder #%d: duplicate id %s", i, f.ID)})
			continue
		}
		folderIDs[f.ID] = true
		folders = append(folders, f)
	}

	cards := make([]*domain.Card, 0, len(doc.Cards))
	cardIDs := make(map[string]bool, len(doc.Cards))
	for i, c := range doc.Cards {
		if c == nil {
			notices = append(notices, store.Notice{Record: store.KeyCards,
				Message: fmt.Sprintf("skipped card #%d: empty entry", i)})
			continue
		}
		card := c.Clone()
		card.Normalize()
		if err := card.Validate(); err != nil {
			notices = append(notices, store.Notice{Record: store.KeyCards,
				Message: fmt.Sprintf("skipped card #%d: %v", i, err)})
			continue
		}
		if cardIDs[card.ID] {
			notices = append(notices, store.Notice{Record: store.KeyCards,
				Message: fmt.Sprintf("skipped card #%d: duplicate id %s", i, card.ID)})
			continue
		}
		cardIDs[card.ID] = true
		cards = append(cards, card)
	}

	user := doc.User.Clone()
	user.Normalize()

	return &store.Snapshot{
		Cards:   cards,
		User:    user,
		Folders: domain.EnsureDefaultFolder(folders),
	}, notices, nil
}

// BackupFileName returns the conventional name of an export written at t.
func BackupFileName(t time.Time, format BackupFormat) string {
	return fmt.Sprintf("lusolearn_backup_%s.%s", t.UTC().Format(domain.HistoryDateLayout), format)
}
