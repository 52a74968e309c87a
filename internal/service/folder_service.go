package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/lusolearn/lusolearn-api/internal/domain"
	"github.com/lusolearn/lusolearn-api/internal/store"
)

// FolderService manages folders.
type FolderService interface {
	// ListFolders returns every folder, the default folder included.
	ListFolders(ctx context.Context) []domain.Folder

	// CreateFolder adds a folder. If a folder with the same trimmed name
	// exists it is returned instead and created is false.
	CreateFolder(ctx context.Context, name string) (folder domain.Folder, created bool, err error)

	// RenameFolder changes the display name of a folder.
	RenameFolder(ctx context.Context, folderID, name string) (domain.Folder, error)

	// DeleteFolder removes a folder other than the default one. Cards left
	// without folders move to the default folder.
	DeleteFolder(ctx context.Context, folderID string) error
}

type folderServiceImpl struct {
	library *Library
	logger  *slog.Logger
}

var _ FolderService = (*folderServiceImpl)(nil)

// NewFolderService creates a FolderService backed by library.
func NewFolderService(library *Library, logger *slog.Logger) FolderService {
	if library == nil {
		panic("library cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &folderServiceImpl{
		library: library,
		logger:  logger.With(slog.String("component", "folder_service")),
	}
}

func (s *folderServiceImpl) ListFolders(_ context.Context) []domain.Folder {
	return s.library.Snapshot().Folders
}

func (s *folderServiceImpl) CreateFolder(ctx context.Context, name string) (domain.Folder, bool, error) {
	var (
		folder  domain.Folder
		created bool
	)

	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		if existing, ok := domain.FindFolderByName(snap.Folders, strings.TrimSpace(name)); ok {
			folder = existing
			return nil
		}

		f, err := domain.NewFolder(name)
		if err != nil {
			return err
		}
		snap.Folders = append(snap.Folders, f)
		folder, created = f, true
		return nil
	})
	if err != nil {
		return domain.Folder{}, false, NewServiceError("create folder", "failed to create folder", err)
	}

	if created {
		s.logger.InfoContext(ctx, "folder created", slog.String("folder_id", folder.ID))
	}
	return folder, created, nil
}

func (s *folderServiceImpl) RenameFolder(ctx context.Context, folderID, name string) (domain.Folder, error) {
	name = strings.TrimSpace(name)

	var renamed domain.Folder
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		if name == "" {
			return domain.ErrFolderNameEmpty
		}
		idx := slices.IndexFunc(snap.Folders, func(f domain.Folder) bool { return f.ID == folderID })
		if idx < 0 {
			return domain.ErrFolderNotFound
		}
		snap.Folders[idx].Name = name
		renamed = snap.Folders[idx]
		return nil
	})
	if err != nil {
		return domain.Folder{}, NewServiceError("rename folder", "failed to rename folder", err)
	}
	return renamed, nil
}

func (s *folderServiceImpl) DeleteFolder(ctx context.Context, folderID string) error {
	moved := 0
	err := s.library.Update(ctx, func(snap *store.Snapshot) error {
		if folderID == domain.DefaultFolderID {
			return domain.ErrDefaultFolderImmutable
		}
		idx := slices.IndexFunc(snap.Folders, func(f domain.Folder) bool { return f.ID == folderID })
		if idx < 0 {
			return domain.ErrFolderNotFound
		}
		snap.Folders = slices.Delete(snap.Folders, idx, idx+1)

		for _, c := range snap.Cards {
			if !c.FolderIDs.Has(folderID) {
				continue
			}
			c.FolderIDs = c.FolderIDs.Remove(folderID)
			if c.FolderIDs.IsEmpty() {
				c.FolderIDs = domain.NewFolderSet(domain.DefaultFolderID)
				moved++
			}
		}
		return nil
	})
	if err != nil {
		return NewServiceError("delete folder", "failed to delete folder", err)
	}

	s.logger.InfoContext(ctx, "folder deleted",
		slog.String("folder_id", folderID),
		slog.Int("cards_moved_to_default", moved))
	return nil
}
