package domain

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultFolderID identifies the folder every card falls back to.
	DefaultFolderID = "default"

	// DefaultFolderName is the display name of the default folder.
	DefaultFolderName = "Общее"

	// AllFoldersID is the folder filter value that disables folder filtering.
	AllFoldersID = "all"

	folderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	folderIDLength   = 9
)

// ErrFolderNameEmpty is returned when a folder name is blank after trimming.
var ErrFolderNameEmpty = fmt.Errorf("%w: folder name cannot be empty", ErrValidation)

// Folder is a named grouping of cards. A card may belong to several folders.
type Folder struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DefaultFolder returns the folder that always exists.
func DefaultFolder() Folder {
	return Folder{ID: DefaultFolderID, Name: DefaultFolderName}
}

// NewFolder creates a folder with a fresh short identifier.
func NewFolder(name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, ErrFolderNameEmpty
	}

	id, err := NewFolderID()
	if err != nil {
		return Folder{}, err
	}

	return Folder{ID: id, Name: name}, nil
}

// NewFolderID returns a 9 character lowercase base-36 identifier.
func NewFolderID() (string, error) {
	return gonanoid.Generate(folderIDAlphabet, folderIDLength)
}

// FindFolder returns the folder with the given id.
func FindFolder(folders []Folder, id string) (Folder, bool) {
	for _, f := range folders {
		if f.ID == id {
			return f, true
		}
	}
	return Folder{}, false
}

// FindFolderByName returns the first folder whose name equals name exactly.
func FindFolderByName(folders []Folder, name string) (Folder, bool) {
	for _, f := range folders {
		if f.Name == name {
			return f, true
		}
	}
	return Folder{}, false
}

// EnsureDefaultFolder returns folders with the default folder prepended when
// it is missing.
func EnsureDefaultFolder(folders []Folder) []Folder {
	if _, ok := FindFolder(folders, DefaultFolderID); ok {
		return folders
	}
	return append([]Folder{DefaultFolder()}, folders...)
}
