package domain

import "slices"

// FolderSet is a set of folder identifiers. It is backed by a slice so that
// insertion order survives persistence and display; duplicates are never
// stored. All operations return a new set and leave the receiver untouched.
type FolderSet []string

// NewFolderSet builds a set from ids, dropping empty strings and duplicates.
func NewFolderSet(ids ...string) FolderSet {
	set := make(FolderSet, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(set, id) {
			continue
		}
		set = append(set, id)
	}
	return set
}

// Has reports whether id is a member of the set.
func (s FolderSet) Has(id string) bool {
	return slices.Contains(s, id)
}

// Len returns the number of members.
func (s FolderSet) Len() int {
	return len(s)
}

// IsEmpty reports whether the set has no members.
func (s FolderSet) IsEmpty() bool {
	return len(s) == 0
}

// Add returns a set that also contains id.
func (s FolderSet) Add(id string) FolderSet {
	return NewFolderSet(append(slices.Clone(s), id)...)
}

// Remove returns a set without id.
func (s FolderSet) Remove(id string) FolderSet {
	out := make(FolderSet, 0, len(s))
	for _, member := range s {
		if member != id {
			out = append(out, member)
		}
	}
	return out
}

// Toggle removes id when present and adds it otherwise.
func (s FolderSet) Toggle(id string) FolderSet {
	if s.Has(id) {
		return s.Remove(id)
	}
	return s.Add(id)
}

// Union returns the members of s followed by members of other not in s.
func (s FolderSet) Union(other FolderSet) FolderSet {
	return NewFolderSet(append(slices.Clone(s), other...)...)
}

// Difference returns the members of s that are not in other.
func (s FolderSet) Difference(other FolderSet) FolderSet {
	out := make(FolderSet, 0, len(s))
	for _, member := range s {
		if !other.Has(member) {
			out = append(out, member)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s FolderSet) Clone() FolderSet {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}
