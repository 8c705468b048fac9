package tasks

import "github.com/mawshu/movie-tracker/internal/models"

// Membership is a movie's presence in the user's library.
type Membership struct {
	EntryID int64
	Status  models.Status
}

// LibraryIndex maps external movie ids to library membership.
//
// It is a projection of one library fetch and is rebuilt, never patched.
type LibraryIndex map[string]Membership

// BuildIndex indexes entries by external id. Entries without a movie or external id are
// skipped; duplicate external ids keep the last entry.
func BuildIndex(entries []models.LibraryEntry) LibraryIndex {
	ix := make(LibraryIndex, len(entries))
	for _, e := range entries {
		ext := e.ExternalID()
		if ext == "" {
			continue
		}
		ix[ext] = Membership{EntryID: e.ID, Status: e.Status}
	}
	return ix
}

// Lookup returns the membership for externalID, if any.
func (ix LibraryIndex) Lookup(externalID string) (Membership, bool) {
	m, ok := ix[externalID]
	return m, ok
}

// StatusOf returns the movie's status, or [models.StatusUnset] when it is not in the library.
func (ix LibraryIndex) StatusOf(externalID string) models.Status {
	return ix[externalID].Status
}

// Ref returns the [EntryRef] a status change for externalID should start from.
func (ix LibraryIndex) Ref(externalID string) EntryRef {
	m := ix[externalID]
	return EntryRef{ExternalID: externalID, EntryID: m.EntryID, Status: m.Status}
}
