package domain

import "time"

// Identity of the virtual folder that aggregates every note a user owns.
const (
	AllNotesID   = "all"
	AllNotesName = "All Notes"
)

// FolderView is either a *Folder loaded from storage or an AllNotesFolder.
// Callers switch on the concrete type.
type FolderView interface {
	folderView()
}

// Folder is a persisted, user-owned grouping of notes.
type Folder struct {
	ID         string
	Name       string
	UserID     string
	NotesCount int
	CreatedAt  time.Time
}

func (*Folder) folderView() {}

// AllNotesFolder is synthesized on read and never stored.
type AllNotesFolder struct {
	NotesCount int
}

func (AllNotesFolder) folderView() {}

// FolderScope selects which notes a request is about: every note of the user
// or the notes of one persisted folder.
type FolderScope struct {
	folderID string
}

// AllNotesScope selects every note of the user.
func AllNotesScope() FolderScope { return FolderScope{} }

// FolderScopeOf selects the notes of one persisted folder.
func FolderScopeOf(folderID string) FolderScope { return FolderScope{folderID: folderID} }

// ParseFolderScope maps a route parameter to a scope. "all" and the empty
// string mean every note.
func ParseFolderScope(param string) FolderScope {
	if param == "" || param == AllNotesID {
		return AllNotesScope()
	}
	return FolderScopeOf(param)
}

// IsAll reports whether the scope is the virtual folder.
func (s FolderScope) IsAll() bool { return s.folderID == "" }

// FolderID returns the persisted folder ID, or false for the virtual folder.
func (s FolderScope) FolderID() (string, bool) {
	return s.folderID, s.folderID != ""
}

// FolderIDPtr returns the folder ID as stored on a note: nil for the virtual folder.
func (s FolderScope) FolderIDPtr() *string {
	if s.folderID == "" {
		return nil
	}
	id := s.folderID
	return &id
}

// String returns the route form of the scope.
func (s FolderScope) String() string {
	if s.IsAll() {
		return AllNotesID
	}
	return s.folderID
}

// FolderWithNotes pairs a folder view with its notes split by pin state.
type FolderWithNotes struct {
	Folder FolderView
	Notes  PartitionedNotes
}
