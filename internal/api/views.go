package api

import (
	"time"

	"github.com/takuyahirata23/quick-note/internal/domain"
)

// Response bodies. Loaders return these inside the success envelope.

// UserView is the public part of a user. The password hash never leaves the
// service layer.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// FolderView is a persisted folder or the All Notes folder.
type FolderView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	NotesCount int        `json:"notes_count"`
	Virtual    bool       `json:"virtual,omitempty" doc:"True for the All Notes folder"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// NoteView is a single note.
type NoteView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Copy        string    `json:"copy"`
	IsPinned    bool      `json:"is_pinned"`
	FolderID    *string   `json:"folder_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NotesView holds notes split by pin state.
type NotesView struct {
	Pinned   []NoteView `json:"pinned"`
	Unpinned []NoteView `json:"unpinned"`
}

// FlashView is the one-shot status message of the previous action.
type FlashView struct {
	Message string `json:"message,omitempty"`
	Variant string `json:"variant,omitempty" enum:"info,error"`
}

func toUserView(u *domain.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toFolderView(v domain.FolderView) FolderView {
	switch f := v.(type) {
	case *domain.Folder:
		createdAt := f.CreatedAt
		return FolderView{ID: f.ID, Name: f.Name, NotesCount: f.NotesCount, CreatedAt: &createdAt}
	case domain.AllNotesFolder:
		return allNotesView(f.NotesCount)
	default:
		return FolderView{}
	}
}

func allNotesView(count int) FolderView {
	return FolderView{ID: domain.AllNotesID, Name: domain.AllNotesName, NotesCount: count, Virtual: true}
}

func toNoteView(n *domain.Note) NoteView {
	return NoteView{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Copy:        n.Copy,
		IsPinned:    n.IsPinned,
		FolderID:    n.FolderID,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func toNoteViews(notes []*domain.Note) []NoteView {
	out := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteView(n))
	}
	return out
}

func toNotesView(p domain.PartitionedNotes) NotesView {
	return NotesView{Pinned: toNoteViews(p.Pinned), Unpinned: toNoteViews(p.Unpinned)}
}

// flashVariant maps the status query parameter of a redirect target to the
// flash variant.
func flashVariant(status string) string {
	if status == "success" {
		return "info"
	}
	return "error"
}
