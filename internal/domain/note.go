package domain

import "time"

// Note is a user-owned note. A nil FolderID means the note only shows up in
// the All Notes view.
type Note struct {
	ID          string
	Title       string
	Description string
	Copy        string
	IsPinned    bool
	UserID      string
	FolderID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Scope returns the folder scope the note lives in.
func (n *Note) Scope() FolderScope {
	if n.FolderID == nil {
		return AllNotesScope()
	}
	return FolderScopeOf(*n.FolderID)
}

// PartitionedNotes splits notes by pin state. Both slices are non-nil.
type PartitionedNotes struct {
	Pinned   []*Note
	Unpinned []*Note
}

// Len returns the total number of notes.
func (p PartitionedNotes) Len() int { return len(p.Pinned) + len(p.Unpinned) }

// GroupByPin partitions notes in one left-to-right pass, keeping the input
// order inside each group.
func GroupByPin(notes []*Note) PartitionedNotes {
	out := PartitionedNotes{Pinned: []*Note{}, Unpinned: []*Note{}}
	for _, n := range notes {
		if n.IsPinned {
			out.Pinned = append(out.Pinned, n)
		} else {
			out.Unpinned = append(out.Unpinned, n)
		}
	}
	return out
}
