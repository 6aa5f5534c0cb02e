package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takuyahirata23/quick-note/internal/auth"
	"github.com/takuyahirata23/quick-note/internal/domain"
)

func scopeOf(param string) domain.FolderScope { return domain.ParseFolderScope(param) }

// createNote posts a note into folderID ("all" for no folder) and returns its ID.
func (ts *testServer) createNote(t *testing.T, cookie, folderID, title, description string) string {
	t.Helper()

	resp := ts.api.Post("/folders/"+folderID+"/notes", cookie, map[string]any{
		"title":       title,
		"description": description,
		"copy":        "body of " + title,
	})
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	require.Equal(t, "/folders/"+folderID, resp.Header().Get("Location"))

	got := ts.folder(t, cookie, folderID)
	for _, n := range append(got.Notes.Pinned, got.Notes.Unpinned...) {
		if n.Title == title {
			return n.ID
		}
	}
	t.Fatalf("note %q not in folder %s", title, folderID)
	return ""
}

func (ts *testServer) note(t *testing.T, cookie, noteID string) NoteView {
	t.Helper()

	resp := ts.api.Get("/notes/"+noteID, cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decode[NoteResponse](t, resp.Body.Bytes()).Data.Note
}

func TestCreateNote_InFolder(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "notes@example.com")
	folderID := ts.createFolder(t, cookie, "Work")

	noteID := ts.createNote(t, cookie, folderID, "Standup", "daily notes")

	n := ts.note(t, cookie, noteID)
	assert.Equal(t, "Standup", n.Title)
	assert.Equal(t, "daily notes", n.Description)
	assert.Equal(t, "body of Standup", n.Copy)
	assert.False(t, n.IsPinned)
	require.NotNil(t, n.FolderID)
	assert.Equal(t, folderID, *n.FolderID)

	all := ts.folder(t, cookie, "all")
	assert.Equal(t, 1, all.Folder.NotesCount)
	assert.Equal(t, 1, ts.folder(t, cookie, folderID).Folder.NotesCount)
}

func TestCreateNote_AllNotesHasNoFolder(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "notes@example.com")

	noteID := ts.createNote(t, cookie, "all", "Loose", "belongs nowhere")

	assert.Nil(t, ts.note(t, cookie, noteID).FolderID)
	assert.Equal(t, 1, ts.dashboard(t, cookie).AllNotes.NotesCount)
}

func TestCreateNote_Validation(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "notes@example.com")

	resp := ts.api.Post("/folders/all/notes", cookie, map[string]any{"title": "x", "description": ""})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Title must have at least 2 characters")
	assert.Contains(t, body, "Description must have at least 2 characters")
}

func TestCreateNote_UnknownFolder(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "notes@example.com")

	resp := ts.api.Post("/folders/folder-missing/notes", cookie, map[string]any{"title": "Hi", "description": "there"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestEditNote(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "edit@example.com")
	folderID := ts.createFolder(t, cookie, "Work")
	noteID := ts.createNote(t, cookie, folderID, "Draft", "first pass")
	before := ts.note(t, cookie, noteID)

	resp := ts.api.Put("/notes/"+noteID, cookie, map[string]any{
		"title":       "Final",
		"description": "second pass",
		"copy":        "",
	})
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	assert.Equal(t, "/folders/"+folderID, resp.Header().Get("Location"))

	after := ts.note(t, cookie, noteID)
	assert.Equal(t, "Final", after.Title)
	assert.Equal(t, "second pass", after.Description)
	assert.Empty(t, after.Copy)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))
}

func TestPinNote(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "pin@example.com")
	first := ts.createNote(t, cookie, "all", "First", "one")
	second := ts.createNote(t, cookie, "all", "Second", "two")

	resp := ts.api.Put("/notes/"+first+"/pin?pinned=true", cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	assert.Equal(t, "/folders/all", resp.Header().Get("Location"))

	all := ts.folder(t, cookie, "all")
	require.Len(t, all.Notes.Pinned, 1)
	require.Len(t, all.Notes.Unpinned, 1)
	assert.Equal(t, first, all.Notes.Pinned[0].ID)
	assert.Equal(t, second, all.Notes.Unpinned[0].ID)

	resp = ts.api.Put("/notes/"+first+"/pin?pinned=false", cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code)

	all = ts.folder(t, cookie, "all")
	assert.Empty(t, all.Notes.Pinned)
	assert.Len(t, all.Notes.Unpinned, 2)
}

func TestDeleteNote(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "delete@example.com")
	folderID := ts.createFolder(t, cookie, "Work")
	noteID := ts.createNote(t, cookie, folderID, "Temp", "remove me")

	resp := ts.api.Delete("/notes/"+noteID, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	assert.Equal(t, "/folders/"+folderID+"?status=success", resp.Header().Get("Location"))

	flash := findCookie(resp.Result().Cookies(), auth.FlashCookieName)
	require.NotNil(t, flash)

	folderResp := ts.api.Get("/folders/"+folderID+"?status=success", cookie+"; "+flash.Name+"="+flash.Value)
	require.Equal(t, http.StatusOK, folderResp.Code)
	got := decode[FolderResponse](t, folderResp.Body.Bytes()).Data
	assert.Equal(t, "Note deleted", got.Message)
	assert.Equal(t, "info", got.Variant)
	assert.Empty(t, got.Notes.Pinned)
	assert.Empty(t, got.Notes.Unpinned)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/notes/"+noteID, cookie).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Delete("/notes/"+noteID, cookie).Code)
}

func TestNotes_OtherUserCannotTouch(t *testing.T) {
	ts := setupTestServer(t, Options{})
	owner := ts.signUp(t, "owner@example.com")
	other := ts.signUp(t, "other@example.com")
	noteID := ts.createNote(t, owner, "all", "Secret", "mine only")

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/notes/"+noteID, other).Code)
	assert.Equal(t, http.StatusNotFound,
		ts.api.Put("/notes/"+noteID, other, map[string]any{"title": "Hacked", "description": "oops"}).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Put("/notes/"+noteID+"/pin?pinned=true", other).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Delete("/notes/"+noteID, other).Code)

	n := ts.note(t, owner, noteID)
	assert.Equal(t, "Secret", n.Title)
	assert.False(t, n.IsPinned)
	assert.Equal(t, 0, ts.folder(t, other, "all").Folder.NotesCount)
}
