package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takuyahirata23/quick-note/internal/auth"
)

// createFolder posts a folder and returns its ID from the dashboard.
func (ts *testServer) createFolder(t *testing.T, cookie, name string) string {
	t.Helper()

	resp := ts.api.Post("/folders", cookie, map[string]any{"name": name})
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	require.Equal(t, "/dashboard", resp.Header().Get("Location"))

	dash := ts.dashboard(t, cookie)
	for _, f := range dash.Folders {
		if f.Name == name {
			return f.ID
		}
	}
	t.Fatalf("folder %q not on dashboard", name)
	return ""
}

func (ts *testServer) dashboard(t *testing.T, cookie string, headers ...any) DashboardResponse {
	t.Helper()

	resp := ts.api.Get("/dashboard", append([]any{cookie}, headers...)...)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decode[DashboardResponse](t, resp.Body.Bytes()).Data
}

func (ts *testServer) folder(t *testing.T, cookie, folderID string) FolderResponse {
	t.Helper()

	resp := ts.api.Get("/folders/"+folderID, cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decode[FolderResponse](t, resp.Body.Bytes()).Data
}

func TestDashboard_Empty(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "dash@example.com")

	dash := ts.dashboard(t, cookie)

	assert.Equal(t, "dash@example.com", dash.User.Email)
	assert.Equal(t, "Test User", dash.User.Name)
	assert.Equal(t, "all", dash.AllNotes.ID)
	assert.Equal(t, "All Notes", dash.AllNotes.Name)
	assert.Equal(t, 0, dash.AllNotes.NotesCount)
	assert.NotNil(t, dash.Folders)
	assert.Empty(t, dash.Folders)
	assert.Empty(t, dash.Message)
}

func TestCreateFolder(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "folders@example.com")

	first := ts.createFolder(t, cookie, "Work")
	second := ts.createFolder(t, cookie, "Home")

	dash := ts.dashboard(t, cookie)
	require.Len(t, dash.Folders, 2)
	assert.Equal(t, first, dash.Folders[0].ID)
	assert.Equal(t, second, dash.Folders[1].ID)
	assert.Equal(t, 0, dash.Folders[0].NotesCount)
}

func TestCreateFolder_Validation(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "folders@example.com")

	resp := ts.api.Post("/folders", cookie, map[string]any{"name": " x "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Folder name must have at least 2 characters")

	assert.Empty(t, ts.dashboard(t, cookie).Folders)
}

func TestGetFolder_AllNotesEmpty(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "all@example.com")

	got := ts.folder(t, cookie, "all")

	assert.Equal(t, "all", got.Folder.ID)
	assert.True(t, got.Folder.Virtual)
	assert.Equal(t, 0, got.Folder.NotesCount)
	assert.NotNil(t, got.Notes.Pinned)
	assert.NotNil(t, got.Notes.Unpinned)
	assert.Empty(t, got.Notes.Pinned)
	assert.Empty(t, got.Notes.Unpinned)
}

func TestGetFolder_NotFound(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "missing@example.com")

	resp := ts.api.Get("/folders/folder-missing", cookie)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[any](t, resp.Body.Bytes()).Code)
}

func TestGetFolder_OtherUser(t *testing.T) {
	ts := setupTestServer(t, Options{})
	owner := ts.signUp(t, "owner@example.com")
	other := ts.signUp(t, "other@example.com")

	folderID := ts.createFolder(t, owner, "Private")

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/folders/"+folderID, other).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Put("/folders/"+folderID, other, map[string]any{"name": "Mine"}).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Delete("/folders/"+folderID, other).Code)

	assert.Equal(t, "Private", ts.folder(t, owner, folderID).Folder.Name)
}

func TestRenameFolder(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "rename@example.com")
	folderID := ts.createFolder(t, cookie, "Old")

	resp := ts.api.Put("/folders/"+folderID, cookie, map[string]any{"name": "  New name  "})
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	assert.Equal(t, "/folders/"+folderID, resp.Header().Get("Location"))

	assert.Equal(t, "New name", ts.folder(t, cookie, folderID).Folder.Name)
}

func TestRenameFolder_AllNotes(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "rename@example.com")

	resp := ts.api.Put("/folders/all", cookie, map[string]any{"name": "Everything"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteFolder_FlashAndCascade(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "delete@example.com")
	folderID := ts.createFolder(t, cookie, "Doomed")
	ts.createNote(t, cookie, folderID, "Inside", "goes with the folder")

	resp := ts.api.Delete("/folders/"+folderID, cookie)
	require.Equal(t, http.StatusSeeOther, resp.Code, resp.Body.String())
	assert.Equal(t, "/dashboard?status=success", resp.Header().Get("Location"))

	flash := findCookie(resp.Result().Cookies(), auth.FlashCookieName)
	require.NotNil(t, flash)

	dashResp := ts.api.Get("/dashboard?status=success", cookie+"; "+flash.Name+"="+flash.Value)
	require.Equal(t, http.StatusOK, dashResp.Code)
	dash := decode[DashboardResponse](t, dashResp.Body.Bytes()).Data
	assert.Equal(t, "Folder deleted", dash.Message)
	assert.Equal(t, "info", dash.Variant)
	assert.Empty(t, dash.Folders)
	assert.Equal(t, 0, dash.AllNotes.NotesCount)

	cleared := findCookie(dashResp.Result().Cookies(), auth.FlashCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestDashboard_ForgedFlashIgnored(t *testing.T) {
	ts := setupTestServer(t, Options{})
	cookie := ts.signUp(t, "flash@example.com")

	dash := ts.dashboard(t, cookie+"; QN_flash=forged")
	assert.Empty(t, dash.Message)
	assert.Empty(t, dash.Variant)
}

func TestFolderPath(t *testing.T) {
	assert.True(t, strings.HasPrefix(folderPath(scopeOf("a b")), "/folders/a%20b"))
	assert.Equal(t, "/folders/all", folderPath(scopeOf("all")))
}
