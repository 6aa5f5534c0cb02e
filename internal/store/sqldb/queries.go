package sqldb

// Query definitions. Every statement is parameterized and every folder or
// note statement is scoped by user_id.

// userColumns must match the scan order in scanUser.
const userColumns = `id, name, email, password_hash, created_at`

const (
	insertUserQuery = `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`

	selectUserByIDQuery = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	selectUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	deleteUserQuery = `DELETE FROM users WHERE id = ?`
)

// folderColumns must match the scan order in scanFolder.
const folderColumns = `a.id, a.name, a.user_id, a.created_at, COUNT(b.id) AS notes_count`

const folderFrom = `
		FROM folders a
		LEFT JOIN notes b ON b.folder_id = a.id`

const folderGroupBy = `
		GROUP BY a.id, a.name, a.user_id, a.created_at`

const (
	insertFolderQuery = `
		INSERT INTO folders (id, name, user_id, created_at)
		VALUES (?, ?, ?, ?)`

	selectFolderQuery = `SELECT ` + folderColumns + folderFrom + `
		WHERE a.user_id = ? AND a.id = ?` + folderGroupBy

	selectFoldersQuery = `SELECT ` + folderColumns + folderFrom + `
		WHERE a.user_id = ?` + folderGroupBy + `
		ORDER BY a.created_at ASC, a.id ASC`

	updateFolderQuery = `UPDATE folders SET name = ? WHERE user_id = ? AND id = ?`

	deleteFolderQuery = `DELETE FROM folders WHERE user_id = ? AND id = ?`
)

// noteColumns must match the scan order in scanNote.
const noteColumns = `id, title, description, copy, is_pinned, user_id, folder_id, created_at, updated_at`

const noteOrder = ` ORDER BY is_pinned DESC, updated_at DESC`

const (
	insertNoteQuery = `
		INSERT INTO notes (id, title, description, copy, is_pinned, user_id, folder_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectNoteQuery = `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? AND id = ?`

	selectAllNotesQuery = `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ?` + noteOrder

	selectNotesUnderFolderQuery = `SELECT ` + noteColumns + ` FROM notes
		WHERE user_id = ? AND folder_id = ?` + noteOrder

	countNotesQuery = `SELECT COUNT(*) FROM notes WHERE user_id = ?`

	updateNoteQuery = `
		UPDATE notes SET title = ?, description = ?, copy = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`

	updateIsPinnedQuery = `
		UPDATE notes SET is_pinned = ?, updated_at = ?
		WHERE user_id = ? AND id = ?`

	deleteNoteQuery = `DELETE FROM notes WHERE user_id = ? AND id = ?`
)
