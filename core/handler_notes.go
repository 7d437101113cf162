package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/caasmo/notefold/db"
)

const (
	CodeOkNote      = "ok_note"
	CodeOkNotesList = "ok_notes_list"
)

// noteRecord is the wire shape of a note. The owner id is implicit, a
// caller only ever sees their own notes.
type noteRecord struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

func newNoteRecord(n *db.Note) noteRecord {
	return noteRecord{
		ID:      n.ID,
		Title:   n.Title,
		Content: n.Content,
		Created: n.Created,
		Updated: n.Updated,
	}
}

func writeNote(w http.ResponseWriter, status int, message string, n *db.Note) {
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  status,
			Code:    CodeOkNote,
			Message: message,
		},
		Data: newNoteRecord(n),
	})
}

// ListNotesHandler returns all the caller's notes.
// Endpoint: GET /api/notes
// Authenticated: Yes
func (a *App) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	notes, err := a.DbNote().ListNotes(user.ID)
	if err != nil {
		a.Logger().Error("notes: list failed", "owner_id", user.ID, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	records := make([]noteRecord, 0, len(notes))
	for _, n := range notes {
		records = append(records, newNoteRecord(n))
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkNotesList,
			Message: "Notes list",
		},
		Data: records,
	})
}

// CreateNoteHandler creates a note owned by the caller.
// Endpoint: POST /api/notes
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	user := UserFromContext(r.Context())

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJsonError(w, errorValidationTitle)
		return
	}

	note, err := a.DbNote().CreateNote(db.Note{
		OwnerId: user.ID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		a.Logger().Error("notes: create failed", "owner_id", user.ID, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeNote(w, http.StatusOK, "Note created", note)
}

// GetNoteHandler returns one of the caller's notes.
// Endpoint: GET /api/notes/{id}
// Authenticated: Yes
//
// Ownership is enforced by the query: another user's note id answers 404,
// indistinguishable from a note that does not exist.
func (a *App) GetNoteHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := a.Router().Param(r, "id")

	note, err := a.DbNote().GetNote(id, user.ID)
	if err != nil {
		a.Logger().Error("notes: get failed", "note_id", id, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}
	if note == nil {
		writeJsonError(w, errorNotFound)
		return
	}

	writeNote(w, http.StatusOK, "Note", note)
}

// UpdateNoteHandler replaces the title and content of one of the caller's
// notes.
// Endpoint: PUT /api/notes/{id}
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *App) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	user := UserFromContext(r.Context())
	id := a.Router().Param(r, "id")

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJsonError(w, errorValidationTitle)
		return
	}

	note, err := a.DbNote().UpdateNote(db.Note{
		ID:      id,
		OwnerId: user.ID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, db.ErrNoteNotFound) {
			writeJsonError(w, errorNotFound)
			return
		}
		a.Logger().Error("notes: update failed", "note_id", id, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeNote(w, http.StatusOK, "Note updated", note)
}

// DeleteNoteHandler deletes one of the caller's notes.
// Endpoint: DELETE /api/notes/{id}
// Authenticated: Yes
func (a *App) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id := a.Router().Param(r, "id")

	if err := a.DbNote().DeleteNote(id, user.ID); err != nil {
		if errors.Is(err, db.ErrNoteNotFound) {
			writeJsonError(w, errorNotFound)
			return
		}
		a.Logger().Error("notes: delete failed", "note_id", id, "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeJsonOk(w, okDeleted)
}
