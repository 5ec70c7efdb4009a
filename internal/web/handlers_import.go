package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/tcgstock/internal/core"
)

const (
	// multipartMemory is how much of an upload is buffered in memory before
	// spilling to a temp file.
	multipartMemory = 8 << 20

	// formOverhead allows for multipart boundaries and the other form fields.
	formOverhead = 1 << 20

	// pasteOverhead allows for the JSON envelope around the pasted text.
	pasteOverhead = 4 << 10
)

// pasteRequest is the body of the paste endpoints.
type pasteRequest struct {
	Text     string `json:"text"`
	GameMode string `json:"game_mode"`
}

// PreviewResponse is the body of the preview endpoints.
type PreviewResponse struct {
	Profile  string                  `json:"profile,omitempty"`
	Records  []core.NormalizedRecord `json:"records"`
	Imported int                     `json:"imported"`
	Quantity int                     `json:"quantity"`
	Failures []core.FailureReport    `json:"failures"`
}

// handleImportPaste parses a pasted card list into the owner's inventory.
func (s *Server) handleImportPaste(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerParam(w, r)
	if !ok {
		return
	}
	req, mode, ok := s.decodePaste(w, r)
	if !ok {
		return
	}

	summary, err := s.service.ImportPaste(withClient(r), owner, req.Text, mode)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

// handleImportUpload imports a spreadsheet into the owner's inventory.
func (s *Server) handleImportUpload(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.ownerParam(w, r)
	if !ok {
		return
	}
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := s.service.ImportSheet(withClient(r), owner, header.Filename, file, r.FormValue("profile"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

// handlePreviewPaste parses a pasted list without storing anything.
func (s *Server) handlePreviewPaste(w http.ResponseWriter, r *http.Request) {
	req, mode, ok := s.decodePaste(w, r)
	if !ok {
		return
	}

	result, err := s.service.PreviewPaste(withClient(r), req.Text, mode)
	if err != nil {
		respondError(w, r, err, 0)
		return
	}

	quantity := 0
	for _, rec := range result.Records {
		quantity += rec.Quantity
	}
	writeJSON(w, r, http.StatusOK, PreviewResponse{
		Records:  nonNil(result.Records),
		Imported: result.Imported,
		Quantity: quantity,
		Failures: core.Reports(result.Outcomes),
	})
}

// handlePreviewUpload decodes and maps a spreadsheet without storing anything.
func (s *Server) handlePreviewUpload(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := s.service.PreviewSheet(withClient(r), header.Filename, file, r.FormValue("profile"))
	if err != nil {
		respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, PreviewResponse{
		Profile:  result.Profile,
		Records:  nonNil(result.Records),
		Imported: len(result.Records),
		Quantity: result.QuantityTotal,
		Failures: core.Reports(result.Outcomes),
	})
}

// ProfileResponse describes one registered column profile.
type ProfileResponse struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	DefaultGame string `json:"default_game,omitempty"`
}

// handleListProfiles lists the registered spreadsheet profiles.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := core.Profiles()
	resp := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, ProfileResponse{Key: p.Key, Label: p.Label, DefaultGame: p.DefaultGame})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// ownerParam parses the {ownerID} path parameter.
func (s *Server) ownerParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	owner, err := uuid.Parse(chi.URLParam(r, "ownerID"))
	if err != nil || owner == uuid.Nil {
		respondBadRequest(w, r, fmt.Errorf("%w: %q", errInvalidOwner, chi.URLParam(r, "ownerID")))
		return uuid.Nil, false
	}
	return owner, true
}

// decodePaste reads and validates a paste request body.
func (s *Server) decodePaste(w http.ResponseWriter, r *http.Request) (pasteRequest, core.GameMode, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxPasteBytes+pasteOverhead)

	var req pasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if bodyTooLarge(err) {
			respondError(w, r, fmt.Errorf("%w: body exceeds %d bytes", core.ErrPasteTooLarge, s.cfg.Import.MaxPasteBytes), 0)
			return req, "", false
		}
		respondBadRequest(w, r, fmt.Errorf("%w: %v", errInvalidBody, err))
		return req, "", false
	}

	mode, err := core.ParseGameMode(req.GameMode)
	if err != nil {
		respondError(w, r, err, 0)
		return req, "", false
	}
	return req, mode, true
}

// formFile parses the multipart form and returns the "file" part.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+formOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if bodyTooLarge(err) {
			respondError(w, r, errFileTooLarge, 0)
			return nil, nil, false
		}
		respondBadRequest(w, r, fmt.Errorf("%w: %v", errInvalidBody, err))
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile, 0)
		return nil, nil, false
	}
	return file, header, true
}

// bodyTooLarge reports whether err came from http.MaxBytesReader. The
// multipart reader does not always wrap the underlying error.
func bodyTooLarge(err error) bool {
	var tooBig *http.MaxBytesError
	return errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large")
}

func nonNil(records []core.NormalizedRecord) []core.NormalizedRecord {
	if records == nil {
		return []core.NormalizedRecord{}
	}
	return records
}
