package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"spend-hq/ganymede/pkg/policy/ast"
	"spend-hq/ganymede/pkg/policy/manager"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// documentResponse wraps the document with its version for GET /api/v1/policy
// and successful command dispatches.
type documentResponse struct {
	Document *ast.Policy `json:"document"`
	Version  int64       `json:"version"`
}

// catalogResponse carries the fixed option lists backing the builder.
type catalogResponse struct {
	Subjects  []ast.Option `json:"subjects"`
	Operators []ast.Option `json:"operators"`
	Teams     []ast.Option `json:"teams"`
	CardUsers []ast.Option `json:"cardUsers"`
	Cards     []ast.Option `json:"cards"`
	Approvers []ast.Option `json:"approvers"`
}

// translateRequest is the body of POST /api/v1/translate.
type translateRequest struct {
	// Text is the free-form rule description.
	Text string `json:"text"`

	// Apply installs the translated containers into the live document
	// when the response is still current.
	Apply bool `json:"apply,omitempty"`
}

// translateResponse mirrors the generation backend's envelope. Success is
// false only on transport failure; extraction itself always yields a rule.
type translateResponse struct {
	Success     bool             `json:"success"`
	Data        []*ast.Container `json:"data,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
	Error       string           `json:"error,omitempty"`

	// Applied reports whether the result was installed into the document.
	// Only meaningful when the request asked for application.
	Applied bool  `json:"applied,omitempty"`
	Version int64 `json:"version,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handlePolicy serves the current document.
func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	doc := s.manager.Document()
	writeJSON(w, http.StatusOK, documentResponse{
		Document: doc,
		Version:  s.manager.Version(),
	})
}

// handleCommands dispatches a single mutation command.
//
// Malformed bodies and unknown operations are 400s. Commands the engine
// rejects are 422s with the rejection reason; the document is unchanged.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	var cmd manager.Command
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, version, err := s.manager.Dispatch(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, manager.ErrUnknownOp) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{Document: doc, Version: version})
}

// handleCatalog serves the fixed option lists.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{
		Subjects:  ast.SubjectOptions(),
		Operators: ast.OperatorOptions(),
		Teams:     ast.TeamOptions(),
		CardUsers: ast.CardUserOptions(),
		Cards:     ast.CardOptions(),
		Approvers: ast.ApproverOptions(),
	})
}

// handleTranslate runs one translation round trip and optionally installs
// the result. A transport failure is reported as success:false with a 200;
// only a malformed request is a client error.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	resp, err := s.translate.Generate(r.Context(), req.Text)
	if err != nil {
		s.metrics.RecordTranslation("error", time.Since(start))
		writeJSON(w, http.StatusOK, translateResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}
	s.metrics.RecordTranslation("success", time.Since(start))

	out := translateResponse{
		Success:     true,
		Data:        resp.Containers,
		Explanation: resp.Explanation,
	}

	if req.Apply {
		applied, err := s.manager.ApplyTranslation(r.Context(), s.translate, resp)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out.Applied = applied
		if applied {
			out.Version = s.manager.Version()
		}
	}

	writeJSON(w, http.StatusOK, out)
}

// handleVersions lists the stored document versions, newest first. Bodies
// are omitted.
func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	records, err := s.storage.Versions(r.Context(), s.documentName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleAudit serves recent audit entries, newest first. A containerId query
// parameter filters to entries targeting that container; limit caps the
// unfiltered listing (default 50).
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if containerID := r.URL.Query().Get("containerId"); containerID != "" {
		entries, err := s.auditLog.ByContainer(r.Context(), containerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := s.auditLog.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
