package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/storelens/internal/export"
	"github.com/KaramelBytes/storelens/internal/logging"
	"github.com/KaramelBytes/storelens/internal/mapper"
	"github.com/KaramelBytes/storelens/internal/session"
	"github.com/KaramelBytes/storelens/internal/storetype"
)

// multipartMemory is the in-memory part of a parsed upload; the rest spills
// to temporary files.
const multipartMemory = 32 << 20

// sessionView is the session summary returned by most endpoints.
type sessionView struct {
	session.Info
	Validation *mapper.ValidationResult `json:"validation,omitempty"`
}

func viewOf(sess *session.Session) sessionView {
	v := sessionView{Info: sess.Info()}
	if res, err := sess.Validate(); err == nil {
		v.Validation = &res
	}
	return v
}

// mappingRequest is the body of PUT /mapping. An empty column unmaps the
// field.
type mappingRequest struct {
	Mapping   map[string]string `json:"mapping"`
	StoreType string            `json:"store_type,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "sessions": s.store.len()})
}

// withSession runs fn with the session named by the {id} parameter held
// exclusively.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	id := chi.URLParam(r, "id")
	e, ok := s.store.get(id)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.sess); err != nil {
		respondError(w, r, err)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if s.opt.Load.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opt.Load.MaxBytes+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, err)
			return
		}
		respondErrorStatus(w, r, fmt.Errorf("parse upload: %w", err), http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondErrorStatus(w, r, fmt.Errorf("form field \"file\": %w", err), http.StatusBadRequest, "MISSING_FILE")
		return
	}
	defer file.Close()

	var category storetype.Category
	if raw := r.FormValue("store_type"); raw != "" {
		if category, err = storetype.Parse(raw); err != nil {
			respondErrorStatus(w, r, err, http.StatusBadRequest, "INVALID_STORE_TYPE")
			return
		}
	}

	sess, err := session.NewWithOptions(s.opt)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := sess.LoadReader(r.Context(), header.Filename, file); err != nil {
		respondError(w, r, err)
		return
	}
	if category != "" {
		if err := sess.SetCategory(category); err != nil {
			respondErrorStatus(w, r, err, http.StatusBadRequest, "INVALID_STORE_TYPE")
			return
		}
	}
	evicted := s.store.put(sess)
	log := logging.WithFields(r.Context(), "session_id", sess.ID)
	if len(evicted) > 0 {
		log.Info("sessions evicted", "evicted", evicted)
	}
	log.Info("session created",
		"file", header.Filename,
		"size", header.Size,
		"sessions", s.store.len(),
	)
	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	writeJSON(w, r, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) error {
		writeJSON(w, r, http.StatusOK, viewOf(sess))
		return nil
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.remove(id) {
		respondError(w, r, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return
	}
	logging.WithFields(r.Context(), "session_id", id).Info("session deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateMapping(w http.ResponseWriter, r *http.Request) {
	var req mappingRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondErrorStatus(w, r, fmt.Errorf("decode mapping: %w", err), http.StatusBadRequest, "BAD_REQUEST")
		return
	}
	pairs := make([]string, 0, len(req.Mapping))
	for field, col := range req.Mapping {
		pairs = append(pairs, field+"="+col)
	}
	sort.Strings(pairs)
	overrides, err := mapper.ParseOverrides(pairs)
	if err != nil {
		respondErrorStatus(w, r, err, http.StatusBadRequest, "INVALID_FIELD")
		return
	}
	var category storetype.Category
	if req.StoreType != "" {
		if category, err = storetype.Parse(req.StoreType); err != nil {
			respondErrorStatus(w, r, err, http.StatusBadRequest, "INVALID_STORE_TYPE")
			return
		}
	}

	s.withSession(w, r, func(sess *session.Session) error {
		if err := sess.Override(r.Context(), overrides); err != nil {
			return err
		}
		if category != "" {
			if err := sess.SetCategory(category); err != nil {
				return err
			}
		}
		writeJSON(w, r, http.StatusOK, viewOf(sess))
		return nil
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	s.withSession(w, r, func(sess *session.Session) error {
		if lang == "" {
			lang = sess.Language()
		}
		res, err := sess.AnalyzeIn(r.Context(), lang)
		if err != nil {
			return err
		}
		writeJSON(w, r, http.StatusOK, res)
		return nil
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := export.Extension(q.Get("format"))
	if format == "" {
		format = export.FormatMarkdown
	}
	s.withSession(w, r, func(sess *session.Session) error {
		out, err := sess.Report(r.Context(), q.Get("lang"), format)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", export.ContentType(format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out))
		return nil
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	lang := r.URL.Query().Get("lang")
	s.withSession(w, r, func(sess *session.Session) error {
		c, err := sess.Chart(r.Context(), kind, lang)
		if err != nil {
			return err
		}
		writeJSON(w, r, http.StatusOK, c)
		return nil
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := export.Extension(q.Get("format"))
	if format == "" {
		format = export.FormatJSON
	}
	target := strings.ToLower(q.Get("target"))
	if target == "" {
		target = "analysis"
	}
	if target != "analysis" && target != "table" {
		respondErrorStatus(w, r, fmt.Errorf("unknown export target %q (use analysis or table)", target), http.StatusBadRequest, "BAD_REQUEST")
		return
	}

	s.withSession(w, r, func(sess *session.Session) error {
		var (
			data []byte
			err  error
		)
		if target == "table" {
			if sess.Table() == nil {
				return session.ErrNoTable
			}
			data, err = export.EncodeTable(sess.Table(), format)
		} else {
			res := sess.Result()
			if res == nil {
				return session.ErrNotAnalyzed
			}
			data, err = export.EncodeAnalysis(res, format, sess.ReportOptions())
		}
		if err != nil {
			return err
		}
		name := fmt.Sprintf("storelens_%s_%s.%s", target, shortID(sess.ID), format)
		w.Header().Set("Content-Type", export.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return nil
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
