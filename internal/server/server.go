package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"schooldirectory/internal/app"
	"schooldirectory/internal/util"
	"schooldirectory/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App               *app.App
	MaxUploadBytes    int64
	AllowedExtensions []string
}

// Server exposes the directory's HTTP endpoints.
type Server struct {
	app               *app.App
	mux               *http.ServeMux
	maxUploadBytes    int64
	allowedExtensions map[string]struct{}
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:               cfg.App,
		mux:               http.NewServeMux(),
		maxUploadBytes:    normalizeMaxBytes(cfg.MaxUploadBytes),
		allowedExtensions: normalizeExtensions(cfg.AllowedExtensions),
	}
	s.routes()
	return s
}

// Router returns the configured handler wrapped in the shared middleware
// chain.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/schools", s.handleSchools)
	s.mux.HandleFunc("/api/schools/", s.handleSchoolByID)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleAddSchool(w, r)
	case http.MethodGet:
		s.handleListSchools(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /api/schools/{id}
func (s *Server) handleSchoolByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/schools/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid school id")
		return
	}
	school, err := s.app.GetSchool(r.Context(), id)
	if errors.Is(err, domain.ErrSchoolNotFound) {
		writeError(w, http.StatusNotFound, "school not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, school)
}

func (s *Server) handleAddSchool(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	sub := domain.Submission{
		Name:    r.FormValue("name"),
		Address: r.FormValue("address"),
		City:    r.FormValue("city"),
		State:   r.FormValue("state"),
		Contact: r.FormValue("contact"),
		EmailID: r.FormValue("email_id"),
		Website: r.FormValue("website"),
	}

	var image *app.ImageUpload
	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		if !s.isExtensionAllowed(header.Filename) {
			writeError(w, http.StatusBadRequest, "unsupported image type")
			return
		}
		image = &app.ImageUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Reader:   file,
		}
	case errors.Is(err, http.ErrMissingFile):
		// Image is optional unless imageRequired is configured; the app
		// layer enforces that.
	default:
		writeError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	school, err := s.app.Submit(r.Context(), sub, image)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, addSchoolResponse{
		Success: true,
		ID:      school.ID,
		School:  school,
	})
}

func (s *Server) handleListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := s.app.ListSchools(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list schools")
		return
	}
	query := r.URL.Query()
	search := query.Get("search")
	sortKey := query.Get("sort")
	stateFilter := query.Get("state")
	if search != "" || sortKey != "" || stateFilter != "" {
		schools = domain.Apply(schools, search, domain.SortKey(sortKey), stateFilter)
	}
	writeJSON(w, http.StatusOK, schools)
}

func (s *Server) isExtensionAllowed(filename string) bool {
	if len(s.allowedExtensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := s.allowedExtensions[ext]
	return ok
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type addSchoolResponse struct {
	Success bool          `json:"success"`
	ID      int64         `json:"id"`
	School  domain.School `json:"school"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      errorCodeFor(status, msg),
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

func errorCodeFor(status int, msg string) string {
	message := strings.ToLower(strings.TrimSpace(msg))
	switch {
	case message == "file too large":
		return "SCHOOL_IMAGE_TOO_LARGE"
	case message == "unsupported image type":
		return "SCHOOL_UNSUPPORTED_IMAGE_TYPE"
	case message == "invalid form data", message == "invalid image upload":
		return "SCHOOL_INVALID_UPLOAD_FORM"
	case message == "school not found":
		return "SCHOOL_NOT_FOUND"
	case message == "invalid school id":
		return "SCHOOL_INVALID_ID"
	case message == "method not allowed":
		return "SYSTEM_METHOD_NOT_ALLOWED"
	}
	switch status {
	case http.StatusBadRequest:
		return "SCHOOL_INVALID_SUBMISSION"
	case http.StatusNotFound:
		return "SCHOOL_NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "SYSTEM_METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return "SYSTEM_INTERNAL_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return 10 * 1024 * 1024
	}
	return value
}

func normalizeExtensions(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = []string{".jpg", ".jpeg", ".png", ".webp"}
	}
	out := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	return out
}
