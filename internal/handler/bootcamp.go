package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campdir/campdir-api/internal/middleware"
	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
	"github.com/campdir/campdir-api/internal/service"
)

// BootcampHandler handles HTTP requests for bootcamp operations.
type BootcampHandler struct {
	service       *service.BootcampService
	uploadDir     string
	maxUploadSize int64
}

// NewBootcampHandler creates a new BootcampHandler.
func NewBootcampHandler(svc *service.BootcampService, uploadDir string, maxUploadSize int64) *BootcampHandler {
	return &BootcampHandler{service: svc, uploadDir: uploadDir, maxUploadSize: maxUploadSize}
}

// HandleList handles GET /api/v1/bootcamps requests.
func (h *BootcampHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p := query.Parse(r.URL.Query())

	bootcamps, total, err := h.service.List(r.Context(), p)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	data := make([]model.BootcampResponse, 0, len(bootcamps))
	for i := range bootcamps {
		data = append(data, bootcamps[i].ToResponse())
	}

	respondList(w, query.Project(data, p.Select), len(data), query.Paginate(p.Page, p.Limit, total))
}

// HandleGet handles GET /api/v1/bootcamps/{id} requests.
func (h *BootcampHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "bootcamp not found")
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBootcampNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondData(w, http.StatusOK, b.ToResponse())
}

// HandleCreate handles POST /api/v1/bootcamps requests.
func (h *BootcampHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.CreateBootcampRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.respondBootcampError(w, err)
		return
	}

	respondData(w, http.StatusCreated, b.ToResponse())
}

// HandleUpdate handles PUT /api/v1/bootcamps/{id} requests.
func (h *BootcampHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := parseID(w, r, "id", "bootcamp not found")
	if !ok {
		return
	}

	var req model.UpdateBootcampRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		h.respondBootcampError(w, err)
		return
	}

	respondData(w, http.StatusOK, b.ToResponse())
}

// HandleDelete handles DELETE /api/v1/bootcamps/{id} requests.
func (h *BootcampHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := parseID(w, r, "id", "bootcamp not found")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.respondBootcampError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleWithinRadius handles GET /api/v1/bootcamps/radius/{zipcode}/{distance}
// requests. distance is in kilometers.
func (h *BootcampHandler) HandleWithinRadius(w http.ResponseWriter, r *http.Request) {
	zipcode := chi.URLParam(r, "zipcode")
	distance, err := strconv.ParseFloat(chi.URLParam(r, "distance"), 64)
	if err != nil || distance <= 0 {
		respondError(w, http.StatusBadRequest, "invalid distance")
		return
	}

	bootcamps, err := h.service.WithinRadius(r.Context(), zipcode, distance)
	if err != nil {
		if errors.Is(err, service.ErrGeocodeFailed) {
			respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	data := make([]model.BootcampResponse, 0, len(bootcamps))
	for i := range bootcamps {
		data = append(data, bootcamps[i].ToResponse())
	}

	count := len(data)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

// HandlePhotoUpload handles PUT /api/v1/bootcamps/{id}/photo requests.
// The photo is submitted as the multipart field "file"; the stored
// filename is derived from the bootcamp id, so re-uploads overwrite.
func (h *BootcampHandler) HandlePhotoUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := parseID(w, r, "id", "bootcamp not found")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+4096)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "please upload a file")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		respondError(w, http.StatusBadRequest, "file too large")
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		respondError(w, http.StatusBadRequest, "please upload an image file")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename, err := h.service.UpdatePhoto(r.Context(), userID, id, ext)
	if err != nil {
		h.respondBootcampError(w, err)
		return
	}

	if err := h.savePhoto(file, filename); err != nil {
		respondError(w, http.StatusInternalServerError, "could not store file")
		return
	}

	respondData(w, http.StatusOK, filename)
}

func (h *BootcampHandler) savePhoto(src io.Reader, filename string) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(h.uploadDir, filename))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (h *BootcampHandler) respondBootcampError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrDescriptionRequired),
		errors.Is(err, service.ErrAddressRequired),
		errors.Is(err, service.ErrCareersRequired),
		errors.Is(err, service.ErrInvalidCareer),
		errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrAlreadyPublished):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrBootcampNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrNotAuthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrGeocodeFailed):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseID reads a numeric URL parameter. A malformed id can never match
// a stored resource, so it reports not-found rather than bad-request.
func parseID(w http.ResponseWriter, r *http.Request, name, notFoundMsg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusNotFound, notFoundMsg)
		return 0, false
	}
	return id, true
}
