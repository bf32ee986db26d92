package handler

import (
	"errors"
	"net/http"

	"github.com/campdir/campdir-api/internal/middleware"
	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
	"github.com/campdir/campdir-api/internal/repository"
	"github.com/campdir/campdir-api/internal/service"
)

// CourseHandler handles HTTP requests for course operations. Listing is
// mounted twice: globally at /api/v1/courses and nested under a bootcamp
// at /api/v1/bootcamps/{id}/courses.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// HandleList handles GET /api/v1/courses requests. The global listing
// expands each row with its parent bootcamp summary.
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, repository.CourseListOptions{ExpandBootcamp: true})
}

// HandleListByBootcamp handles GET /api/v1/bootcamps/{id}/courses requests.
func (h *CourseHandler) HandleListByBootcamp(w http.ResponseWriter, r *http.Request) {
	bootcampID, ok := parseID(w, r, "id", "bootcamp not found")
	if !ok {
		return
	}
	h.list(w, r, repository.CourseListOptions{BootcampID: bootcampID})
}

func (h *CourseHandler) list(w http.ResponseWriter, r *http.Request, opt repository.CourseListOptions) {
	p := query.Parse(r.URL.Query())

	rows, total, err := h.service.List(r.Context(), p, opt)
	if err != nil {
		if errors.Is(err, service.ErrBootcampNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	data := make([]model.CourseResponse, 0, len(rows))
	for i := range rows {
		resp := rows[i].Course.ToResponse()
		resp.Bootcamp = rows[i].Bootcamp
		data = append(data, resp)
	}

	respondList(w, query.Project(data, p.Select), len(data), query.Paginate(p.Page, p.Limit, total))
}

// HandleGet handles GET /api/v1/courses/{id} requests.
func (h *CourseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "course not found")
	if !ok {
		return
	}

	course, summary, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := course.ToResponse()
	resp.Bootcamp = summary
	respondData(w, http.StatusOK, resp)
}

// HandleCreate handles POST /api/v1/bootcamps/{id}/courses requests.
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	bootcampID, ok := parseID(w, r, "id", "bootcamp not found")
	if !ok {
		return
	}

	var req model.CreateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.Create(r.Context(), userID, bootcampID, req)
	if err != nil {
		h.respondCourseError(w, err)
		return
	}

	respondData(w, http.StatusCreated, course.ToResponse())
}

// HandleUpdate handles PUT /api/v1/courses/{id} requests.
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := parseID(w, r, "id", "course not found")
	if !ok {
		return
	}

	var req model.UpdateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.service.Update(r.Context(), userID, id, req)
	if err != nil {
		h.respondCourseError(w, err)
		return
	}

	respondData(w, http.StatusOK, course.ToResponse())
}

// HandleDelete handles DELETE /api/v1/courses/{id} requests.
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := parseID(w, r, "id", "course not found")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.respondCourseError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CourseHandler) respondCourseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrWeeksRequired),
		errors.Is(err, service.ErrTuitionRequired),
		errors.Is(err, service.ErrInvalidSkill):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrBootcampNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrNotAuthorized):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
