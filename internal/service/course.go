package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
	"github.com/campdir/campdir-api/internal/repository"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrWeeksRequired   = errors.New("weeks is required")
	ErrTuitionRequired = errors.New("tuition must be positive")
	ErrInvalidSkill    = errors.New("minimum skill must be beginner, intermediate or advanced")
)

// CourseService handles course business logic. Every course mutation
// ends with an average cost recompute on the parent bootcamp; the
// recompute never fails the request that triggered it.
type CourseService struct {
	courses     CourseStore
	bootcamps   BootcampStore
	users       UserStore
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courses CourseStore, bootcamps BootcampStore, users UserStore, coordinator *Coordinator, logger *slog.Logger) *CourseService {
	return &CourseService{
		courses:     courses,
		bootcamps:   bootcamps,
		users:       users,
		coordinator: coordinator,
		logger:      logger,
	}
}

// List returns a filtered page of courses and the filtered total. With a
// non-zero opt.BootcampID the page is scoped to that bootcamp's courses;
// opt.ExpandBootcamp attaches the parent summary to each row. Public.
func (s *CourseService) List(ctx context.Context, p query.Params, opt repository.CourseListOptions) ([]repository.CourseRow, int, error) {
	if opt.BootcampID != 0 {
		if _, err := s.bootcamps.GetByID(ctx, opt.BootcampID); err != nil {
			if errors.Is(err, repository.ErrBootcampNotFound) {
				return nil, 0, ErrBootcampNotFound
			}
			return nil, 0, err
		}
	}
	return s.courses.List(ctx, p, opt)
}

// Get retrieves a single course with its parent bootcamp summary. Public.
func (s *CourseService) Get(ctx context.Context, id int64) (*model.Course, *model.BootcampSummary, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, err
	}

	var summary *model.BootcampSummary
	if b, err := s.bootcamps.GetByID(ctx, course.BootcampID); err == nil {
		summary = &model.BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}
	}
	return course, summary, nil
}

// Create adds a course under a bootcamp. The parent must exist (resolved
// before any authorization so a missing id is not-found) and the actor
// must own it or be an admin; course ownership follows the creating
// actor. On success the parent's average cost is recomputed.
func (s *CourseService) Create(ctx context.Context, actorID, bootcampID int64, req model.CreateCourseRequest) (*model.Course, error) {
	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		if errors.Is(err, repository.ErrBootcampNotFound) {
			return nil, ErrBootcampNotFound
		}
		return nil, err
	}

	actor, err := s.actorUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, b.UserID); err != nil {
		return nil, err
	}

	if err := validateCourseFields(req.Title, req.Weeks, req.Tuition, req.MinimumSkill); err != nil {
		return nil, err
	}

	course := &model.Course{
		BootcampID:           bootcampID,
		UserID:               actorID,
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.coordinator.RecomputeAverageCost(ctx, bootcampID)
	return course, nil
}

// Update applies a partial update to a course. Authorization checks the
// course's own creator, not the parent bootcamp's owner. A tuition
// change triggers an average cost recompute on the parent.
func (s *CourseService) Update(ctx context.Context, actorID, id int64, req model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	actor, err := s.actorUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, course.UserID); err != nil {
		return nil, err
	}

	tuitionChanged := false
	if req.Title != nil {
		if *req.Title == "" {
			return nil, ErrTitleRequired
		}
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Weeks != nil {
		if *req.Weeks == "" {
			return nil, ErrWeeksRequired
		}
		course.Weeks = *req.Weeks
	}
	if req.Tuition != nil {
		if *req.Tuition <= 0 {
			return nil, ErrTuitionRequired
		}
		if *req.Tuition != course.Tuition {
			tuitionChanged = true
		}
		course.Tuition = *req.Tuition
	}
	if req.MinimumSkill != nil {
		if !model.IsValidSkill(*req.MinimumSkill) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSkill, *req.MinimumSkill)
		}
		course.MinimumSkill = *req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		course.ScholarshipAvailable = *req.ScholarshipAvailable
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	if tuitionChanged {
		s.coordinator.RecomputeAverageCost(ctx, course.BootcampID)
	}
	return course, nil
}

// Delete removes a course and recomputes the parent's average cost.
// Deleting the last course clears the average rather than leaving a
// stale value behind.
func (s *CourseService) Delete(ctx context.Context, actorID, id int64) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	actor, err := s.actorUser(ctx, actorID)
	if err != nil {
		return err
	}
	if err := CanModify(actor, course.UserID); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.coordinator.RecomputeAverageCost(ctx, course.BootcampID)
	return nil
}

func (s *CourseService) actorUser(ctx context.Context, actorID int64) (*model.User, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return actor, nil
}

func validateCourseFields(title, weeks string, tuition int64, skill string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if weeks == "" {
		return ErrWeeksRequired
	}
	if tuition <= 0 {
		return ErrTuitionRequired
	}
	if !model.IsValidSkill(skill) {
		return fmt.Errorf("%w: %q", ErrInvalidSkill, skill)
	}
	return nil
}
