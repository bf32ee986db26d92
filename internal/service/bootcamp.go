package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campdir/campdir-api/internal/geocode"
	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
	"github.com/campdir/campdir-api/internal/repository"
	"github.com/gosimple/slug"
)

var (
	ErrBootcampNotFound    = errors.New("bootcamp not found")
	ErrDuplicateName       = errors.New("bootcamp name already taken")
	ErrDescriptionRequired = errors.New("description is required")
	ErrAddressRequired     = errors.New("address is required")
	ErrCareersRequired     = errors.New("at least one career is required")
	ErrInvalidCareer       = errors.New("invalid career")
	ErrGeocodeFailed       = errors.New("could not geocode address")
)

// earthRadiusKm converts a distance in km into great-circle radians.
const earthRadiusKm = 6378.0

// BootcampService handles bootcamp business logic: validation, the
// one-bootcamp-per-publisher rule, derived slug/location fields and the
// two-phase cascading delete.
type BootcampService struct {
	bootcamps   BootcampStore
	users       UserStore
	geocoder    geocode.Geocoder
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewBootcampService creates a new BootcampService.
func NewBootcampService(bootcamps BootcampStore, users UserStore, geocoder geocode.Geocoder, coordinator *Coordinator, logger *slog.Logger) *BootcampService {
	return &BootcampService{
		bootcamps:   bootcamps,
		users:       users,
		geocoder:    geocoder,
		coordinator: coordinator,
		logger:      logger,
	}
}

// Create validates a bootcamp draft, derives its slug and geocoded
// location, and persists it with the actor as owner. The request type
// carries no slug/location/average_cost fields, so client-supplied
// values for the derived fields never reach this path. Both derivations
// must succeed before anything is persisted, so a record is never stored
// half-geocoded.
func (s *BootcampService) Create(ctx context.Context, actorID int64, req model.CreateBootcampRequest) (*model.Bootcamp, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if err := validateBootcampFields(req.Name, req.Description, req.Address, req.Careers); err != nil {
		return nil, err
	}

	alreadyOwns := true
	if _, err := s.bootcamps.GetByOwner(ctx, actorID); err != nil {
		if !errors.Is(err, repository.ErrBootcampNotFound) {
			return nil, err
		}
		alreadyOwns = false
	}
	if err := CanPublish(actor, alreadyOwns); err != nil {
		return nil, err
	}

	location, err := s.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}

	b := &model.Bootcamp{
		UserID:        actorID,
		Name:          req.Name,
		Slug:          slug.Make(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Location:      &location,
		Careers:       req.Careers,
		Photo:         model.DefaultPhoto,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGI:      req.AcceptGI,
	}

	if err := s.bootcamps.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return b, nil
}

// Get retrieves a single bootcamp. Public.
func (s *BootcampService) Get(ctx context.Context, id int64) (*model.Bootcamp, error) {
	b, err := s.bootcamps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBootcampNotFound) {
			return nil, ErrBootcampNotFound
		}
		return nil, err
	}
	return b, nil
}

// List returns a filtered page of bootcamps and the filtered total. Public.
func (s *BootcampService) List(ctx context.Context, p query.Params) ([]model.Bootcamp, int, error) {
	return s.bootcamps.List(ctx, p)
}

// Update applies a partial update to a bootcamp. Existence is resolved
// before ownership so a missing id yields not-found, not not-authorized.
// Renaming re-derives the slug; a changed address re-geocodes, and a
// geocoding failure aborts the whole update.
func (s *BootcampService) Update(ctx context.Context, actorID, id int64, req model.UpdateBootcampRequest) (*model.Bootcamp, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, b.UserID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrNameRequired
		}
		b.Name = *req.Name
		b.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, ErrDescriptionRequired
		}
		b.Description = *req.Description
	}
	if req.Website != nil {
		b.Website = *req.Website
	}
	if req.Phone != nil {
		b.Phone = *req.Phone
	}
	if req.Email != nil {
		b.Email = *req.Email
	}
	if req.Careers != nil {
		if err := validateCareers(*req.Careers); err != nil {
			return nil, err
		}
		b.Careers = *req.Careers
	}
	if req.Housing != nil {
		b.Housing = *req.Housing
	}
	if req.JobAssistance != nil {
		b.JobAssistance = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		b.JobGuarantee = *req.JobGuarantee
	}
	if req.AcceptGI != nil {
		b.AcceptGI = *req.AcceptGI
	}
	if req.Address != nil {
		if *req.Address == "" {
			return nil, ErrAddressRequired
		}
		location, err := s.geocoder.Geocode(ctx, *req.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
		}
		b.Location = &location
	}

	if err := s.bootcamps.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return b, nil
}

// Delete removes a bootcamp and cascades to its courses. The cascade
// runs to completion before the bootcamp row is touched: if deleting the
// children fails, the bootcamp survives intact; if the parent delete
// fails afterwards, that partial state is surfaced as a fatal error.
func (s *BootcampService) Delete(ctx context.Context, actorID, id int64) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := CanModify(actor, b.UserID); err != nil {
		return err
	}

	if err := s.coordinator.CascadeDeleteCourses(ctx, id); err != nil {
		return err
	}

	if err := s.bootcamps.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting bootcamp %d after course cascade: %w", id, err)
	}
	return nil
}

// WithinRadius resolves a zip code to coordinates and returns all
// bootcamps within distanceKm of it, measured as great-circle distance
// on a sphere of radius 6378 km. Public.
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distanceKm float64) ([]model.Bootcamp, error) {
	center, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}

	return s.bootcamps.ListWithinRadius(ctx, center.Latitude, center.Longitude, distanceKm/earthRadiusKm)
}

// UpdatePhoto authorizes a photo upload against the bootcamp's owner and
// persists the derived filename photo_<id><ext>. The caller writes the
// actual bytes to disk after this succeeds.
func (s *BootcampService) UpdatePhoto(ctx context.Context, actorID, id int64, ext string) (string, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return "", err
	}
	if err := CanModify(actor, b.UserID); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("photo_%d%s", id, ext)
	if err := s.bootcamps.UpdatePhoto(ctx, id, filename); err != nil {
		return "", err
	}
	return filename, nil
}

func (s *BootcampService) actor(ctx context.Context, actorID int64) (*model.User, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return actor, nil
}

func validateBootcampFields(name, description, address string, careers []string) error {
	if name == "" {
		return ErrNameRequired
	}
	if description == "" {
		return ErrDescriptionRequired
	}
	if address == "" {
		return ErrAddressRequired
	}
	return validateCareers(careers)
}

func validateCareers(careers []string) error {
	if len(careers) == 0 {
		return ErrCareersRequired
	}
	for _, c := range careers {
		if !model.IsValidCareer(c) {
			return fmt.Errorf("%w: %q", ErrInvalidCareer, c)
		}
	}
	return nil
}
