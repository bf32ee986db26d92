package service

import (
	"context"
	"time"

	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
	"github.com/campdir/campdir-api/internal/repository"
)

// Store interfaces are defined on the consumer side so services can be
// tested against in-memory fakes. The repository package provides the
// MySQL implementations.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByResetToken(ctx context.Context, digest string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetResetToken(ctx context.Context, id int64, digest string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id int64) error
}

type BootcampStore interface {
	Create(ctx context.Context, b *model.Bootcamp) error
	GetByID(ctx context.Context, id int64) (*model.Bootcamp, error)
	GetByOwner(ctx context.Context, userID int64) (*model.Bootcamp, error)
	Update(ctx context.Context, b *model.Bootcamp) error
	Delete(ctx context.Context, id int64) error
	UpdateAverageCost(ctx context.Context, id int64, avg *int64) error
	UpdatePhoto(ctx context.Context, id int64, filename string) error
	List(ctx context.Context, p query.Params) ([]model.Bootcamp, int, error)
	ListWithinRadius(ctx context.Context, lat, lng, radiusRadians float64) ([]model.Bootcamp, error)
}

type CourseStore interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id int64) error
	DeleteByBootcamp(ctx context.Context, bootcampID int64) error
	AverageTuition(ctx context.Context, bootcampID int64) (*int64, error)
	List(ctx context.Context, p query.Params, opt repository.CourseListOptions) ([]repository.CourseRow, int, error)
}
