package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campdir/campdir-api/internal/repository"
)

// Coordinator keeps the denormalized data between bootcamps and their
// courses consistent. It is the single writer of a bootcamp's
// average_cost: no request path sets that column directly.
type Coordinator struct {
	courses   CourseStore
	bootcamps BootcampStore
	logger    *slog.Logger
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(courses CourseStore, bootcamps BootcampStore, logger *slog.Logger) *Coordinator {
	return &Coordinator{courses: courses, bootcamps: bootcamps, logger: logger}
}

// RecomputeAverageCost recalculates the ceiling of the mean tuition over
// a bootcamp's courses and writes it to the bootcamp. When the last
// course is gone the average is cleared to NULL. Failures are absorbed
// and logged: a stale aggregate is a recoverable inconsistency, and the
// course mutation that triggered the recompute has already succeeded, so
// nothing propagates back into that request's error path. A bootcamp
// that no longer exists is a logged no-op for the same reason.
func (c *Coordinator) RecomputeAverageCost(ctx context.Context, bootcampID int64) {
	avg, err := c.courses.AverageTuition(ctx, bootcampID)
	if err != nil {
		c.logger.Error("average cost aggregation failed",
			slog.Int64("bootcamp_id", bootcampID), slog.String("error", err.Error()))
		return
	}

	if err := c.bootcamps.UpdateAverageCost(ctx, bootcampID, avg); err != nil {
		if errors.Is(err, repository.ErrBootcampNotFound) {
			c.logger.Warn("skipping average cost update for missing bootcamp",
				slog.Int64("bootcamp_id", bootcampID))
			return
		}
		c.logger.Error("average cost update failed",
			slog.Int64("bootcamp_id", bootcampID), slog.String("error", err.Error()))
	}
}

// CascadeDeleteCourses removes every course referencing the bootcamp.
// This is phase one of the two-phase bootcamp deletion and must complete
// before the bootcamp row itself is removed; a failure here is fatal to
// the whole deletion and leaves the bootcamp (and its courses) in place.
//
// There is no transaction spanning the two phases, so a course created
// under the bootcamp concurrently with the cascade can survive as an
// orphan. That race is accepted; each phase is an atomic store operation
// on its own.
func (c *Coordinator) CascadeDeleteCourses(ctx context.Context, bootcampID int64) error {
	if err := c.courses.DeleteByBootcamp(ctx, bootcampID); err != nil {
		return fmt.Errorf("cascade deleting courses of bootcamp %d: %w", bootcampID, err)
	}
	return nil
}
