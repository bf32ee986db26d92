package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campdir/campdir-api/internal/model"
)

func TestRecomputeAverageCostCeilsMean(t *testing.T) {
	bootcamps := newFakeBootcampStore()
	courses := newFakeCourseStore()
	b := bootcamps.add(&model.Bootcamp{Name: "Devworks"})
	courses.add(&model.Course{BootcampID: b.ID, Tuition: 10000})
	courses.add(&model.Course{BootcampID: b.ID, Tuition: 10001})

	coord := NewCoordinator(courses, bootcamps, testLogger())
	coord.RecomputeAverageCost(context.Background(), b.ID)

	got := bootcamps.bootcamps[b.ID].AverageCost
	if got == nil {
		t.Fatal("average cost not set")
	}
	// mean 10000.5 rounds up
	if *got != 10001 {
		t.Errorf("average cost = %d, want 10001", *got)
	}
}

func TestRecomputeAverageCostClearsWhenNoCourses(t *testing.T) {
	bootcamps := newFakeBootcampStore()
	courses := newFakeCourseStore()
	avg := int64(9000)
	b := bootcamps.add(&model.Bootcamp{Name: "Devworks", AverageCost: &avg})

	coord := NewCoordinator(courses, bootcamps, testLogger())
	coord.RecomputeAverageCost(context.Background(), b.ID)

	if bootcamps.bootcamps[b.ID].AverageCost != nil {
		t.Error("average cost should be cleared when no courses remain")
	}
}

func TestRecomputeAverageCostMissingBootcampIsNoOp(t *testing.T) {
	bootcamps := newFakeBootcampStore()
	courses := newFakeCourseStore()
	courses.add(&model.Course{BootcampID: 42, Tuition: 5000})

	coord := NewCoordinator(courses, bootcamps, testLogger())
	coord.RecomputeAverageCost(context.Background(), 42)

	if len(bootcamps.avgCostCalls) != 1 {
		t.Fatalf("update calls = %d, want 1", len(bootcamps.avgCostCalls))
	}
}

func TestRecomputeAverageCostAbsorbsStoreFailure(t *testing.T) {
	bootcamps := newFakeBootcampStore()
	courses := newFakeCourseStore()
	courses.averageErr = errStoreDown

	coord := NewCoordinator(courses, bootcamps, testLogger())
	// must not panic or propagate
	coord.RecomputeAverageCost(context.Background(), 1)

	if len(bootcamps.avgCostCalls) != 0 {
		t.Error("no update should be attempted when aggregation fails")
	}
}

func TestCascadeDeleteCoursesFailureIsFatal(t *testing.T) {
	bootcamps := newFakeBootcampStore()
	courses := newFakeCourseStore()
	courses.deleteByBootcampErr = errStoreDown

	coord := NewCoordinator(courses, bootcamps, testLogger())
	err := coord.CascadeDeleteCourses(context.Background(), 1)
	if !errors.Is(err, errStoreDown) {
		t.Errorf("CascadeDeleteCourses() = %v, want wrapped %v", err, errStoreDown)
	}
}

func TestCascadeDeleteCoursesRemovesOnlyChildren(t *testing.T) {
	bootcamps := newFakeBootcampStore()
	courses := newFakeCourseStore()
	courses.add(&model.Course{BootcampID: 1, Tuition: 100})
	courses.add(&model.Course{BootcampID: 1, Tuition: 200})
	other := courses.add(&model.Course{BootcampID: 2, Tuition: 300})

	coord := NewCoordinator(courses, bootcamps, testLogger())
	if err := coord.CascadeDeleteCourses(context.Background(), 1); err != nil {
		t.Fatalf("CascadeDeleteCourses() error = %v", err)
	}

	if len(courses.courses) != 1 {
		t.Fatalf("courses left = %d, want 1", len(courses.courses))
	}
	if _, ok := courses.courses[other.ID]; !ok {
		t.Error("course of another bootcamp was deleted")
	}
}
