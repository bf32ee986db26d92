package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
	"github.com/campdir/campdir-api/internal/repository"
)

// In-memory store fakes backing the service tests. They reproduce the
// repository contracts the services depend on: the same sentinel errors
// and the same aggregation semantics.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserStore struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*model.User{}, nextID: 1}
}

func (f *fakeUserStore) add(u *model.User) *model.User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.add(u)
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByResetToken(_ context.Context, digest string) (*model.User, error) {
	for _, u := range f.users {
		if u.ResetTokenHash != "" && u.ResetTokenHash == digest {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserStore) SetResetToken(_ context.Context, id int64, digest string, expiry time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetTokenHash = digest
	u.ResetTokenExpiry = &expiry
	return nil
}

func (f *fakeUserStore) ClearResetToken(_ context.Context, id int64) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
	return nil
}

type fakeBootcampStore struct {
	bootcamps map[int64]*model.Bootcamp
	nextID    int64

	deleteErr     error
	avgUpdateErr  error
	avgCostCalls  []int64
	lastAvgCost   *int64
	lastAvgCostID int64
}

func newFakeBootcampStore() *fakeBootcampStore {
	return &fakeBootcampStore{bootcamps: map[int64]*model.Bootcamp{}, nextID: 1}
}

func (f *fakeBootcampStore) add(b *model.Bootcamp) *model.Bootcamp {
	if b.ID == 0 {
		b.ID = f.nextID
		f.nextID++
	}
	f.bootcamps[b.ID] = b
	return b
}

func (f *fakeBootcampStore) Create(_ context.Context, b *model.Bootcamp) error {
	for _, existing := range f.bootcamps {
		if existing.Name == b.Name {
			return repository.ErrDuplicateName
		}
	}
	f.add(b)
	return nil
}

func (f *fakeBootcampStore) GetByID(_ context.Context, id int64) (*model.Bootcamp, error) {
	b, ok := f.bootcamps[id]
	if !ok {
		return nil, repository.ErrBootcampNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBootcampStore) GetByOwner(_ context.Context, userID int64) (*model.Bootcamp, error) {
	for _, b := range f.bootcamps {
		if b.UserID == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrBootcampNotFound
}

func (f *fakeBootcampStore) Update(_ context.Context, b *model.Bootcamp) error {
	existing, ok := f.bootcamps[b.ID]
	if !ok {
		return repository.ErrBootcampNotFound
	}
	for _, other := range f.bootcamps {
		if other.ID != b.ID && other.Name == b.Name {
			return repository.ErrDuplicateName
		}
	}
	cp := *b
	cp.AverageCost = existing.AverageCost
	f.bootcamps[b.ID] = &cp
	return nil
}

func (f *fakeBootcampStore) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.bootcamps[id]; !ok {
		return repository.ErrBootcampNotFound
	}
	delete(f.bootcamps, id)
	return nil
}

func (f *fakeBootcampStore) UpdateAverageCost(_ context.Context, id int64, avg *int64) error {
	f.avgCostCalls = append(f.avgCostCalls, id)
	f.lastAvgCostID = id
	f.lastAvgCost = avg
	if f.avgUpdateErr != nil {
		return f.avgUpdateErr
	}
	b, ok := f.bootcamps[id]
	if !ok {
		return repository.ErrBootcampNotFound
	}
	b.AverageCost = avg
	return nil
}

func (f *fakeBootcampStore) UpdatePhoto(_ context.Context, id int64, filename string) error {
	b, ok := f.bootcamps[id]
	if !ok {
		return repository.ErrBootcampNotFound
	}
	b.Photo = filename
	return nil
}

func (f *fakeBootcampStore) List(_ context.Context, _ query.Params) ([]model.Bootcamp, int, error) {
	out := make([]model.Bootcamp, 0, len(f.bootcamps))
	for _, b := range f.bootcamps {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeBootcampStore) ListWithinRadius(_ context.Context, lat, lng, radiusRadians float64) ([]model.Bootcamp, error) {
	var out []model.Bootcamp
	for _, b := range f.bootcamps {
		if b.Location == nil {
			continue
		}
		if greatCircleRadians(lat, lng, b.Location.Latitude, b.Location.Longitude) <= radiusRadians {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func greatCircleRadians(lat1, lng1, lat2, lng2 float64) float64 {
	const deg = math.Pi / 180
	cosine := math.Sin(lat1*deg)*math.Sin(lat2*deg) +
		math.Cos(lat1*deg)*math.Cos(lat2*deg)*math.Cos((lng2-lng1)*deg)
	return math.Acos(math.Max(-1, math.Min(1, cosine)))
}

type fakeCourseStore struct {
	courses map[int64]*model.Course
	nextID  int64

	deleteByBootcampErr error
	averageErr          error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: map[int64]*model.Course{}, nextID: 1}
}

func (f *fakeCourseStore) add(c *model.Course) *model.Course {
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	}
	f.courses[c.ID] = c
	return c
}

func (f *fakeCourseStore) Create(_ context.Context, c *model.Course) error {
	f.add(c)
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) Update(_ context.Context, c *model.Course) error {
	if _, ok := f.courses[c.ID]; !ok {
		return repository.ErrCourseNotFound
	}
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return repository.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseStore) DeleteByBootcamp(_ context.Context, bootcampID int64) error {
	if f.deleteByBootcampErr != nil {
		return f.deleteByBootcampErr
	}
	for id, c := range f.courses {
		if c.BootcampID == bootcampID {
			delete(f.courses, id)
		}
	}
	return nil
}

func (f *fakeCourseStore) AverageTuition(_ context.Context, bootcampID int64) (*int64, error) {
	if f.averageErr != nil {
		return nil, f.averageErr
	}
	var sum, n int64
	for _, c := range f.courses {
		if c.BootcampID == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := int64(math.Ceil(float64(sum) / float64(n)))
	return &avg, nil
}

func (f *fakeCourseStore) List(_ context.Context, _ query.Params, opt repository.CourseListOptions) ([]repository.CourseRow, int, error) {
	var out []repository.CourseRow
	for _, c := range f.courses {
		if opt.BootcampID != 0 && c.BootcampID != opt.BootcampID {
			continue
		}
		out = append(out, repository.CourseRow{Course: *c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Course.ID < out[j].Course.ID })
	return out, len(out), nil
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeGeocoder struct {
	location model.Location
	err      error
	calls    int
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (model.Location, error) {
	f.calls++
	if f.err != nil {
		return model.Location{}, f.err
	}
	loc := f.location
	if loc.FormattedAddress == "" {
		loc.FormattedAddress = address
	}
	return loc, nil
}

var errStoreDown = errors.New("store down")
