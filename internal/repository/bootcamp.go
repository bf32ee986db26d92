package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
)

var (
	ErrBootcampNotFound = errors.New("bootcamp not found")
	ErrDuplicateName    = errors.New("bootcamp name already exists")
)

const bootcampColumns = `id, user_id, name, slug, description, website, phone, email,
	latitude, longitude, formatted_address, street, city, state, zipcode, country,
	careers, average_cost, photo, housing, job_assistance, job_guarantee, accept_gi,
	created_at, updated_at`

// bootcampListColumns whitelists the fields listing requests may filter
// and sort on. careers is a JSON column and intentionally absent.
var bootcampListColumns = map[string]string{
	"name":           "name",
	"city":           "city",
	"state":          "state",
	"average_cost":   "average_cost",
	"housing":        "housing",
	"job_assistance": "job_assistance",
	"job_guarantee":  "job_guarantee",
	"accept_gi":      "accept_gi",
	"created_at":     "created_at",
	"id":             "id",
}

// BootcampRepository handles bootcamp persistence operations.
type BootcampRepository struct {
	db *sql.DB
}

// NewBootcampRepository creates a new BootcampRepository.
func NewBootcampRepository(db *sql.DB) *BootcampRepository {
	return &BootcampRepository{db: db}
}

// Create inserts a new bootcamp and sets the generated ID on the struct.
// The caller is responsible for having derived slug and location first.
func (r *BootcampRepository) Create(ctx context.Context, b *model.Bootcamp) error {
	careers, err := json.Marshal(b.Careers)
	if err != nil {
		return err
	}

	q := `INSERT INTO bootcamps
		(user_id, name, slug, description, website, phone, email,
		 latitude, longitude, formatted_address, street, city, state, zipcode, country,
		 careers, photo, housing, job_assistance, job_guarantee, accept_gi)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	lat, lng, loc := flattenLocation(b.Location)
	photo := b.Photo
	if photo == "" {
		photo = model.DefaultPhoto
	}

	result, err := r.db.ExecContext(ctx, q,
		b.UserID, b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email,
		lat, lng, loc.FormattedAddress, loc.Street, loc.City, loc.State, loc.Zipcode, loc.Country,
		careers, photo, b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGI,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateName
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	b.Photo = photo
	return nil
}

// GetByID retrieves a bootcamp by its ID.
func (r *BootcampRepository) GetByID(ctx context.Context, id int64) (*model.Bootcamp, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bootcampColumns+` FROM bootcamps WHERE id = ?`, id)
	return scanBootcamp(row)
}

// GetByOwner retrieves the bootcamp owned by the given user, if any.
func (r *BootcampRepository) GetByOwner(ctx context.Context, userID int64) (*model.Bootcamp, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bootcampColumns+` FROM bootcamps WHERE user_id = ? LIMIT 1`, userID)
	return scanBootcamp(row)
}

// Update writes the mutable fields of a bootcamp back to the store.
// Derived fields (slug, location) are included because the service
// recomputes them; average_cost is not. Only the consistency coordinator
// writes that column, through UpdateAverageCost.
func (r *BootcampRepository) Update(ctx context.Context, b *model.Bootcamp) error {
	careers, err := json.Marshal(b.Careers)
	if err != nil {
		return err
	}

	q := `UPDATE bootcamps SET
		name = ?, slug = ?, description = ?, website = ?, phone = ?, email = ?,
		latitude = ?, longitude = ?, formatted_address = ?, street = ?, city = ?,
		state = ?, zipcode = ?, country = ?, careers = ?,
		housing = ?, job_assistance = ?, job_guarantee = ?, accept_gi = ?
		WHERE id = ?`

	lat, lng, loc := flattenLocation(b.Location)
	_, err = r.db.ExecContext(ctx, q,
		b.Name, b.Slug, b.Description, b.Website, b.Phone, b.Email,
		lat, lng, loc.FormattedAddress, loc.Street, loc.City, loc.State, loc.Zipcode, loc.Country,
		careers, b.Housing, b.JobAssistance, b.JobGuarantee, b.AcceptGI, b.ID,
	)
	if err != nil && isDuplicateEntryError(err) {
		return ErrDuplicateName
	}
	return err
}

// Delete removes a bootcamp row. Cascading its courses happens before
// this call, in the consistency coordinator.
func (r *BootcampRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bootcamps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBootcampNotFound
	}
	return nil
}

// UpdateAverageCost writes the derived average cost. A nil value clears
// the column (no courses left). Returns ErrBootcampNotFound when the
// bootcamp no longer exists, which the coordinator treats as a no-op.
func (r *BootcampRepository) UpdateAverageCost(ctx context.Context, id int64, avg *int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bootcamps SET average_cost = ? WHERE id = ?`, avg, id)
	if err != nil {
		return err
	}

	// RowsAffected is 0 both for a missing row and for an unchanged
	// value, so existence needs its own check.
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM bootcamps WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBootcampNotFound
	}
	return err
}

// UpdatePhoto stores the uploaded photo filename.
func (r *BootcampRepository) UpdatePhoto(ctx context.Context, id int64, filename string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bootcamps SET photo = ? WHERE id = ?`, filename, id)
	return err
}

// List returns a filtered, sorted, paginated page of bootcamps plus the
// total size of the filtered set (before pagination).
func (r *BootcampRepository) List(ctx context.Context, p query.Params) ([]model.Bootcamp, int, error) {
	where, args := whereClause(bootcampListColumns, p.Filters, nil, nil)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bootcamps`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + bootcampColumns + ` FROM bootcamps` + where +
		orderClause(bootcampListColumns, p.Sorts, "id ASC") +
		` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bootcamps []model.Bootcamp
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, 0, err
		}
		bootcamps = append(bootcamps, *b)
	}
	return bootcamps, total, rows.Err()
}

// ListWithinRadius returns all bootcamps whose geocoded location lies
// within radiusRadians great-circle radians of the given point. The
// caller converts a distance in km to radians (distance / earth radius).
func (r *BootcampRepository) ListWithinRadius(ctx context.Context, lat, lng, radiusRadians float64) ([]model.Bootcamp, error) {
	// Spherical law of cosines, clamped into ACOS's domain to survive
	// floating point drift on near-identical points.
	q := fmt.Sprintf(`SELECT %s FROM bootcamps
		WHERE latitude IS NOT NULL
		  AND ACOS(LEAST(1, GREATEST(-1,
			SIN(RADIANS(?)) * SIN(RADIANS(latitude)) +
			COS(RADIANS(?)) * COS(RADIANS(latitude)) * COS(RADIANS(longitude) - RADIANS(?))
		  ))) <= ?`, bootcampColumns)

	rows, err := r.db.QueryContext(ctx, q, lat, lat, lng, radiusRadians)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bootcamps []model.Bootcamp
	for rows.Next() {
		b, err := scanBootcamp(rows)
		if err != nil {
			return nil, err
		}
		bootcamps = append(bootcamps, *b)
	}
	return bootcamps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBootcamp(row rowScanner) (*model.Bootcamp, error) {
	b := &model.Bootcamp{}
	var (
		lat, lng sql.NullFloat64
		loc      model.Location
		careers  []byte
		avgCost  sql.NullInt64
	)

	err := row.Scan(
		&b.ID, &b.UserID, &b.Name, &b.Slug, &b.Description, &b.Website, &b.Phone, &b.Email,
		&lat, &lng, &loc.FormattedAddress, &loc.Street, &loc.City, &loc.State, &loc.Zipcode, &loc.Country,
		&careers, &avgCost, &b.Photo, &b.Housing, &b.JobAssistance, &b.JobGuarantee, &b.AcceptGI,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBootcampNotFound
		}
		return nil, err
	}

	if lat.Valid && lng.Valid {
		loc.Latitude = lat.Float64
		loc.Longitude = lng.Float64
		b.Location = &loc
	}
	if avgCost.Valid {
		cost := avgCost.Int64
		b.AverageCost = &cost
	}
	if len(careers) > 0 {
		if err := json.Unmarshal(careers, &b.Careers); err != nil {
			return nil, fmt.Errorf("decoding careers for bootcamp %d: %w", b.ID, err)
		}
	}

	return b, nil
}

// flattenLocation splits an optional Location into nullable point columns
// and the address component struct. A nil location yields NULL lat/lng,
// which is how "location absent" is represented: the columns are either
// all populated or the point is NULL, never half-geocoded.
func flattenLocation(l *model.Location) (lat, lng *float64, loc model.Location) {
	if l == nil {
		return nil, nil, model.Location{}
	}
	return &l.Latitude, &l.Longitude, *l
}
