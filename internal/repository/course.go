package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/query"
)

var ErrCourseNotFound = errors.New("course not found")

const courseColumns = `c.id, c.bootcamp_id, c.user_id, c.title, c.description, c.weeks,
	c.tuition, c.minimum_skill, c.scholarship_available, c.created_at, c.updated_at`

// courseListColumns whitelists the fields listing requests may filter and
// sort on.
var courseListColumns = map[string]string{
	"title":                 "c.title",
	"weeks":                 "c.weeks",
	"tuition":               "c.tuition",
	"minimum_skill":         "c.minimum_skill",
	"scholarship_available": "c.scholarship_available",
	"bootcamp_id":           "c.bootcamp_id",
	"created_at":            "c.created_at",
	"id":                    "c.id",
}

// CourseRepository handles course persistence operations.
type CourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// CourseListOptions scopes and shapes a course listing. BootcampID limits
// the listing to one bootcamp's courses; ExpandBootcamp embeds the parent
// summary into each row (configured per-route, not per-request).
type CourseListOptions struct {
	BootcampID     int64
	ExpandBootcamp bool
}

// CourseRow is a listed course with its optional parent expansion.
type CourseRow struct {
	Course   model.Course
	Bootcamp *model.BootcampSummary
}

// Create inserts a new course and sets the generated ID on the struct.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	q := `INSERT INTO courses (bootcamp_id, user_id, title, description, weeks, tuition, minimum_skill, scholarship_available)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, q,
		c.BootcampID, c.UserID, c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill, c.ScholarshipAvailable,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.id = ?`, id)

	c := &model.Course{}
	err := row.Scan(
		&c.ID, &c.BootcampID, &c.UserID, &c.Title, &c.Description, &c.Weeks,
		&c.Tuition, &c.MinimumSkill, &c.ScholarshipAvailable, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// Update writes the mutable fields of a course back to the store.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	q := `UPDATE courses SET title = ?, description = ?, weeks = ?, tuition = ?,
		minimum_skill = ?, scholarship_available = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		c.Title, c.Description, c.Weeks, c.Tuition, c.MinimumSkill, c.ScholarshipAvailable, c.ID,
	)
	return err
}

// Delete removes a course row.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// DeleteByBootcamp removes every course referencing the given bootcamp.
// This is the child phase of the two-phase bootcamp deletion.
func (r *CourseRepository) DeleteByBootcamp(ctx context.Context, bootcampID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE bootcamp_id = ?`, bootcampID)
	return err
}

// AverageTuition returns the ceiling of the mean tuition over a
// bootcamp's courses, or nil when the bootcamp has none.
func (r *CourseRepository) AverageTuition(ctx context.Context, bootcampID int64) (*int64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT AVG(tuition) FROM courses WHERE bootcamp_id = ?`, bootcampID,
	).Scan(&avg)
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}

	mean := int64(math.Ceil(avg.Float64))
	return &mean, nil
}

// List returns a filtered, sorted, paginated page of courses plus the
// total size of the filtered set.
func (r *CourseRepository) List(ctx context.Context, p query.Params, opt CourseListOptions) ([]CourseRow, int, error) {
	var extra []string
	var extraArgs []any
	if opt.BootcampID != 0 {
		extra = append(extra, "c.bootcamp_id = ?")
		extraArgs = append(extraArgs, opt.BootcampID)
	}
	where, args := whereClause(courseListColumns, p.Filters, extra, extraArgs)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	cols := courseColumns
	join := ""
	if opt.ExpandBootcamp {
		cols += `, b.id, b.name, b.description`
		join = ` JOIN bootcamps b ON b.id = c.bootcamp_id`
	}

	q := `SELECT ` + cols + ` FROM courses c` + join + where +
		orderClause(courseListColumns, p.Sorts, "c.id ASC") +
		` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []CourseRow
	for rows.Next() {
		var row CourseRow
		c := &row.Course
		dest := []any{
			&c.ID, &c.BootcampID, &c.UserID, &c.Title, &c.Description, &c.Weeks,
			&c.Tuition, &c.MinimumSkill, &c.ScholarshipAvailable, &c.CreatedAt, &c.UpdatedAt,
		}
		if opt.ExpandBootcamp {
			row.Bootcamp = &model.BootcampSummary{}
			dest = append(dest, &row.Bootcamp.ID, &row.Bootcamp.Name, &row.Bootcamp.Description)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
