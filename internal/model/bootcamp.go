package model

import "time"

// DefaultPhoto is the placeholder filename used until an owner uploads one.
const DefaultPhoto = "no-photo.jpg"

// Careers a bootcamp may list. Stored as a JSON array column.
var ValidCareers = []string{
	"Mobile Development",
	"Web Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// IsValidCareer reports whether c is one of the allowed career tags.
func IsValidCareer(c string) bool {
	for _, v := range ValidCareers {
		if v == c {
			return true
		}
	}
	return false
}

// Location is the geocoded point and address components derived from the
// raw address submitted at creation time. The raw address itself is
// discarded after geocoding; FormattedAddress replaces it.
type Location struct {
	Longitude        float64 `json:"longitude"`
	Latitude         float64 `json:"latitude"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Street           string  `json:"street,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Zipcode          string  `json:"zipcode,omitempty"`
	Country          string  `json:"country,omitempty"`
}

// Bootcamp represents a bootcamp in the database. Slug, Location and
// AverageCost are derived fields: the server computes them and clients
// can never set them. AverageCost is nil until the bootcamp has courses.
type Bootcamp struct {
	ID            int64
	UserID        int64
	Name          string
	Slug          string
	Description   string
	Website       string
	Phone         string
	Email         string
	Location      *Location
	Careers       []string
	AverageCost   *int64
	Photo         string
	Housing       bool
	JobAssistance bool
	JobGuarantee  bool
	AcceptGI      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateBootcampRequest represents a bootcamp draft. It intentionally has
// no slug, location or average_cost fields, so client-supplied values for
// the derived fields are stripped by construction.
type CreateBootcampRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"job_assistance"`
	JobGuarantee  bool     `json:"job_guarantee"`
	AcceptGI      bool     `json:"accept_gi"`
}

// UpdateBootcampRequest is a partial update; nil fields are left untouched.
// Changing the name re-derives the slug, changing the address re-geocodes.
type UpdateBootcampRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"job_assistance"`
	JobGuarantee  *bool     `json:"job_guarantee"`
	AcceptGI      *bool     `json:"accept_gi"`
}

// BootcampResponse represents a bootcamp in API responses.
type BootcampResponse struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Careers       []string  `json:"careers"`
	AverageCost   *int64    `json:"average_cost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"job_assistance"`
	JobGuarantee  bool      `json:"job_guarantee"`
	AcceptGI      bool      `json:"accept_gi"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse shapes a bootcamp for the API envelope.
func (b *Bootcamp) ToResponse() BootcampResponse {
	return BootcampResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		Name:          b.Name,
		Slug:          b.Slug,
		Description:   b.Description,
		Website:       b.Website,
		Phone:         b.Phone,
		Email:         b.Email,
		Location:      b.Location,
		Careers:       b.Careers,
		AverageCost:   b.AverageCost,
		Photo:         b.Photo,
		Housing:       b.Housing,
		JobAssistance: b.JobAssistance,
		JobGuarantee:  b.JobGuarantee,
		AcceptGI:      b.AcceptGI,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
