package query

// PageRef points at an adjacent page of a listing.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes the pages adjacent to the one returned. The count
// used to compute Next reflects the filtered set before pagination.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate builds the next/prev descriptors for a page of a filtered set
// of total rows.
func Paginate(page, limit, total int) Pagination {
	var pg Pagination
	if page*limit < total {
		pg.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		pg.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return pg
}
