package service

import "time"

// FilterSpec is the immutable filter set a workspace query runs with.
// Zero values mean "unbounded"; status slices are OR-ed within a group
// and AND-ed across groups.
type FilterSpec struct {
	From     time.Time
	To       time.Time
	DateType string
	Search   string
	Site     string
	City     string
	Buyer    string
	Seller   string

	InvoiceStatus    []string
	GRNStatus        []string
	POStatus         []string
	AcceptanceStatus []string

	Page  int
	Limit int
}

type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
	Limit int `json:"limit"`
}

func (s *WorkspaceService) normalize(f FilterSpec) FilterSpec {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.defaultLimit
	}
	if f.Limit > s.maxLimit {
		f.Limit = s.maxLimit
	}
	return f
}

// paginate slices rows for the requested page. A page past the end
// yields an empty list while the metadata keeps describing the full
// set.
func paginate[T any](rows []T, page, limit int) ([]T, Pagination) {
	total := len(rows)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	meta := Pagination{Page: page, Pages: pages, Total: total, Limit: limit}

	start := (page - 1) * limit
	if start >= total {
		return []T{}, meta
	}
	end := start + limit
	if end > total {
		end = total
	}
	return rows[start:end], meta
}

func statusIn(status string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == status {
			return true
		}
	}
	return false
}
