package dto

const (
	defaultRecordsPerPage = 10
	maxRecordsPerPage     = 20
)

type Pagination struct {
	Page           int `json:"page"`
	RecordsPerPage int `json:"recordsPerPage"`
}

// Normalize clamps the page size to the server maximum regardless of what the
// client asked for, and defaults unset values.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.RecordsPerPage < 1 {
		p.RecordsPerPage = defaultRecordsPerPage
	}
	if p.RecordsPerPage > maxRecordsPerPage {
		p.RecordsPerPage = maxRecordsPerPage
	}
}

type PagedResponse[T any] struct {
	Data           []T `json:"data"`
	Page           int `json:"page"`
	RecordsPerPage int `json:"recordsPerPage"`
	TotalRecords   int `json:"totalRecords"`
	TotalPages     int `json:"totalPages"`
}

func NewPagedResponse[T any](data []T, page, recordsPerPage, totalRecords int) PagedResponse[T] {
	totalPages := 0
	if recordsPerPage > 0 {
		totalPages = (totalRecords + recordsPerPage - 1) / recordsPerPage
	}
	return PagedResponse[T]{
		Data:           data,
		Page:           page,
		RecordsPerPage: recordsPerPage,
		TotalRecords:   totalRecords,
		TotalPages:     totalPages,
	}
}
