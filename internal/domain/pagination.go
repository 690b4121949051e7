package domain

// PageInfo is the pagination metadata of the list envelope. PageNumber is 0-based.
type PageInfo struct {
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	LastPage      bool  `json:"lastPage"`
}

// Page is the envelope returned by every list endpoint.
type Page[T any] struct {
	Content []T `json:"content"`
	PageInfo
}
