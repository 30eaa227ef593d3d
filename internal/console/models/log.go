package models

import "time"

// LogEntry is a single indexed log document as returned by the search and
// detail endpoints.
type LogEntry struct {
	ID        string    `json:"_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`

	// Business fields present on enriched documents; zero-valued otherwise.
	CustomerName string  `json:"customer_name,omitempty"`
	ProductName  string  `json:"product_name,omitempty"`
	Country      string  `json:"country,omitempty"`
	TotalAmount  float64 `json:"total_amount,omitempty"`
}

// SearchFilters describes one search against the log index. Empty fields
// mean "no constraint".
type SearchFilters struct {
	Query     string     `json:"query,omitempty"`
	Level     string     `json:"level,omitempty"`
	Service   string     `json:"service,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// SearchResult is a page of hits.
type SearchResult struct {
	Total int        `json:"total"`
	Hits  []LogEntry `json:"hits"`
	Took  int        `json:"took"`
}

// UploadResponse is the backend's acknowledgement of a log-file upload.
type UploadResponse struct {
	Message          string `json:"message"`
	Filename         string `json:"filename"`
	DocumentsIndexed int    `json:"documents_indexed"`
	FileSize         int64  `json:"file_size"`
}

// FileInfo describes a previously uploaded log file.
type FileInfo struct {
	Filename       string    `json:"filename"`
	UploadTime     time.Time `json:"upload_time"`
	Size           int64     `json:"size"`
	Type           string    `json:"type"`
	DocumentsCount int       `json:"documents_count,omitempty"`
}
