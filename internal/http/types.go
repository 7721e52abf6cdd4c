package http

import (
	"time"

	"github.com/chuan-101/json-splitter-public/internal/search"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status        string `json:"status"`
	Conversations int    `json:"conversations"`
	Version       uint64 `json:"archive_version"`
}

// ListResponse is the response body for GET /api/v1/conversations.
type ListResponse struct {
	Total         int              `json:"total"`
	Conversations []search.Summary `json:"conversations"`
}

// PreviewResponse is the response body for GET /api/v1/conversations/:index.
type PreviewResponse struct {
	Index        int          `json:"index"`
	Title        string       `json:"title"`
	Created      time.Time    `json:"created"`
	VisibleCount int          `json:"visible_count"`
	FileName     string       `json:"file_name"`
	Messages     []search.Row `json:"messages"`
}

// ZipRequest is the request body for POST /api/v1/export/zip.
type ZipRequest struct {
	Indices []int `json:"indices"`
}

// SearchResponse is the response body for GET /api/v1/search.
type SearchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// UploadResponse is the response body for POST /api/v1/archive.
type UploadResponse struct {
	Conversations int    `json:"conversations"`
	Version       uint64 `json:"archive_version"`
}
