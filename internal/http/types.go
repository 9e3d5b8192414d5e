package http

import "github.com/fyrsmithlabs/iocx/pkg/artifacts"

// ExtractRequest is the request body for POST /api/v1/extract.
type ExtractRequest struct {
	Content string `json:"content"`
}

// ExtractResponse is the response body for POST /api/v1/extract.
// Artifacts is omitted when nothing was found.
type ExtractResponse struct {
	Found     bool                 `json:"found"`
	Artifacts *artifacts.Artifacts `json:"artifacts,omitempty"`
}

// CombineRequest is the request body for POST /api/v1/combine.
type CombineRequest struct {
	Results []*artifacts.Artifacts `json:"results"`
}

// CombineResponse is the response body for POST /api/v1/combine.
type CombineResponse struct {
	Found     bool                 `json:"found"`
	Artifacts *artifacts.Artifacts `json:"artifacts,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
