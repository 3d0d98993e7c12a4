package api

import (
	"time"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"5f0c2a7e-4d0b-4b8e-9d43-0d8f1c2e6a11"`
	JobType   string            `json:"job_type,omitempty" example:"Query"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status   string                  `json:"status"`
	Step     string                  `json:"step,omitempty"`
	Document *docModel.Document      `json:"document,omitempty"`
	Answer   *docModel.QueryResponse `json:"answer,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type UploadResponse struct {
	Message    string          `json:"message" example:"Document uploaded and processed successfully"`
	DocumentID string          `json:"document_id" example:"9e107d9d372bb6826bd81d3542a419d6"`
	Filename   string          `json:"filename" example:"policy.pdf"`
	Domain     docModel.Domain `json:"domain" example:"insurance"`
}

type DeleteResponse struct {
	Message    string `json:"message" example:"Document deleted successfully"`
	DocumentID string `json:"document_id"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service"`
}

// requests---------------------

// QueryRequestBody keeps the optional fields as pointers so a missing include_explanation defaults to true.
type QueryRequestBody struct {
	Query              string   `json:"query" validate:"required" example:"Does this policy cover knee surgery?"`
	Domain             string   `json:"domain,omitempty" example:"insurance"`
	DocumentIDs        []string `json:"document_ids,omitempty"`
	MaxResults         *int     `json:"max_results,omitempty" example:"5"`
	IncludeExplanation *bool    `json:"include_explanation,omitempty" example:"true"`
}
