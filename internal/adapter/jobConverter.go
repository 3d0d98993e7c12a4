package adapter

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akolanti/intelliquery/internal/api"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("/status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		JobType:   string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:   string(job.Status),
			Step:     string(job.CurrentStep),
			Document: job.JobPayload.Document,
			Answer:   job.JobPayload.Answer,
		},
	}
}

// ToQueryRequest applies the wire defaults: 5 results, explanation on.
func ToQueryRequest(body api.QueryRequestBody) (docModel.QueryRequest, error) {
	domain, err := docModel.ParseDomain(body.Domain)
	if err != nil {
		return docModel.QueryRequest{}, err
	}
	req := docModel.QueryRequest{
		Query:              body.Query,
		Domain:             domain,
		DocumentIDs:        body.DocumentIDs,
		IncludeExplanation: true,
	}
	if body.MaxResults != nil {
		req.MaxResults = *body.MaxResults
		if req.MaxResults == 0 {
			return docModel.QueryRequest{}, fmt.Errorf("%w: max_results must be between 1 and 20", docModel.ErrInvalidRequest)
		}
	}
	if body.IncludeExplanation != nil {
		req.IncludeExplanation = *body.IncludeExplanation
	}
	return req, nil
}

// HTTPStatus maps pipeline errors onto the status code the client sees.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, docModel.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, docModel.ErrUnsupportedType), errors.Is(err, docModel.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   code >= http.StatusInternalServerError,
		},
	}
}
