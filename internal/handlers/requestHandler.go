package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/akolanti/intelliquery/internal/adapter"
	"github.com/akolanti/intelliquery/internal/adapter/utils"
	"github.com/akolanti/intelliquery/internal/api"
	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/domain/jobModel"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/akolanti/intelliquery/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

const exampleQuery = "Does this policy cover knee surgery, and what are the conditions?"

type newJobData struct {
	id      string
	jobType jobModel.JobType
	ingest  docModel.IngestRequest
	query   docModel.QueryRequest
}

// HealthHandler godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "healthy", Service: config.ServiceName})
}

// UploadDocumentHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Accepts a PDF, DOCX, EML or MSG file and a domain tag. The document is extracted, chunked, embedded and indexed before the call returns.
// @Description  With async=true the ingestion is queued and a job id is returned instead.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file    formData  file    true   "The document to ingest"
// @Param        domain  formData  string  true   "insurance, legal, hr, compliance or generic"
// @Param        async   query     bool    false  "Queue the ingestion and return a job id"
// @Success      200  {object}  api.UploadResponse   "Document committed"
// @Success      202  {object}  api.InitJobResponse  "Ingestion queued"
// @Failure      400  {object}  api.JobResponse      "Unsupported file type, missing domain or malformed form"
// @Failure      500  {object}  api.JobResponse      "A pipeline stage failed, partial data was cleaned up"
// @Router       /upload-document [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx) {
		return
	}
	log := logRH.Trace(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	filename := filepath.Base(fileMetadata.Filename)
	_, ext, err := docModel.KindFromFilename(filename)
	if err != nil {
		writePipelineError(ctx, w, filename, err)
		return
	}

	domainValue := r.FormValue("domain")
	if domainValue == "" {
		WriteErrorResponse(w, http.StatusBadRequest, filename, "domain is required")
		return
	}
	domain, err := docModel.ParseDomain(domainValue)
	if err != nil {
		writePipelineError(ctx, w, filename, err)
		return
	}

	path, size, err := stageUpload(fileReader, ext)
	if err != nil {
		log.Error("Could not stage upload", "filename", filename, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, filename, err.Error())
		return
	}
	req := docModel.IngestRequest{Path: path, Filename: filename, Domain: domain, SizeBytes: size}

	if isAsync(r) {
		// the worker owns the staged file from here on
		enqueue(w, r, newJobData{id: utils.GetNewUUID(), jobType: jobModel.JobTypeIngest, ingest: req}, path)
		return
	}
	defer removeStaged(ctx, path)

	ingestCtx, cancel := context.WithTimeout(ctx, config.IngestJobTimeout)
	defer cancel()
	doc, err := ragService().IngestDocument(ingestCtx, req)
	if err != nil {
		writePipelineError(ctx, w, filename, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.UploadResponse{
		Message:    "Document uploaded and processed successfully",
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Domain:     doc.Domain,
	})
}

// QueryHandler godoc
// @Summary      Ask a question over the ingested documents
// @Description  Retrieves the closest chunks and, unless include_explanation is false, asks the model for an answer with a decision rationale.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      api.QueryRequestBody    true   "Query, optional domain and document filter"
// @Param        async    query     bool                    false  "Queue the query and return a job id"
// @Success      200      {object}  docModel.QueryResponse  "Answer and retrieved chunks"
// @Success      202      {object}  api.InitJobResponse     "Query queued"
// @Failure      400      {object}  api.JobResponse         "Empty query, unknown domain or max_results out of range"
// @Failure      500      {object}  api.JobResponse         "Embedding or vector search failed"
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx) {
		return
	}

	var body api.QueryRequestBody
	if err := decodeQueryBody(r, &body); err != nil {
		writePipelineError(ctx, w, "", err)
		return
	}
	req, err := adapter.ToQueryRequest(body)
	if err == nil {
		err = rag.NormalizeQuery(&req)
	}
	if err != nil {
		writePipelineError(ctx, w, "", err)
		return
	}

	if isAsync(r) {
		enqueue(w, r, newJobData{id: utils.GetNewUUID(), jobType: jobModel.JobTypeQuery, query: req}, "")
		return
	}
	runQuery(w, r, req)
}

// ExampleQueryHandler godoc
// @Summary      Run the canned insurance question
// @Tags         Query
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  docModel.QueryResponse
// @Failure      500  {object}  api.JobResponse
// @Router       /example-query [post]
func ExampleQueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	runQuery(w, r, docModel.QueryRequest{
		Query:              exampleQuery,
		Domain:             docModel.DomainInsurance,
		MaxResults:         config.DefaultMaxResults,
		IncludeExplanation: true,
	})
}

func runQuery(w http.ResponseWriter, r *http.Request, req docModel.QueryRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), config.QueryJobTimeout)
	defer cancel()
	resp, err := ragService().Query(ctx, req)
	if err != nil {
		writePipelineError(r.Context(), w, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, resp)
}

// GetDocumentHandler godoc
// @Summary      Get document metadata
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  docModel.Document
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /document/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	doc, err := ragService().GetDocument(r.Context(), id)
	if err != nil {
		writeDocumentError(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, doc)
}

// GetDocumentChunksHandler godoc
// @Summary      List the stored chunks of a document
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {array}   docModel.Chunk   "Chunks ordered by chunk_index"
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /document/{id}/chunks [get]
func GetDocumentChunksHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	chunks, err := ragService().GetDocumentChunks(r.Context(), id)
	if err != nil {
		writeDocumentError(w, r, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, chunks)
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document with its chunks and vectors
// @Description  Vectors are removed first, then the chunk and document records. Deleting an unknown id succeeds.
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DeleteResponse
// @Failure      500  {object}  api.JobResponse
// @Router       /document/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	if err := ragService().DeleteDocument(r.Context(), id); err != nil {
		writePipelineError(r.Context(), w, id, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Message: "Document deleted successfully", DocumentID: id})
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the state of an asynchronous ingestion or query job. Finished jobs carry the document or the answer.
// @Tags         Job Status
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	if idString == "" {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	result, isFound := GetJobStatus(r.Context(), idString)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

func writeDocumentError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, docModel.ErrNotFound) {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}
	writePipelineError(r.Context(), w, id, err)
}

func enqueue(w http.ResponseWriter, r *http.Request, data newJobData, stagedPath string) {
	if err := CreateNewJob(r.Context(), data); err != nil {
		if stagedPath != "" {
			removeStaged(r.Context(), stagedPath)
		}
		writePipelineError(r.Context(), w, data.id, fmt.Errorf("could not queue job: %w", err))
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(data.id))
}
