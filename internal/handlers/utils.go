package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/intelliquery/internal/adapter"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
)

// uploads are staged here until the ingestion finishes
var uploadDir = filepath.Join(os.TempDir(), "intelliquery-uploads")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out, only logging is left
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Trace(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// writePipelineError maps the error chain onto a status code.
func writePipelineError(ctx context.Context, w http.ResponseWriter, id string, err error) {
	code := adapter.HTTPStatus(err)
	log := logRH.Trace(ctx)
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", "id", id, "error", err)
	} else {
		log.Warn("Request rejected", "id", id, "error", err)
	}
	WriteErrorResponse(w, code, id, err.Error())
}

func isAsync(r *http.Request) bool {
	v := r.URL.Query().Get("async")
	return v == "true" || v == "1"
}

func getTargetDirectory() (string, error) {
	if err := os.MkdirAll(uploadDir, 0750); err != nil {
		return "", err
	}
	return uploadDir, nil
}

// stageUpload copies the multipart file to local disk, keeping the extension for the extractor.
func stageUpload(file multipart.File, ext string) (string, int64, error) {
	targetDir, err := getTargetDirectory()
	if err != nil {
		return "", 0, fmt.Errorf("storage error: %w", err)
	}
	dst, err := os.CreateTemp(targetDir, "upload-*"+ext)
	if err != nil {
		return "", 0, fmt.Errorf("storage error: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, file)
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", 0, fmt.Errorf("write error: %w", err)
	}
	return dst.Name(), n, nil
}

func removeStaged(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logRH.Trace(ctx).Warn("Could not remove staged upload", "path", path, "error", err)
	}
}

func decodeQueryBody(r *http.Request, dst any) error {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", docModel.ErrInvalidRequest, err)
	}
	return nil
}
