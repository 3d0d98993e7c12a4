package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/intelliquery/internal/handlers"
	"github.com/akolanti/intelliquery/internal/metrics"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

type step func(requestResponseStruct) requestResponseStruct

var (
	protectedChain = []step{injectTrace, rateLimiter, authenticate}
	publicChain    = []step{injectTrace, rateLimiter}
)

var HealthHandler = WrapPublic(handlers.HealthHandler)

var UploadDocumentHandler = Wrap(handlers.UploadDocumentHandler)
var QueryHandler = Wrap(handlers.QueryHandler)
var ExampleQueryHandler = Wrap(handlers.ExampleQueryHandler)
var GetDocumentHandler = Wrap(handlers.GetDocumentHandler)
var GetDocumentChunksHandler = Wrap(handlers.GetDocumentChunksHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

// Wrap runs trace injection, the per-IP rate limit and bearer auth before next.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return wrapWith(protectedChain, next)
}

// WrapPublic skips auth, used for probes.
func WrapPublic(next http.HandlerFunc) http.HandlerFunc {
	return wrapWith(publicChain, next)
}

func wrapWith(chain []step, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := metrics.NewStatusRecorder(w)
		defer func() {
			metrics.HttpRequestsTotal.WithLabelValues(routeLabel(r), strconv.Itoa(rec.Status)).Inc()
		}()

		re := processRequest(chain, requestResponseStruct{req: r, writer: rec})
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)
	}
}

func processRequest(chain []step, re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	for _, s := range chain {
		re = s(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	re.logger.Debug("New request accepted", "method", re.req.Method, "path", re.req.URL.Path)
	return re
}

// routeLabel keeps the metric cardinality bounded by using the chi pattern, not the raw path.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
