package middleware

import (
	"net/http"
	"strconv"

	"github.com/chatlet/chatlet/internal/metrics"
	"github.com/chatlet/chatlet/pkg/logger_i"
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
	retryAfter   string
}

// Wrap is the common outer shell of every route: trace id injection, CORS
// headers, request logging and the http_requests_total counter. Route
// specific concerns (session auth, API key auth, rate limits) live in the
// handlers or in the dedicated middlewares below.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	re = injectCORS(re)
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	return re
}

// WidgetRateLimit guards the public widget config endpoint, the only route
// reachable without any credential.
func WidgetRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		re := requestResponseStruct{req: r, writer: w, logger: logger_i.NewLogger("middleware")}
		re = rateLimiter(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(w, r)
	}
}
