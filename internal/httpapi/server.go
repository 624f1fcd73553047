package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scancam/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Status() types.StatusResponse
	SetTorch(on bool) (bool, error)
	Framing() types.FramingResponse
	SetFraming(width, height int) (types.FramingResponse, error)
	StartPreview() error
	StopPreview() error
	// NextResult blocks until the next successful decode or ctx is done.
	NextResult(ctx context.Context) (types.ScanResult, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(accessLog)
	if corsEnabled {
		methods := corsAllowedMethods
		if len(methods) == 0 {
			methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
		}
		headers := corsAllowedHeaders
		if len(headers) == 0 {
			headers = []string{"Accept", "Content-Type", "X-Request-ID", "X-Log-Level"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: methods,
			AllowedHeaders: headers,
			MaxAge:         300,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := handlers{svc: svc}
	r.Get("/status", h.status)
	r.Post("/torch", h.torch)
	r.Get("/framing", h.framing)
	r.Post("/framing", h.setFraming)
	r.Post("/preview/start", h.startPreview)
	r.Post("/preview/stop", h.stopPreview)
	r.Get("/scan/next", h.nextResult)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("camera not open"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// decodeJSON enforces the content type and body limit and decodes into v.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// status godoc
// @Summary      Camera and scanner status
// @Tags         camera
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

// torch godoc
// @Summary      Switch the torch
// @Tags         camera
// @Accept       json
// @Produce      json
// @Param        body  body      types.TorchRequest  true  "desired state"
// @Success      200   {object}  types.TorchResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      503   {object}  types.ErrorResponse
// @Router       /torch [post]
func (h handlers) torch(w http.ResponseWriter, r *http.Request) {
	var req types.TorchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	on, err := h.svc.SetTorch(req.On)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, types.TorchResponse{On: on})
}

// framing godoc
// @Summary      Current scan region
// @Tags         framing
// @Produce      json
// @Success      200  {object}  types.FramingResponse
// @Router       /framing [get]
func (h handlers) framing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Framing())
}

// setFraming godoc
// @Summary      Set a manual scan region size
// @Tags         framing
// @Accept       json
// @Produce      json
// @Param        body  body      types.FramingRequest  true  "size in screen pixels"
// @Success      200   {object}  types.FramingResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /framing [post]
func (h handlers) setFraming(w http.ResponseWriter, r *http.Request) {
	var req types.FramingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeJSONError(w, http.StatusBadRequest, "width and height must be positive")
		return
	}
	resp, err := h.svc.SetFraming(req.Width, req.Height)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, resp)
}

// startPreview godoc
// @Summary      Open the camera if needed and start scanning
// @Tags         camera
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /preview/start [post]
func (h handlers) startPreview(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StartPreview(); err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, h.svc.Status())
}

// stopPreview godoc
// @Summary      Stop scanning and preview
// @Tags         camera
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /preview/stop [post]
func (h handlers) stopPreview(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.StopPreview(); err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, h.svc.Status())
}

// nextResult godoc
// @Summary      Wait for the next decoded barcode
// @Tags         scan
// @Produce      json
// @Param        timeout  query     string  false  "maximum wait, e.g. 5s"
// @Success      200      {object}  types.ScanResult
// @Failure      400      {object}  types.ErrorResponse
// @Failure      504      {object}  types.ErrorResponse
// @Router       /scan/next [get]
func (h handlers) nextResult(w http.ResponseWriter, r *http.Request) {
	wait := scanWaitTimeout
	if v := r.URL.Query().Get("timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid timeout")
			return
		}
		if d < wait {
			wait = d
		}
	}
	// Join server base context with request context so shutdown cancels the wait too.
	joined, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	ctx, cancelWait := context.WithTimeout(joined, wait)
	defer cancelWait()

	start := time.Now()
	res, err := h.svc.NextResult(ctx)
	switch {
	case err == nil:
		observeScanWait(waitResult, start)
		writeJSON(w, res)
	case errors.Is(err, context.DeadlineExceeded):
		observeScanWait(waitTimeout, start)
		writeJSONError(w, http.StatusGatewayTimeout, "no barcode decoded before timeout")
	case serverBaseCtx.Err() != nil:
		observeScanWait(waitCanceled, start)
		writeJSONError(w, http.StatusServiceUnavailable, "server shutting down")
	case r.Context().Err() != nil:
		// Client went away; nothing to write.
		observeScanWait(waitCanceled, start)
	default:
		observeScanWait(waitFailed, start)
		writeJSONError(w, statusFor(err), err.Error())
	}
}
