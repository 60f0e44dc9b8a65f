package in

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	hclog "github.com/hashicorp/go-hclog"

	heightdto "skytools/internal/modules/height/dto"
	heightin "skytools/internal/modules/height/port/in"
	"skytools/internal/modules/measure/dto"
	measurein "skytools/internal/modules/measure/port/in"
	apperrors "skytools/internal/platform/errors"
	"skytools/internal/platform/logging"
)

// MaxUploadBytes bounds the multipart body accepted by POST /api/v1/scan.
const MaxUploadBytes = 16 << 20

type decodeRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPHandler serves stateless measurements: every request decodes, computes
// snapshots and answers with a report without touching the stored slot.
type HTTPHandler struct {
	measure measurein.Usecase
	height  heightin.Usecase
	logger  hclog.Logger
}

func NewHTTPHandler(measure measurein.Usecase, height heightin.Usecase, logger hclog.Logger) HTTPHandler {
	return HTTPHandler{measure: measure, height: height, logger: logging.OrNull(logger).Named("http")}
}

func (h HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h.RegisterHTTP(r)
	return r
}

func (h HTTPHandler) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/decode", h.handleDecode)
		r.Post("/scan", h.handleScan)
		r.Get("/height", h.handleHeight)
	})
}

func (h HTTPHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/v1/decode
func (h HTTPHandler) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxUploadBytes)).Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid request body", apperrors.ErrInvalidInput))
		return
	}
	report, err := h.measure.Evaluate(r.Context(), dto.EvaluateInput{Text: req.Text})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// POST /api/v1/scan, multipart field "image".
func (h HTTPHandler) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: multipart field \"image\" is required: %w", apperrors.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "skytools-scan-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		h.writeError(w, fmt.Errorf("%w: read upload: %v", apperrors.ErrInvalidInput, err))
		return
	}
	if err := tmp.Close(); err != nil {
		h.writeError(w, err)
		return
	}

	report, err := h.measure.Evaluate(r.Context(), dto.EvaluateInput{ImagePath: tmp.Name()})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// GET /api/v1/height?scale=&modifier=
func (h HTTPHandler) handleHeight(w http.ResponseWriter, r *http.Request) {
	scale, err := floatParam(r, "scale")
	if err != nil {
		h.writeError(w, err)
		return
	}
	modifier, err := floatParam(r, "modifier")
	if err != nil {
		h.writeError(w, err)
		return
	}
	out, err := h.height.Range(r.Context(), heightdto.SnapshotInput{Scale: scale, HeightModifier: modifier})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, out)
}

// floatParam reads an optional query parameter; a missing value is zero.
func floatParam(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", apperrors.ErrInvalidInput, name)
	}
	return v, nil
}

func (h HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "error", err)
	} else {
		h.logger.Debug("request rejected", "status", status, "error", err)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperrors.ErrUndecodable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrScannerUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h HTTPHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", "error", err)
	}
}
