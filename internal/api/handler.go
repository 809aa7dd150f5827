package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"creative-approval-engine/internal/engine"
	"creative-approval-engine/internal/intake"
	"creative-approval-engine/internal/observability"
)

// room for multipart boundaries and the metadata field on top of the file
const multipartOverhead = 1 << 20

const defaultEvalTimeout = 10 * time.Second

type ApprovalHandler struct {
	Eng *engine.ApprovalEngine
	Dec *intake.Decoder
	// Timeout bounds decoding and evaluation; the handler writes the 504 itself.
	Timeout time.Duration
}

func NewApprovalHandler(eng *engine.ApprovalEngine, dec *intake.Decoder, timeout time.Duration) *ApprovalHandler {
	if timeout <= 0 {
		timeout = defaultEvalTimeout
	}
	return &ApprovalHandler{Eng: eng, Dec: dec, Timeout: timeout}
}

// ErrorResponse is the body of every non-200 reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// CreativeApproval handles POST /creative-approval: a multipart upload with a
// required "file" part and an optional "metadata" JSON field.
func (h *ApprovalHandler) CreativeApproval(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Dec.MaxBytes+multipartOverhead)

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()
	r = r.WithContext(ctx)

	sub, err := h.readSubmission(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	d := h.Eng.Evaluate(sub)
	observability.DecisionsTotal.WithLabelValues(string(d.Status)).Inc()
	log.Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("filename", sub.Filename).
		Str("status", string(d.Status)).
		Int("reasons", len(d.Reasons)).
		Str("format", d.Format).
		Int("width", d.Width).
		Int("height", d.Height).
		Int("size", d.Size).
		Msg("creative evaluated")

	writeJSON(w, http.StatusOK, d)
}

func (h *ApprovalHandler) readSubmission(r *http.Request) (engine.Submission, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return engine.Submission{}, intake.ErrFileTooLarge
		}
		return engine.Submission{}, intake.ErrMissingFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return engine.Submission{}, intake.ErrMissingFile
	}
	defer file.Close()

	meta, err := intake.ParseMetadata(r.FormValue("metadata"))
	if err != nil {
		return engine.Submission{}, err
	}

	data, err := h.Dec.ReadUpload(file)
	if err != nil {
		return engine.Submission{}, err
	}
	facts, err := h.Dec.Decode(r.Context(), data)
	if err != nil {
		return engine.Submission{}, err
	}

	return engine.Submission{Image: facts, Filename: header.Filename, Metadata: meta}, nil
}

func (h *ApprovalHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetReqID(r.Context())

	var ie *intake.InputError
	switch {
	case errors.As(err, &ie):
		observability.InputErrors.WithLabelValues(string(ie.Kind)).Inc()
		log.Warn().Err(err).Str("request_id", reqID).Str("kind", string(ie.Kind)).Msg("rejected upload")
		writeJSON(w, statusFor(ie.Kind), ErrorResponse{Error: string(ie.Kind), Message: ie.Message})

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		log.Warn().Err(err).Str("request_id", reqID).Msg("evaluation cancelled")
		writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: "timeout", Message: "image decoding did not finish in time"})

	default:
		log.Error().Err(err).Str("request_id", reqID).Msg("unexpected evaluation failure")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "an internal error occurred"})
	}
}

func statusFor(k intake.Kind) int {
	if k == intake.KindFileTooLarge {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusUnprocessableEntity
}

// Health handles GET /health.
func (h *ApprovalHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Service:   "creative-approval-api",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
