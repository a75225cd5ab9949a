package web

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hpungsan/indotrip/internal/errors"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes int64 = 1 << 20

var internalError = errors.NewInternal(nil)

// writeJSON writes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorBody mirrors the MCP error payload: {"error":{code,message,status,details?}}.
// Details of internal errors never leave the process.
func errorBody(e *errors.TripError) map[string]any {
	obj := map[string]any{
		"code":    e.Code,
		"message": e.Message,
		"status":  e.Status,
	}
	if e.Code != errors.ErrInternal && len(e.Details) > 0 {
		obj["details"] = e.Details
	}
	return map[string]any{"error": obj}
}

// writeError maps err to its HTTP status and writes the error body.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	tErr, ok := errors.As(err)
	if !ok {
		tErr = errors.NewInternal(err)
	}
	if tErr.Code == errors.ErrInternal {
		log.Error().Interface("details", tErr.Details).Err(err).Msg("internal error")
	}
	writeJSON(w, log, tErr.Status, errorBody(tErr))
}

// decodeBody reads a JSON object of at most MaxBodyBytes into dst. An empty
// body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.NewPayloadTooLarge(MaxBodyBytes)
		case stderrors.Is(err, io.EOF):
			return nil
		default:
			return errors.NewInvalidRequest(fmt.Sprintf("invalid JSON body: %v", err))
		}
	}
	return nil
}
