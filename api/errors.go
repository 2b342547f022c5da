package api

import (
	"errors"
	"net/http"

	"github.com/thisisjab/plzero/fault"
)

func (s *server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var f fault.Fault
	if !errors.As(err, &f) {
		s.internalServerError(w, r, err)
		return
	}

	switch {
	case f.Code().IsLexical():
		// The request was well-formed but the source text is not.
		res := apiResponse{Success: false, Message: f.Message()}
		if p, ok := f.Position(); ok {
			res.Metadata = map[string]any{
				"code":     f.Code(),
				"fragment": p.Fragment,
				"offset":   p.Offset,
			}
		}
		s.logger.Debug("lexical error", "run_id", requestID(r.Context()), "code", f.Code(), "error", f)
		s.writeError(w, r, http.StatusUnprocessableEntity, res)

	case f.Code() == fault.BadInputCode:
		if md, ok := f.Metadata().(fault.FieldErrorsMetadata); ok {
			// This is a 422 error since it's related to specific field
			s.writeError(w, r, http.StatusUnprocessableEntity, apiResponse{
				Success: false,
				Message: f.Message(),
				Metadata: map[string]any{
					"fields": md,
				},
			})
		} else {
			s.writeError(w, r, http.StatusBadRequest, apiResponse{
				Success: false,
				Message: f.Message(),
			})
		}

	case f.Code() == fault.NotFoundCode:
		m := f.Message()
		if m == "" {
			m = "Requested resource not found."
		}
		s.writeError(w, r, http.StatusNotFound, apiResponse{Success: false, Message: m})

	default:
		s.internalServerError(w, r, f)
	}
}

func (s *server) logError(r *http.Request, err error) {
	s.logger.Error("internal server error", "method", r.Method, "path", r.RequestURI, "remote-addr", r.RemoteAddr, "run_id", requestID(r.Context()), "error", err)
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, response apiResponse) {
	s.writeJson(w, status, response, nil) //nolint:errcheck
}

func (s *server) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(r, err)
	s.writeError(w, r, http.StatusInternalServerError, apiResponse{Success: false, Message: "Internal server error"})
}
