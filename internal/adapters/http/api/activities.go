// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/activities/pkg/logger"
)

// ActivitiesHandler serves the activity registry routes.
type ActivitiesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies, l logger.Logger) *ActivitiesHandler {
	if l == nil {
		l = logger.Discard()
	}
	return &ActivitiesHandler{deps: deps, logger: l.Named("api")}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_activities"
	list, err := h.deps.ListActivities(r.Context())
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleSignup handles POST /activities/{activity}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	name := r.PathValue("activity")
	email, err := emailParam(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	msg, err := h.deps.Signup(r.Context(), name, email)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// HandleUnregister handles DELETE /activities/{activity}/participants?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister"
	name := r.PathValue("activity")
	email, err := emailParam(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	msg, err := h.deps.Unregister(r.Context(), name, email)
	if err != nil {
		h.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *ActivitiesHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	fields := []logger.Field{
		logger.String("code", code),
		logger.String("requestID", RequestIDFromContext(r.Context())),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", fields...)
	} else {
		h.logger.Debug(r.Context(), "request rejected", fields...)
	}
	writeError(w, status, code, msg)
}

// emailParam reads the email from the query string or a form body. The value
// is kept verbatim; only a missing or empty value is rejected.
func emailParam(r *http.Request) (string, error) {
	email := r.FormValue("email")
	if email == "" {
		return "", ErrMissingEmail
	}
	return email, nil
}
