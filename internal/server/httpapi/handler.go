// Package httpapi exposes the auth service over plain HTTP. The endpoints
// are deliberately thin: typed input, typed result-or-error, with all policy
// living in the service layer.
package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authn/internal/api"
	"github.com/dmitrijs2005/authn/internal/common"
	"github.com/dmitrijs2005/authn/internal/logging"
	"github.com/dmitrijs2005/authn/internal/server/services"
)

type Handler struct {
	auth   *services.AuthService
	logger logging.Logger
}

func NewHandler(auth *services.AuthService, logger logging.Logger) *Handler {
	return &Handler{auth: auth, logger: logger.With("module", "httpapi")}
}

// Routes mounts the three endpoints. Any router could serve these; the
// stdlib mux keeps the dispatch boundary thin.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("GET /user/{name}", h.getUser)
	mux.HandleFunc("GET /pub-key", h.pubKey)
	return RequestLogger(h.logger, mux)
}

// maxRequestSeconds bounds the duration field before conversion so a huge
// requested lifetime cannot overflow time.Duration. The service still clamps
// to its own policy maximum.
const maxRequestSeconds = uint64(math.MaxInt64 / int64(time.Second))

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(r, w, common.ErrBadRequest)
		return
	}

	seconds := req.Duration
	if seconds > maxRequestSeconds {
		seconds = maxRequestSeconds
	}

	token, err := h.auth.Login(r.Context(), req.Name, []byte(req.Pass), req.Audience, time.Duration(seconds)*time.Second)
	if err != nil {
		h.writeError(r, w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.LoginResponse{Token: token})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUser(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeError(r, w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, api.UserResponse{Name: user.Name, TokenVersion: user.TokenVersion})
}

func (h *Handler) pubKey(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-pem-file")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.auth.PublicKey())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors to distinguishable outward signals. Unknown
// user and wrong password both leave /login as 401 so the endpoint cannot be
// used for user enumeration; the audit log above keeps the distinction.
// Internal failures are logged in full and surfaced as a generic message.
func (h *Handler) writeError(r *http.Request, w http.ResponseWriter, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, common.ErrLoginFailed),
		errors.Is(err, common.ErrNotFound) && r.URL.Path == "/login":
		status = http.StatusUnauthorized
		msg = "login failed"
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
		msg = "user not found"
	case errors.Is(err, common.ErrBadRequest):
		status = http.StatusBadRequest
		msg = "bad request"
	case errors.Is(err, common.ErrDuplicateName):
		status = http.StatusConflict
		msg = "name already taken"
	default:
		status = http.StatusInternalServerError
		msg = "internal server error"
	}

	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	} else {
		h.logger.Warn(r.Context(), "request rejected", "path", r.URL.Path, "error", err.Error())
	}

	h.writeJSON(w, status, api.ErrorResponse{Error: msg})
}
