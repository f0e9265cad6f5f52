// Package api is the HTTP adapter: JSON codecs, request validation, the
// bearer-token guard, and the uniform error envelope.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"padron/cmd/identity"
	"padron/cmd/internal/auth"
	"padron/cmd/internal/directory"
	"padron/cmd/profile"
)

// Handler wires HTTP endpoints to the auth, directory, user, and profile
// services.
type Handler struct {
	log *slog.Logger
	cfg Config

	auth     *auth.Service
	dir      *directory.Service
	users    identity.Store
	profiles profile.Store
}

// NewHandler constructs the HTTP adapter. All services are required.
func NewHandler(log *slog.Logger, cfg Config, authSvc *auth.Service, dir *directory.Service, users identity.Store, profiles profile.Store) (*Handler, error) {
	if authSvc == nil {
		return nil, errors.New("api: nil auth service")
	}
	if dir == nil {
		return nil, errors.New("api: nil directory service")
	}
	if users == nil {
		return nil, errors.New("api: nil user store")
	}
	if profiles == nil {
		return nil, errors.New("api: nil profile store")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		log:      log,
		cfg:      cfg,
		auth:     authSvc,
		dir:      dir,
		users:    users,
		profiles: profiles,
	}, nil
}

// Register wires all routes onto the provided mux. Auth endpoints are
// public; everything else requires a valid bearer token.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}

	mux.HandleFunc("POST /auth/signup", h.handleSignUp)
	mux.HandleFunc("POST /auth/signin", h.handleSignIn)

	mux.HandleFunc("GET /users", h.guard(h.handleUserList))
	mux.HandleFunc("GET /users/{id}", h.guard(h.handleUserGet))
	mux.HandleFunc("PATCH /users/{id}", h.guard(h.handleUserUpdate))
	mux.HandleFunc("DELETE /users/{id}", h.guard(h.handleUserDelete))
	mux.HandleFunc("PATCH /users/{id}/profile", h.guard(h.handleUserProfileUpdate))

	mux.HandleFunc("POST /profiles", h.guard(h.handleProfileCreate))
	mux.HandleFunc("GET /profiles", h.guard(h.handleProfileList))
	mux.HandleFunc("GET /profiles/{id}", h.guard(h.handleProfileGet))
	mux.HandleFunc("PATCH /profiles/{id}", h.guard(h.handleProfileUpdate))
	mux.HandleFunc("DELETE /profiles/{id}", h.guard(h.handleProfileDelete))
}

// ---- auth ----

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validateSignUp(req, h.cfg.MaxBioLen); len(msgs) > 0 {
		writeError(w, r, http.StatusBadRequest, msgs)
		return
	}

	res, err := h.auth.SignUp(r.Context(), time.Now().UTC(), identity.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Profile:  req.Profile.toInput(),
	})
	if err != nil {
		h.writeStoreError(w, r, err, "api.signup")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: res.User, Token: res.Token})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validateSignIn(req); len(msgs) > 0 {
		writeError(w, r, http.StatusBadRequest, msgs)
		return
	}

	res, err := h.auth.SignIn(r.Context(), time.Now().UTC(), req.Email, req.Password)
	if err != nil {
		h.writeStoreError(w, r, err, "api.signin")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: res.User, Token: res.Token})
}

// ---- users ----

func (h *Handler) handleUserList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := queryInt64(q.Get("page"), 1)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "page must be an integer")
		return
	}
	limit, err := queryInt64(q.Get("limit"), directory.DefaultLimit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "limit must be an integer")
		return
	}

	res, err := h.dir.Find(r.Context(), directory.Query{
		Search:    q.Get("search"),
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	if err != nil {
		h.writeStoreError(w, r, err, "api.users.list")
		return
	}

	users := res.Users
	if users == nil {
		users = []identity.User{}
	}
	writeJSON(w, http.StatusOK, userListResponse{
		Data:       users,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

func (h *Handler) handleUserGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, r, err, "api.users.get")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validateUserUpdate(req, h.cfg.MaxBioLen); len(msgs) > 0 {
		writeError(w, r, http.StatusBadRequest, msgs)
		return
	}

	in := identity.UpdateUserInput{
		Email:    req.Email,
		Username: req.Username,
		Role:     req.Role,
		IsActive: req.IsActive,
		Now:      time.Now().UTC(),
	}
	if req.Profile != nil {
		p := req.Profile.toInput()
		in.Profile = &p
	}

	u, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeStoreError(w, r, err, "api.users.update")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.users.DeleteUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, r, err, "api.users.delete")
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}

func (h *Handler) handleUserProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validateProfileUpdate(req, h.cfg.MaxBioLen); len(msgs) > 0 {
		writeError(w, r, http.StatusBadRequest, msgs)
		return
	}

	in := req.toInput()
	u, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), identity.UpdateUserInput{
		Profile: &in,
		Now:     time.Now().UTC(),
	})
	if err != nil {
		h.writeStoreError(w, r, err, "api.users.profile.update")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ---- profiles (administrative surface) ----

func (h *Handler) handleProfileCreate(w http.ResponseWriter, r *http.Request) {
	var req profileCreateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validateProfileCreate(req, h.cfg.MaxBioLen); len(msgs) > 0 {
		writeError(w, r, http.StatusBadRequest, msgs)
		return
	}

	in := req.toInput()
	in.Now = time.Now().UTC()
	p, err := h.profiles.Create(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, r, err, "api.profiles.create")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleProfileList(w http.ResponseWriter, r *http.Request) {
	list, err := h.profiles.FindAll(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err, "api.profiles.list")
		return
	}
	if list == nil {
		list = []profile.Profile{}
	}
	writeJSON(w, http.StatusOK, profileListResponse{Data: list})
}

func (h *Handler) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, r, err, "api.profiles.get")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validateProfileUpdate(req, h.cfg.MaxBioLen); len(msgs) > 0 {
		writeError(w, r, http.StatusBadRequest, msgs)
		return
	}

	in := req.toInput()
	in.Now = time.Now().UTC()
	p, err := h.profiles.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.writeStoreError(w, r, err, "api.profiles.update")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleProfileDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.profiles.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, r, err, "api.profiles.delete")
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}

// ---- error mapping ----

// writeStoreError renders a service/store failure through the uniform
// envelope. Internal errors are logged with the op but never leak details.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case identity.IsInvalidCredentials(err):
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
	case identity.IsConflict(err):
		var ce identity.ConflictError
		field := "field"
		if errors.As(err, &ce) && ce.Field != "" {
			field = ce.Field
		}
		writeError(w, r, http.StatusConflict, field+" already exists")
	case identity.IsNotFound(err), profile.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, "resource not found")
	case identity.IsInvalidInput(err), profile.IsInvalidInput(err):
		writeError(w, r, http.StatusBadRequest, safeMessage(err))
	default:
		h.log.Error(op+".fail", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// safeMessage extracts the caller-facing message from a typed input error.
// Anything untyped falls back to a generic message.
func safeMessage(err error) string {
	var oe identity.OpError
	if errors.As(err, &oe) && oe.Msg != "" {
		return oe.Msg
	}
	var pe profile.OpError
	if errors.As(err, &pe) && pe.Msg != "" {
		return pe.Msg
	}
	return "invalid input"
}
