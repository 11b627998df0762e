package posapi

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"posgate/internal/auth"
	"posgate/internal/logs"
	"posgate/internal/middleware"
	"posgate/internal/models"
	"posgate/internal/repo"
)

// Login принимает JSON или OAuth2 password-форму. Неизвестный логин и
// неверный пароль дают одинаковый 401.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if ct := mediaType(r); ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data" {
		if err := parseForm(r, ct); err != nil {
			models.WriteValidation(w, err)
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		if err := req.Validate(); err != nil {
			models.WriteValidation(w, err)
			return
		}
	} else if !models.ReadJSON(w, r, &req) {
		return
	}

	u, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		h.fail(w, r, err, detailBadLogin)
		return
	}
	if u == nil || !h.hasher.Verify(req.Password, u.HashedPassword) {
		logs.Logger.WithField("reqid", middleware.GetRequestID(r)).Debug("login rejected")
		models.WriteUnauthorized(w, detailBadLogin)
		return
	}

	token, err := h.tokens.Issue(auth.Identity{Username: u.Username, ID: u.ID}, h.tokens.TTL())
	if err != nil {
		h.fail(w, r, err, detailBadLogin)
		return
	}
	models.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func mediaType(r *http.Request) string {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct
}

func parseForm(r *http.Request, ct string) error {
	if ct == "multipart/form-data" {
		return r.ParseMultipartForm(models.MaxBodyBytes)
	}
	return r.ParseForm()
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	digest, err := h.hasher.Hash(req.Password)
	if err != nil {
		models.WriteValidation(w, err)
		return
	}
	u := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		Firstname:      req.Firstname,
		Lastname:       req.Lastname,
		HashedPassword: digest,
		IsActive:       true,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		h.fail(w, r, err, detailUserNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, u.ID)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, r, err, detailUserNotFound)
		return
	}
	models.WriteJSON(w, http.StatusOK, users)
}

// GetUser — /users/{user_id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	h.writeUser(w, r, mux.Vars(r)["user_id"])
}

// GetUserByQuery — /users/user/?user_id=.
func (h *Handler) GetUserByQuery(w http.ResponseWriter, r *http.Request) {
	h.writeUser(w, r, r.URL.Query().Get("user_id"))
}

func (h *Handler) writeUser(w http.ResponseWriter, r *http.Request, raw string) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		models.WriteValidation(w, errors.New("user_id: must be a positive integer"))
		return
	}
	u, err := h.users.GetByID(r.Context(), uint(id))
	if err != nil {
		h.fail(w, r, err, detailUserNotFound)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

// UpdateMyPassword требует, чтобы username совпадал с записью вызывающего,
// а текущий пароль проходил проверку.
func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req UpdatePasswordRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}

	u, err := h.users.GetByID(r.Context(), id.ID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		h.fail(w, r, err, detailInvalidUser)
		return
	}
	if u == nil || u.Username != req.Username || !h.hasher.Verify(req.Password, u.HashedPassword) {
		models.WriteUnauthorized(w, detailInvalidUser)
		return
	}

	digest, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		models.WriteValidation(w, err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), u.ID, digest); err != nil {
		h.fail(w, r, err, detailInvalidUser)
		return
	}
	models.WriteAck(w, http.StatusOK)
}

// DeleteMe удаляет вызывающего вместе со всем, чем он владеет.
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	if err := h.users.DeleteCascade(r.Context(), id.ID); err != nil {
		h.fail(w, r, err, detailUserNotFound)
		return
	}
	logs.Logger.WithField("reqid", middleware.GetRequestID(r)).
		WithField("user_id", id.ID).
		Info("account deleted")
	models.WriteAck(w, http.StatusCreated)
}
