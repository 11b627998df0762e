package posapi

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"posgate/internal/auth"
	"posgate/internal/logs"
	"posgate/internal/middleware"
	"posgate/internal/models"
	"posgate/internal/repo"
)

const (
	detailBadLogin          = "Incorrect username or password"
	detailInvalidUser       = "Invalid user or request"
	detailUserNotFound      = "User not found"
	detailOrgNotFound       = "Organization not found"
	detailTerminalNotFound  = "Terminal group not found"
	detailOrderNotFound     = "Order not found"
	detailOrderTypeNotFound = "Order type not found"
	detailPaymentNotFound   = "Payment type not found"
	detailProcessedPayments = "Order has processed payments"
	detailDuplicateUser     = "Username or email already registered"
)

type Handler struct {
	users  *repo.UserStore
	orgs   *repo.OrganizationStore
	tgs    *repo.TerminalGroupStore
	dicts  *repo.DictionaryStore
	orders *repo.OrderStore
	ops    *repo.OperationStore
	own    *repo.Ownership

	hasher auth.Hasher
	tokens *auth.Issuer
}

func NewHandler(db *gorm.DB, hasher auth.Hasher, tokens *auth.Issuer) *Handler {
	return &Handler{
		users:  repo.NewUserStore(db),
		orgs:   repo.NewOrganizationStore(db),
		tgs:    repo.NewTerminalGroupStore(db),
		dicts:  repo.NewDictionaryStore(db),
		orders: repo.NewOrderStore(db),
		ops:    repo.NewOperationStore(db),
		own:    repo.NewOwnership(db),
		hasher: hasher,
		tokens: tokens,
	}
}

// fail отвечает на ошибку хранилища. ErrNotFound превращается в 404 с
// notFound, остальное в 500 без подробностей.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		models.WriteNotFound(w, notFound)
	case errors.Is(err, repo.ErrDuplicate):
		models.WriteProblem(w, http.StatusConflict, "Conflict", detailDuplicateUser, nil)
	case errors.Is(err, repo.ErrConflict):
		models.WriteProblem(w, http.StatusConflict, "Conflict", detailProcessedPayments, nil)
	default:
		reqid := middleware.GetRequestID(r)
		logs.Logger.WithError(err).
			WithField("reqid", reqid).
			WithField("uri", r.RequestURI).
			Error("storage failure")
		models.WriteProblem(w, http.StatusInternalServerError,
			"Internal Server Error",
			"unexpected server error (see logs by reqid)", map[string]any{"reqid": reqid})
	}
}

// ownedOrganization проверяет, что orgID принадлежит вызывающему; иначе сам
// отвечает 404 "Organization not found".
func (h *Handler) ownedOrganization(w http.ResponseWriter, r *http.Request, id auth.Identity, orgID uint) bool {
	ok, err := h.own.Owns(r.Context(), id.ID, orgID, repo.Organizations)
	if err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return false
	}
	if !ok {
		models.WriteNotFound(w, detailOrgNotFound)
		return false
	}
	return true
}

// ownedOrganizations — Scope по организациям для списочных запросов.
func (h *Handler) ownedOrganizations(w http.ResponseWriter, r *http.Request, id auth.Identity, requested []uint) ([]uint, bool) {
	set, err := h.own.Scope(r.Context(), id.ID, requested, repo.Organizations)
	if err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return nil, false
	}
	return set.Slice(), true
}

// ownedInOrganization проверяет, что каждый ненулевой id из ids — ресурс res
// организации orgID, принадлежащей вызывающему. Иначе отвечает 404 с detail.
func (h *Handler) ownedInOrganization(w http.ResponseWriter, r *http.Request, id auth.Identity, orgID uint, ids []uint, res repo.Resource, detail string) bool {
	want := repo.NewIDSet()
	for _, v := range ids {
		if v != 0 {
			want[v] = struct{}{}
		}
	}
	if want.Len() == 0 {
		return true
	}
	got, err := h.own.ScopeIn(r.Context(), id.ID, orgID, want.Slice(), res)
	if err != nil {
		h.fail(w, r, err, detail)
		return false
	}
	if got.Len() != want.Len() {
		models.WriteNotFound(w, detail)
		return false
	}
	return true
}
