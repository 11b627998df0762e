package posapi

import (
	"net/http"

	"posgate/internal/auth"
	"posgate/internal/models"
	"posgate/internal/repo"
)

// listByOrganizations — общий каркас выборок справочников: разбор тела,
// Scope по организациям, запрос в хранилище.
func listByOrganizations[T any](h *Handler, load func(h *Handler, r *http.Request, orgIDs []uint) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.MustIdentity(w, r)
		if !ok {
			return
		}
		var req OrganizationIDsRequest
		if !models.ReadJSON(w, r, &req) {
			return
		}
		owned, ok := h.ownedOrganizations(w, r, id, req.OrganizationIDs)
		if !ok {
			return
		}
		items, err := load(h, r, owned)
		if err != nil {
			h.fail(w, r, err, detailOrgNotFound)
			return
		}
		models.WriteJSON(w, http.StatusOK, items)
	}
}

func (h *Handler) CancelCauses() http.HandlerFunc {
	return listByOrganizations(h, func(h *Handler, r *http.Request, orgIDs []uint) ([]models.CancelCause, error) {
		return h.dicts.CancelCauses(r.Context(), orgIDs)
	})
}

func (h *Handler) OrderTypes() http.HandlerFunc {
	return listByOrganizations(h, func(h *Handler, r *http.Request, orgIDs []uint) ([]models.OrderType, error) {
		return h.dicts.OrderTypes(r.Context(), orgIDs)
	})
}

func (h *Handler) Discounts() http.HandlerFunc {
	return listByOrganizations(h, func(h *Handler, r *http.Request, orgIDs []uint) ([]models.Discount, error) {
		return h.dicts.Discounts(r.Context(), orgIDs)
	})
}

func (h *Handler) PaymentTypes() http.HandlerFunc {
	return listByOrganizations(h, func(h *Handler, r *http.Request, orgIDs []uint) ([]models.PaymentType, error) {
		return h.dicts.PaymentTypes(r.Context(), orgIDs)
	})
}

func (h *Handler) CreateCancelCause(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req CreateCancelCauseRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	cc := &models.CancelCause{Name: req.Name}
	if err := h.dicts.CreateCancelCause(r.Context(), req.OrganizationID, req.Correlation, cc); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, cc.ID)
}

func (h *Handler) CreateOrderType(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req CreateOrderTypeRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	ot := &models.OrderType{OrganizationID: req.OrganizationID, Name: req.Name, OrderServiceType: req.OrderServiceType}
	if err := h.dicts.CreateOrderType(r.Context(), ot); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, ot.ID)
}

func (h *Handler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req CreateDiscountRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	d := req.model()
	if err := h.dicts.CreateDiscount(r.Context(), d); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, d.ID)
}

// CreatePaymentType привязывает тип оплаты к терминальным группам той же
// организации; чужие или отсутствующие группы дают 404.
func (h *Handler) CreatePaymentType(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req CreatePaymentTypeRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	if !h.ownedInOrganization(w, r, id, req.OrganizationID, req.TerminalGroupIDs, repo.TerminalGroups, detailTerminalNotFound) {
		return
	}

	pt := req.model()
	if err := h.dicts.CreatePaymentType(r.Context(), pt, repo.NewIDSet(req.TerminalGroupIDs...).Slice()); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, pt.ID)
}
