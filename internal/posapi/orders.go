package posapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"posgate/internal/auth"
	"posgate/internal/models"
	"posgate/internal/repo"
)

// CreateOrder: организация должна принадлежать вызывающему, терминальная
// группа должна быть из этой организации.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	if _, err := h.tgs.GetInOrganization(r.Context(), req.TerminalGroupID, req.OrganizationID); err != nil {
		h.fail(w, r, err, detailTerminalNotFound)
		return
	}

	in := req.Order
	if in.OrderTypeID != nil && !h.ownedInOrganization(w, r, id, req.OrganizationID, []uint{*in.OrderTypeID}, repo.OrderTypes, detailOrderTypeNotFound) {
		return
	}
	if !h.ownedInOrganization(w, r, id, req.OrganizationID, paymentTypeIDs(in.Payments), repo.PaymentTypes, detailPaymentNotFound) {
		return
	}

	o := &models.Order{
		OrganizationID:  req.OrganizationID,
		TerminalGroupID: req.TerminalGroupID,
		ExternalNumber:  in.ExternalNumber,
		TableID:         in.TableID,
		Phone:           in.Phone,
		TabName:         in.TabName,
		SourceKey:       in.SourceKey,
		OrderTypeID:     in.OrderTypeID,
		Customer:        datatypes.NewJSONType(in.Customer),
		Payments:        paymentModels(in.Payments),
	}
	if in.GuestCount != nil {
		o.GuestCount = *in.GuestCount
	}
	if s := req.CreateOrderSettings; s != nil {
		o.TransportToFrontTimeout = s.TransportToFrontTimeout
	}
	if err := h.orders.Create(r.Context(), o); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, o.ID)
}

func (h *Handler) OrdersByID(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req OrdersByIDRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	orders, err := h.orders.ListByIDs(r.Context(), req.OrganizationID, req.OrderIDs)
	if err != nil {
		h.fail(w, r, err, detailOrderNotFound)
		return
	}
	models.WriteJSON(w, http.StatusOK, orders)
}

// GetOrder — /orders/{organization_id}/{order_id}. Заказ из другой
// организации неотличим от чужой организации.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	orgID, err1 := strconv.ParseUint(vars["organization_id"], 10, 0)
	orderID, err2 := strconv.ParseUint(vars["order_id"], 10, 0)
	if err := errors.Join(err1, err2); err != nil {
		models.WriteValidation(w, errors.New("organization_id and order_id must be positive integers"))
		return
	}
	if !h.ownedOrganization(w, r, id, uint(orgID)) {
		return
	}
	o, err := h.orders.Get(r.Context(), uint(orderID))
	if err != nil {
		h.fail(w, r, err, detailOrderNotFound)
		return
	}
	if o.OrganizationID != uint(orgID) {
		models.WriteNotFound(w, detailOrgNotFound)
		return
	}
	models.WriteJSON(w, http.StatusOK, o)
}

// ChangePayments заменяет оплаты заказа, если ни одна ещё не фискализирована.
func (h *Handler) ChangePayments(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req ChangePaymentsRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	owned, err := h.own.Scope(r.Context(), id.ID, []uint{req.OrderID}, repo.Orders)
	if err != nil {
		h.fail(w, r, err, detailOrderNotFound)
		return
	}
	if !owned.Has(req.OrderID) {
		models.WriteNotFound(w, detailOrderNotFound)
		return
	}
	o, err := h.orders.Get(r.Context(), req.OrderID)
	if err != nil {
		h.fail(w, r, err, detailOrderNotFound)
		return
	}
	if o.OrganizationID != req.OrganizationID {
		models.WriteNotFound(w, detailOrderNotFound)
		return
	}
	if !h.ownedInOrganization(w, r, id, req.OrganizationID, paymentTypeIDs(req.Payments), repo.PaymentTypes, detailPaymentNotFound) {
		return
	}

	if err := h.orders.ReplacePayments(r.Context(), req.OrderID, paymentModels(req.Payments)); err != nil {
		h.fail(w, r, err, detailOrderNotFound)
		return
	}
	models.WriteAck(w, http.StatusOK)
}
