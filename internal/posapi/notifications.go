package posapi

import (
	"net/http"

	"posgate/internal/auth"
	"posgate/internal/models"
)

// SendNotification сохраняет уведомление для внешних систем от имени
// вызывающего и возвращает его id.
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req NotificationRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	op := &models.Operation{
		OwnerID:        id.ID,
		OrganizationID: req.OrganizationID,
		OrderSource:    req.OrderSource,
		OrderID:        *req.OrderID,
		AdditionalInfo: req.AdditionalInfo,
		MessageType:    req.MessageType,
	}
	if err := h.ops.Create(r.Context(), op); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteJSON(w, http.StatusOK, NotificationResponse{ID: op.ID})
}
