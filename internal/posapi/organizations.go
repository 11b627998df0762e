package posapi

import (
	"net/http"

	"posgate/internal/auth"
	"posgate/internal/models"
)

// Organizations возвращает организации вызывающего из organization_ids.
// Чужие id молча отбрасываются.
func (h *Handler) Organizations(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req OrganizationsRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	owned, ok := h.ownedOrganizations(w, r, id, req.OrganizationIDs)
	if !ok {
		return
	}
	orgs, err := h.orgs.ListByIDs(r.Context(), owned, *req.IncludeDisabled)
	if err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	if *req.ReturnAdditionalInfo {
		models.WriteJSON(w, http.StatusOK, orgs)
		return
	}
	short := make([]OrganizationShort, 0, len(orgs))
	for _, o := range orgs {
		short = append(short, OrganizationShort{ID: o.ID, Name: o.Name})
	}
	models.WriteJSON(w, http.StatusOK, short)
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req CreateOrganizationRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	o := &models.Organization{
		OwnerID:           id.ID,
		Name:              req.Name,
		Country:           req.Country,
		RestaurantAddress: req.RestaurantAddress,
		RMSVersion:        req.RMSVersion,
		IsDisabled:        req.IsDisabled,
	}
	if err := h.orgs.Create(r.Context(), o); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, o.ID)
}
