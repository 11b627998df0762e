package posapi

import (
	"net/http"

	"posgate/internal/auth"
	"posgate/internal/models"
	"posgate/internal/repo"
)

func (h *Handler) TerminalGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req TerminalGroupsRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	owned, ok := h.ownedOrganizations(w, r, id, req.OrganizationIDs)
	if !ok {
		return
	}
	groups, err := h.tgs.ListByOrganizations(r.Context(), owned)
	if err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}

	full := req.ReturnAdditionalInfo != nil && *req.ReturnAdditionalInfo
	byOrg := make(map[uint][]TerminalGroupItem, len(owned))
	for _, g := range groups {
		item := TerminalGroupItem{ID: g.ID, OrganizationID: g.OrganizationID, Name: g.Name}
		if full {
			item.Address = g.Address
			item.Timezone = g.Timezone
		}
		byOrg[g.OrganizationID] = append(byOrg[g.OrganizationID], item)
	}
	resp := TerminalGroupsResponse{TerminalGroups: make([]TerminalGroupsByOrganization, 0, len(owned))}
	for _, orgID := range owned {
		items := byOrg[orgID]
		if items == nil {
			items = []TerminalGroupItem{}
		}
		resp.TerminalGroups = append(resp.TerminalGroups, TerminalGroupsByOrganization{OrganizationID: orgID, Items: items})
	}
	models.WriteJSON(w, http.StatusOK, resp)
}

// IsAlive отдаёт статус только тех групп, которыми владеет вызывающий и
// которые входят в перечисленные организации.
func (h *Handler) IsAlive(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req IsAliveRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	orgs, err := h.own.Scope(r.Context(), id.ID, req.orgIDs(), repo.Organizations)
	if err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	tgIDs, err := h.own.Scope(r.Context(), id.ID, req.TerminalGroupIDs, repo.TerminalGroups)
	if err != nil {
		h.fail(w, r, err, detailTerminalNotFound)
		return
	}
	groups, err := h.tgs.ListByIDs(r.Context(), tgIDs.Slice())
	if err != nil {
		h.fail(w, r, err, detailTerminalNotFound)
		return
	}

	resp := IsAliveResponse{IsAliveStatus: []IsAliveStatus{}}
	for _, g := range groups {
		if !orgs.Has(g.OrganizationID) {
			continue
		}
		resp.IsAliveStatus = append(resp.IsAliveStatus, IsAliveStatus{
			IsAlive:         g.IsAlive,
			TerminalGroupID: g.ID,
			OrganizationID:  g.OrganizationID,
		})
	}
	models.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateTerminalGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.MustIdentity(w, r)
	if !ok {
		return
	}
	var req CreateTerminalGroupRequest
	if !models.ReadJSON(w, r, &req) {
		return
	}
	if !h.ownedOrganization(w, r, id, req.OrganizationID) {
		return
	}
	tg := &models.TerminalGroup{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Address:        req.Address,
		Timezone:       req.Timezone,
		IsAlive:        req.IsAlive,
	}
	if err := h.tgs.Create(r.Context(), tg); err != nil {
		h.fail(w, r, err, detailOrgNotFound)
		return
	}
	models.WriteAckID(w, http.StatusCreated, tg.ID)
}
