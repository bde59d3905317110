package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/atlas-hq/atlas-admin/modules/core/permissions"
	"github.com/atlas-hq/atlas-admin/modules/org/domain/aggregates/organization"
	"github.com/atlas-hq/atlas-admin/modules/org/presentation/mappers"
	"github.com/atlas-hq/atlas-admin/modules/org/services"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/httpapi"
	"github.com/atlas-hq/atlas-admin/pkg/middleware"
)

type OrgAPIController struct {
	orgs     *services.OrgService
	common   []mux.MiddlewareFunc
	basePath string
}

func NewOrgAPIController(orgs *services.OrgService, common ...mux.MiddlewareFunc) *OrgAPIController {
	return &OrgAPIController{
		orgs:     orgs,
		common:   common,
		basePath: "/api/orgs",
	}
}

func (c *OrgAPIController) Key() string {
	return c.basePath
}

func (c *OrgAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.common...)

	read := router.NewRoute().Subrouter()
	read.Use(middleware.RequirePermission(permissions.OrgRead))
	read.HandleFunc("/tree", c.Tree).Methods(http.MethodGet)
	read.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	router.Handle("", requirePermission(permissions.OrgCreate, c.Create)).Methods(http.MethodPost)
	router.Handle("/{id}", requirePermission(permissions.OrgUpdate, c.Update)).Methods(http.MethodPatch)
	router.Handle("/{id}/move", requirePermission(permissions.OrgUpdate, c.Move)).Methods(http.MethodPost)
	router.Handle("/{id}", requirePermission(permissions.OrgDelete, c.Delete)).Methods(http.MethodDelete)
	router.Handle("/rebuild-paths", requirePermission(permissions.SystemSettings, c.RebuildPaths)).Methods(http.MethodPost)
}

func requirePermission(code string, handler http.HandlerFunc) http.Handler {
	return middleware.RequirePermission(code)(handler)
}

func usePrincipal(w http.ResponseWriter, r *http.Request) (datascope.Principal, bool) {
	p, ok := composables.UsePrincipal(r.Context())
	if !ok {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no principal in context", nil)
	}
	return p, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ORG_INVALID_ID", "malformed organization id", nil)
		return uuid.Nil, false
	}
	return id, true
}

// Tree returns the organizations visible to the principal, nested and with
// siblings ordered.
func (c *OrgAPIController) Tree(w http.ResponseWriter, r *http.Request) {
	p, ok := usePrincipal(w, r)
	if !ok {
		return
	}
	orgs, err := c.orgs.ListAccessible(r.Context(), p)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": mappers.BuildTree(orgs),
	})
}

func (c *OrgAPIController) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := usePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	org, err := c.orgs.GetByID(r.Context(), p, id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.OrgToViewModel(org))
}

func (c *OrgAPIController) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := usePrincipal(w, r)
	if !ok {
		return
	}
	var dto organization.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ORG_INVALID_JSON", "invalid json", nil)
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "ORG_VALIDATION_FAILED", "validation failed", fields)
		return
	}
	created, err := c.orgs.Create(r.Context(), p, &dto)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.OrgToViewModel(created))
}

func (c *OrgAPIController) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := usePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto organization.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ORG_INVALID_JSON", "invalid json", nil)
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "ORG_VALIDATION_FAILED", "validation failed", fields)
		return
	}
	updated, err := c.orgs.Update(r.Context(), p, id, &dto)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.OrgToViewModel(updated))
}

func (c *OrgAPIController) Move(w http.ResponseWriter, r *http.Request) {
	p, ok := usePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto organization.MoveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ORG_INVALID_JSON", "invalid json", nil)
		return
	}
	moved, err := c.orgs.Move(r.Context(), p, id, dto.ParentID)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.OrgToViewModel(moved))
}

func (c *OrgAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := usePrincipal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.orgs.Remove(r.Context(), p, id); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

// RebuildPaths recomputes every derived placement from the parent edges.
func (c *OrgAPIController) RebuildPaths(w http.ResponseWriter, r *http.Request) {
	rewritten, err := c.orgs.RebuildPaths(r.Context())
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"rewritten": rewritten})
}
