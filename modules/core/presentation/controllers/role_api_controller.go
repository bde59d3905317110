package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/role"
	"github.com/atlas-hq/atlas-admin/modules/core/permissions"
	"github.com/atlas-hq/atlas-admin/modules/core/presentation/mappers"
	"github.com/atlas-hq/atlas-admin/modules/core/services"
	"github.com/atlas-hq/atlas-admin/pkg/httpapi"
	"github.com/atlas-hq/atlas-admin/pkg/middleware"
)

type RoleAPIController struct {
	roles    *services.RoleService
	common   []mux.MiddlewareFunc
	basePath string
}

func NewRoleAPIController(roles *services.RoleService, common ...mux.MiddlewareFunc) *RoleAPIController {
	return &RoleAPIController{
		roles:    roles,
		common:   common,
		basePath: "/api/roles",
	}
}

func (c *RoleAPIController) Key() string {
	return c.basePath
}

func (c *RoleAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.common...)
	router.Handle("", guard(permissions.RoleRead, c.List)).Methods(http.MethodGet)
	router.Handle("/{id}", guard(permissions.RoleRead, c.Get)).Methods(http.MethodGet)
	router.Handle("", guard(permissions.RoleCreate, c.Create)).Methods(http.MethodPost)
	router.Handle("/{id}", guard(permissions.RoleUpdate, c.Update)).Methods(http.MethodPatch)
	router.Handle("/{id}", guard(permissions.RoleDelete, c.Delete)).Methods(http.MethodDelete)
}

func guard(code string, handler http.HandlerFunc) http.Handler {
	return middleware.RequirePermission(code)(handler)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "malformed id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *RoleAPIController) List(w http.ResponseWriter, r *http.Request) {
	roles, err := c.roles.List(r.Context())
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": mappers.RolesToViewModels(roles),
	})
}

func (c *RoleAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entity, err := c.roles.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.RoleToViewModel(entity))
}

func (c *RoleAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto role.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ROLE_INVALID_JSON", "invalid json", nil)
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "ROLE_VALIDATION_FAILED", "validation failed", fields)
		return
	}
	created, err := c.roles.Create(r.Context(), dto)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.RoleToViewModel(created))
}

func (c *RoleAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto role.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "ROLE_INVALID_JSON", "invalid json", nil)
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "ROLE_VALIDATION_FAILED", "validation failed", fields)
		return
	}
	updated, err := c.roles.Update(r.Context(), id, dto)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.RoleToViewModel(updated))
}

func (c *RoleAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.roles.Remove(r.Context(), id); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
