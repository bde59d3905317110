package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/atlas-hq/atlas-admin/modules/core/domain/aggregates/user"
	"github.com/atlas-hq/atlas-admin/modules/core/permissions"
	"github.com/atlas-hq/atlas-admin/modules/core/presentation/mappers"
	"github.com/atlas-hq/atlas-admin/modules/core/services"
	"github.com/atlas-hq/atlas-admin/pkg/composables"
	"github.com/atlas-hq/atlas-admin/pkg/datascope"
	"github.com/atlas-hq/atlas-admin/pkg/httpapi"
)

type UserAPIController struct {
	users    *services.UserService
	common   []mux.MiddlewareFunc
	basePath string
}

func NewUserAPIController(users *services.UserService, common ...mux.MiddlewareFunc) *UserAPIController {
	return &UserAPIController{
		users:    users,
		common:   common,
		basePath: "/api/users",
	}
}

func (c *UserAPIController) Key() string {
	return c.basePath
}

func (c *UserAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.common...)
	router.Handle("", guard(permissions.UserRead, c.List)).Methods(http.MethodGet)
	router.Handle("/{id}", guard(permissions.UserRead, c.Get)).Methods(http.MethodGet)
	router.Handle("", guard(permissions.UserCreate, c.Create)).Methods(http.MethodPost)
	router.Handle("/{id}/roles", guard(permissions.RoleAssign, c.AssignRoles)).Methods(http.MethodPut)
	router.Handle("/{id}", guard(permissions.UserDelete, c.Delete)).Methods(http.MethodDelete)
}

func principalOf(w http.ResponseWriter, r *http.Request) (datascope.Principal, bool) {
	p, ok := composables.UsePrincipal(r.Context())
	if !ok {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "no principal in context", nil)
	}
	return p, ok
}

func (c *UserAPIController) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOf(w, r)
	if !ok {
		return
	}
	users, err := c.users.ListAccessible(r.Context(), p)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": mappers.UsersToViewModels(users),
	})
}

func (c *UserAPIController) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entity, err := c.users.GetByID(r.Context(), p, id)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.UserToViewModel(entity))
}

func (c *UserAPIController) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOf(w, r)
	if !ok {
		return
	}
	var dto user.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "USER_INVALID_JSON", "invalid json", nil)
		return
	}
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "USER_VALIDATION_FAILED", "validation failed", fields)
		return
	}
	created, err := c.users.Create(r.Context(), p, dto)
	if err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.UserToViewModel(created))
}

func (c *UserAPIController) AssignRoles(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto user.AssignRolesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "USER_INVALID_JSON", "invalid json", nil)
		return
	}
	if err := c.users.AssignRoles(r.Context(), p, id, dto.RoleIDs); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func (c *UserAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOf(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.users.Remove(r.Context(), p, id); err != nil {
		_ = httpapi.WriteServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}
