package controllers

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/atlas-hq/atlas-admin/pkg/httpapi"
)

// ProfileAPIController exposes the caller's own resolved authorization
// context, mainly so clients can hide controls the principal cannot use.
type ProfileAPIController struct {
	common   []mux.MiddlewareFunc
	basePath string
}

func NewProfileAPIController(common ...mux.MiddlewareFunc) *ProfileAPIController {
	return &ProfileAPIController{common: common, basePath: "/api/profile"}
}

func (c *ProfileAPIController) Key() string {
	return c.basePath
}

func (c *ProfileAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.common...)
	router.HandleFunc("", c.Show).Methods(http.MethodGet)
}

func (c *ProfileAPIController) Show(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOf(w, r)
	if !ok {
		return
	}
	perms := make([]string, 0, len(p.Permissions))
	for code := range p.Permissions {
		perms = append(perms, code)
	}
	sort.Strings(perms)
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"user_id":     p.ID,
		"org_id":      p.OrgID,
		"data_scope":  p.Scope,
		"permissions": perms,
	})
}
