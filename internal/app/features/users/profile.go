// internal/app/features/users/profile.go
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	userstore "github.com/assetverse/assetverse/internal/app/store/users"
	"github.com/assetverse/assetverse/internal/app/system/auth"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

// HandleRole returns the role stored for an email. Unknown emails report
// "employee" so the client can render a default experience before signup.
func (h *Handler) HandleRole(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short, h.Log, "role lookup")
	defer cancel()

	role, err := userstore.New(h.DB).RoleByEmail(ctx, email)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"role": role})
}

// HandleMe returns the caller's own record, including the embedded list of
// assigned assets.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short, h.Log, "load profile")
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, id.Email)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

type updateMeBody struct {
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	CompanyLogo string `json:"companyLogo,omitempty"`
}

// HandleUpdateMe edits the caller's profile fields. Role, email, and the
// bookkeeping counters are not editable here.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.CurrentIdentity(r)

	var body updateMeBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "update profile")
	defer cancel()

	store := userstore.New(h.DB)
	if err := store.UpdateProfile(ctx, id.Email, userstore.ProfileUpdate{
		Name:        body.Name,
		CompanyName: body.CompanyName,
		CompanyLogo: body.CompanyLogo,
	}); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	u, err := store.GetByEmail(ctx, id.Email)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

// HandleList returns every user. HR-only.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "list users")
	defer cancel()

	out, err := userstore.New(h.DB).ListAll(ctx)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.User{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}
