// internal/app/features/users/register.go
package users

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	userstore "github.com/assetverse/assetverse/internal/app/store/users"
	"github.com/assetverse/assetverse/internal/app/system/apperrors"
	"github.com/assetverse/assetverse/internal/app/system/httpjson"
	"github.com/assetverse/assetverse/internal/app/system/normalize"
	"github.com/assetverse/assetverse/internal/app/system/timeouts"
	"github.com/assetverse/assetverse/internal/domain/models"
)

const minPasswordLength = 6

type registerBody struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName,omitempty"`
	CompanyLogo string `json:"companyLogo,omitempty"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// HandleRegister creates an account and returns a signed token for it.
// Email is the identity key; registering an existing email is a 409.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if normalize.Email(body.Email) == "" {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Invalid, "email is required"))
		return
	}
	if len(body.Password) < minPasswordLength {
		httpjson.Error(w, h.Log, apperrors.Newf(apperrors.Invalid, "password must be at least %d characters", minPasswordLength))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.Wrap(apperrors.Internal, "hash password", err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "register user")
	defer cancel()

	created, err := userstore.New(h.DB).Create(ctx, models.User{
		Name:         body.Name,
		Email:        body.Email,
		Role:         body.Role,
		CompanyName:  body.CompanyName,
		CompanyLogo:  body.CompanyLogo,
		PasswordHash: string(hash),
	})
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	token, err := h.Tokens.Issue(created)
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.Wrap(apperrors.Internal, "issue token", err))
		return
	}
	httpjson.Respond(w, http.StatusCreated, authResponse{Token: token, User: created})
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns a signed token. Unknown
// email and wrong password are indistinguishable to the caller.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium, h.Log, "login")
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, body.Email)
	if apperrors.Is(err, apperrors.NotFound) {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Unauthorized, "invalid credentials"))
		return
	} else if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
		httpjson.Error(w, h.Log, apperrors.New(apperrors.Unauthorized, "invalid credentials"))
		return
	}

	token, err := h.Tokens.Issue(*u)
	if err != nil {
		httpjson.Error(w, h.Log, apperrors.Wrap(apperrors.Internal, "issue token", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, authResponse{Token: token, User: *u})
}
