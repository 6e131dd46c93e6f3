package controllers

import (
	"net/http"

	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/middleware"
	"github.com/iamavinashmourya/FarmCare/internal/services"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

type AccountController struct {
	accounts services.AccountService
}

func NewAccountController(accounts services.AccountService) *AccountController {
	return &AccountController{accounts: accounts}
}

// ----------------------
// Farmers
// ----------------------

func (c *AccountController) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.accounts.RegisterUser(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.RegisterResponse{
		Message: "Registration successful",
		UserID:  u.ID.String(),
	})
}

func (c *AccountController) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, false)
}

// ----------------------
// Admins
// ----------------------

func (c *AccountController) RegisterAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterAdminRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.accounts.RegisterAdmin(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.RegisterResponse{
		Message: "Admin registration successful",
		UserID:  u.ID.String(),
	})
}

func (c *AccountController) LoginAdminHandler(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, true)
}

// LogoutHandler serves both user and admin logout; the route decides the role.
func (c *AccountController) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.accounts.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Successfully logged out"})
}

func (c *AccountController) login(w http.ResponseWriter, r *http.Request, asAdmin bool) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.accounts.Login(r.Context(), req, asAdmin)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------
// Profile
// ----------------------

func (c *AccountController) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	u, err := c.accounts.GetProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ProfileResponse{User: dtos.NewUserResponse(u)})
}

func (c *AccountController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.accounts.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ProfileResponse{
		Message: "Profile updated successfully",
		User:    dtos.NewUserResponse(u),
	})
}
