package epc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Grylink/api-finance/internal/auth"
	"github.com/Grylink/api-finance/internal/models"
	"github.com/Grylink/api-finance/internal/notification"
	"github.com/Grylink/api-finance/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// POST /epcs/login
// Validates email/password, issues the access token and sets the refresh
// cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}

	user, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil {
		utils.SendJSON(w, http.StatusUnauthorized, models.NewBusinessError(
			http.StatusUnauthorized, models.CodeNotAuthorized, "invalid credentials"))
		return
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		utils.SendJSON(w, http.StatusUnauthorized, models.NewBusinessError(
			http.StatusUnauthorized, models.CodeNotAuthorized, "invalid credentials"))
		return
	}

	role := auth.RoleEPC
	if user.IsAdmin {
		role = auth.RoleAdmin
	}
	access, err := auth.IssueTokensOnLogin(h.DB, w, user.ID, role)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]any{
		"access_token": access,
		"token_type":   "Bearer",
		"expires_in":   int(auth.AccessTTL.Seconds()),
	})
}

// POST /epcs
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	if _, err := h.Repository.FindByEmail(h.DB, req.Email); err == nil {
		go notification.SendDuplicateRegistrationAlert(req.Email)
		utils.SendError(w, models.ErrValidationFailed("email already registered"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	e := EPC{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		GSTNumber:   req.GSTNumber,
		Password:    hash,
	}
	if err := h.Repository.Save(h.DB, &e); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, e)
}

// GET /epcs (admin only, enforced on the route)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListAll(h.DB)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, list)
}

// GET /epcs/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid id"))
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleAdmin && userID != uint(id) {
		utils.SendError(w, models.ErrNotAuthorized("access denied"))
		return
	}

	obj, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(w, models.ErrNotFound("epc not found"))
			return
		}
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, obj)
}

// PUT /epcs/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid id"))
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleAdmin && userID != uint(id) {
		utils.SendError(w, models.ErrNotAuthorized("access denied"))
		return
	}

	var req UpdateEPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := h.Repository.Update(h.DB, uint(id), &req); err != nil {
		utils.SendError(w, err)
		return
	}

	obj, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, obj)
}

// DELETE /epcs/{id} (admin only, enforced on the route)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid id"))
		return
	}
	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		utils.SendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
