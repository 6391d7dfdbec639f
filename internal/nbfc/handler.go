package nbfc

import (
	"encoding/json"
	"net/http"

	"github.com/Grylink/api-finance/internal/auth"
	"github.com/Grylink/api-finance/internal/models"
	"github.com/Grylink/api-finance/internal/utils"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// CreateNBFCRequest is used in POST /nbfcs
type CreateNBFCRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	RBILicense string `json:"rbiLicense"`
	Password   string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// POST /nbfcs/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}

	user, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil || !utils.CheckPassword(user.Password, req.Password) {
		utils.SendJSON(w, http.StatusUnauthorized, models.NewBusinessError(
			http.StatusUnauthorized, models.CodeNotAuthorized, "invalid credentials"))
		return
	}

	access, err := auth.IssueTokensOnLogin(h.DB, w, user.ID, auth.RoleNBFC)
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

// POST /nbfcs
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNBFCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	n := NBFC{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		RBILicense: req.RBILicense,
		Password:   hash,
	}
	if err := h.Repository.Save(h.DB, &n); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, n)
}

// GET /nbfcs (admin only, enforced on the route)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListAll(h.DB)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, list)
}
