package subcontractor

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

// POST /subcontractors/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
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

	access, err := auth.IssueTokensOnLogin(h.DB, w, user.ID, auth.RoleSubContractor)
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

// POST /subcontractors
// New accounts start with every KYC slot pending.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSubContractorRequest
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

	pending := models.Attachment{Status: models.DocumentPending}
	s := SubContractor{
		Name:           req.Name,
		CompanyName:    req.CompanyName,
		Email:          req.Email,
		Phone:          req.Phone,
		PANNumber:      req.PANNumber,
		GSTNumber:      req.GSTNumber,
		Password:       hash,
		PANCard:        pending,
		GSTCertificate: pending,
		BankProof:      pending,
	}
	if err := h.Repository.Save(h.DB, &s); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, s)
}

// GET /subcontractors (admin/EPC oversight)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListAll(h.DB)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, list)
}

// GET /subcontractors/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid id"))
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role == auth.RoleSubContractor && userID != uint(id) {
		utils.SendError(w, models.ErrNotAuthorized("access denied"))
		return
	}

	obj, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(w, models.ErrNotFound("sub-contractor not found"))
			return
		}
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, obj)
}

// PUT /subcontractors/{id}/documents/{doc}
// The sub-contractor attaches a file to one of their KYC slots; the slot
// moves to Uploaded and awaits review.
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid id"))
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleSubContractor || userID != uint(id) {
		utils.SendError(w, models.ErrNotAuthorized("only the owner may upload documents"))
		return
	}

	var req UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	att := models.Attachment{
		FileURL:  req.FileURL,
		FileName: req.FileName,
		Status:   models.DocumentUploaded,
	}
	obj, err := h.Repository.SetDocument(h.DB, uint(id), vars["doc"], att)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, obj)
}

// PUT /subcontractors/{id}/documents/{doc}/review
// Admin/EPC verifies or rejects an uploaded document. Only documents in
// Uploaded status may be reviewed.
func (h *Handler) ReviewDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid id"))
		return
	}

	var req ReviewDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	obj, err := h.Repository.ReviewDocument(h.DB, uint(id), vars["doc"], req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(w, models.ErrNotFound("sub-contractor not found"))
			return
		}
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, obj)
}
