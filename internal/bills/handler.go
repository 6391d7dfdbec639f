package bills

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Grylink/api-finance/internal/auth"
	"github.com/Grylink/api-finance/internal/models"
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

// POST /bills
// A sub-contractor uploads a bill against one of their EPCs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleSubContractor {
		utils.SendError(w, models.ErrNotAuthorized("only sub-contractors may upload bills"))
		return
	}

	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}
	if !req.Amount.IsPositive() {
		utils.SendError(w, models.ErrInvalidAmount("bill amount must be positive"))
		return
	}

	b := Bill{
		SubContractorID: userID,
		EPCID:           req.EPCID,
		Amount:          req.Amount,
		Document: models.Attachment{
			FileURL:  req.FileURL,
			FileName: req.FileName,
			Status:   models.DocumentUploaded,
		},
	}
	if err := h.Repository.Create(h.DB, &b); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, b)
}

// GET /bills
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, role := auth.CallerFromContext(r.Context())

	var (
		list []Bill
		err  error
	)
	switch role {
	case auth.RoleSubContractor:
		list, err = h.Repository.ListForSubContractor(h.DB, userID)
	case auth.RoleEPC:
		list, err = h.Repository.ListForEPC(h.DB, userID)
	case auth.RoleAdmin:
		err = h.DB.Order("id").Find(&list).Error
	default:
		utils.SendError(w, models.ErrNotAuthorized("role cannot list bills"))
		return
	}
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, list)
}

// GET /bills/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid bill id"))
		return
	}

	b, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(w, models.ErrNotFound("bill not found"))
			return
		}
		utils.SendError(w, err)
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	authorized := role == auth.RoleAdmin ||
		(role == auth.RoleSubContractor && b.SubContractorID == userID) ||
		(role == auth.RoleEPC && b.EPCID == userID)
	if !authorized {
		utils.SendError(w, models.ErrNotAuthorized("caller is not a party to this bill"))
		return
	}
	utils.SendJSON(w, http.StatusOK, b)
}

// PUT /bills/{id}/review
// The EPC on the bill walks it through review: start, then approve or
// reject. Approval creates the financeable case.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid bill id"))
		return
	}

	b, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(w, models.ErrNotFound("bill not found"))
			return
		}
		utils.SendError(w, err)
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleAdmin && !(role == auth.RoleEPC && b.EPCID == userID) {
		utils.SendError(w, models.ErrNotAuthorized("only the buyer on this bill may review it"))
		return
	}

	var req ReviewBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	bill, newCase, err := h.Repository.Review(h.DB, uint(id), req.Decision, req.Note)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	resp := map[string]any{"bill": bill}
	if newCase != nil {
		resp["case"] = newCase
	}
	utils.SendJSON(w, http.StatusOK, resp)
}
