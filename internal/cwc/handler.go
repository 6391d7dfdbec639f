package cwc

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

func (h *Handler) load(r *http.Request) (*Request, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return nil, models.ErrValidationFailed("invalid request id")
	}
	q, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound("cwc request not found")
		}
		return nil, err
	}
	return q, nil
}

// POST /cwc-requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleSubContractor {
		utils.SendError(w, models.ErrNotAuthorized("only sub-contractors may request working capital"))
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}
	if !req.RequestedAmount.IsPositive() {
		utils.SendError(w, models.ErrInvalidAmount("requested amount must be positive"))
		return
	}
	if req.TenureDays <= 0 {
		utils.SendError(w, models.ErrInvalidAmount("tenure must be positive"))
		return
	}

	q := Request{
		SubContractorID: userID,
		EPCID:           req.EPCID,
		RequestedAmount: req.RequestedAmount,
		TenureDays:      req.TenureDays,
		Purpose:         req.Purpose,
	}
	if err := h.Repository.Create(h.DB, &q); err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, q)
}

// GET /cwc-requests
// Sub-contractors and EPCs see their own; NBFCs see the buyer-verified
// queue.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, role := auth.CallerFromContext(r.Context())

	var (
		list []Request
		err  error
	)
	switch role {
	case auth.RoleSubContractor:
		list, err = h.Repository.ListForSubContractor(h.DB, userID)
	case auth.RoleEPC:
		list, err = h.Repository.ListForEPC(h.DB, userID)
	case auth.RoleNBFC:
		list, err = h.Repository.ListBuyerVerified(h.DB)
	case auth.RoleAdmin:
		err = h.DB.Order("id").Find(&list).Error
	default:
		utils.SendError(w, models.ErrNotAuthorized("role cannot list cwc requests"))
		return
	}
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, list)
}

// POST /cwc-requests/{id}/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q, err := h.load(r)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleEPC || q.EPCID != userID {
		utils.SendError(w, models.ErrNotAuthorized("only the buyer on this request may verify it"))
		return
	}

	updated, err := h.Repository.Verify(h.DB, q.ID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, updated)
}

// POST /cwc-requests/{id}/quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	q, err := h.load(r)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleNBFC {
		utils.SendError(w, models.ErrNotAuthorized("only NBFC users may quote"))
		return
	}

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}

	updated, err := h.Repository.Quote(h.DB, q.ID, userID, req.InterestRate, req.QuotedAmount)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, updated)
}

// POST /cwc-requests/{id}/reject
// The buyer may reject before or after verification; NBFCs decline by simply
// not quoting.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	q, err := h.load(r)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleAdmin && !(role == auth.RoleEPC && q.EPCID == userID) {
		utils.SendError(w, models.ErrNotAuthorized("only the buyer on this request may reject it"))
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	updated, err := h.Repository.Reject(h.DB, q.ID, req.Note)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, updated)
}
