package bids

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Grylink/api-finance/internal/auth"
	"github.com/Grylink/api-finance/internal/cases"
	"github.com/Grylink/api-finance/internal/models"
	"github.com/Grylink/api-finance/internal/notification"
	"github.com/Grylink/api-finance/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	CaseRepo   cases.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		CaseRepo:   cases.NewRepository(),
	}
}

// proposerRole maps the portal role of the caller onto the negotiation side.
func proposerRole(role string) (ProposerRole, bool) {
	switch role {
	case auth.RoleEPC:
		return ProposedByBuyer, true
	case auth.RoleSubContractor:
		return ProposedBySubContractor, true
	default:
		return "", false
	}
}

// bidParty loads the bid plus its case and verifies the caller is one of the
// two sides. Returns the bid on success.
func (h *Handler) bidParty(r *http.Request) (*Bid, *cases.Case, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return nil, nil, models.ErrValidationFailed("invalid bid id")
	}

	bid, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.ErrNotFound("bid not found")
		}
		return nil, nil, err
	}

	c, err := h.CaseRepo.FindByID(h.DB, bid.CaseID)
	if err != nil {
		return nil, nil, err
	}

	userID, role := auth.CallerFromContext(r.Context())
	if !c.IsParty(userID, role) {
		return nil, nil, models.ErrNotAuthorized("caller is not a party to this bid's case")
	}
	return bid, c, nil
}

// POST /bids
// Buyers (EPC) place a funding offer against an eligible case.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	userID, _ := auth.CallerFromContext(r.Context())
	bid, err := h.Repository.PlaceBid(h.DB, userID, req)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusCreated, bid)
}

// GET /bids/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	bid, _, err := h.bidParty(r)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, bid)
}

// GET /cases/{id}/bids
func (h *Handler) ListForCase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid case id"))
		return
	}

	c, err := h.CaseRepo.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(w, models.ErrNotFound("case not found"))
			return
		}
		utils.SendError(w, err)
		return
	}
	userID, role := auth.CallerFromContext(r.Context())
	if !c.IsParty(userID, role) {
		utils.SendError(w, models.ErrNotAuthorized("caller is not a party to this case"))
		return
	}

	list, err := h.Repository.ListForCase(h.DB, c.ID)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, list)
}

// POST /bids/{id}/negotiate
// Either party sends a counter-offer while the bid is still open.
func (h *Handler) Negotiate(w http.ResponseWriter, r *http.Request) {
	bid, _, err := h.bidParty(r)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	var req NegotiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	_, role := auth.CallerFromContext(r.Context())
	side, ok := proposerRole(role)
	if !ok {
		utils.SendError(w, models.ErrNotAuthorized("only buyer or sub-contractor may negotiate"))
		return
	}

	updated, err := h.Repository.Negotiate(h.DB, bid.ID, side, req)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, updated)
}

// POST /bids/{id}/respond
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	bid, _, err := h.bidParty(r)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid payload"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendError(w, models.ErrValidationFailed(err.Error()))
		return
	}

	updated, err := h.Repository.Respond(h.DB, bid.ID, req.Decision)
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, updated)
}

// POST /bids/{id}/lock
// The buyer finalizes the commercial agreement at the terms currently on the
// table. Sibling bids on the case are rejected in the same transaction.
func (h *Handler) Lock(w http.ResponseWriter, r *http.Request) {
	bid, c, err := h.bidParty(r)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if role != auth.RoleEPC || c.EPCID != userID {
		utils.SendError(w, models.ErrNotAuthorized("only the buyer on this case may lock"))
		return
	}

	locked, err := h.Repository.Lock(h.DB, bid.ID)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	go notification.SendCommercialLockAlert(c.ReferenceCode, locked.FinalAmount.String(), *locked.FinalDuration)

	utils.SendJSON(w, http.StatusOK, locked)
}
