package cases

import (
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

// GET /cases
// Sub-contractors and EPCs see their own cases; EPCs may pass ?eligible=true
// to browse cases still open for bidding.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, role := auth.CallerFromContext(r.Context())

	var (
		list []Case
		err  error
	)
	switch {
	case role == auth.RoleSubContractor:
		list, err = h.Repository.ListForSubContractor(h.DB, userID)
	case role == auth.RoleEPC && r.URL.Query().Get("eligible") == "true":
		list, err = h.Repository.ListEligible(h.DB)
	case role == auth.RoleEPC:
		list, err = h.Repository.ListForEPC(h.DB, userID)
	case role == auth.RoleAdmin:
		err = h.DB.Order("id").Find(&list).Error
	default:
		utils.SendError(w, models.ErrNotAuthorized("role cannot list cases"))
		return
	}
	if err != nil {
		utils.SendError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, list)
}

// GET /cases/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.SendError(w, models.ErrValidationFailed("invalid case id"))
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(w, models.ErrNotFound("case not found"))
			return
		}
		utils.SendError(w, err)
		return
	}

	userID, role := auth.CallerFromContext(r.Context())
	if !c.ViewableBy(userID, role) {
		utils.SendError(w, models.ErrNotAuthorized("caller is not a party to this case"))
		return
	}
	utils.SendJSON(w, http.StatusOK, c)
}
