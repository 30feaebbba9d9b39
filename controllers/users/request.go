package users

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/economy"
	"github.com/codexrip/intellectra-hub/middleware"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateRequestBody struct {
	Title       string `json:"title" validate:"required,titleok"`
	Description string `json:"description" validate:"required,descok"`
	Type        string `json:"type" validate:"required"`
	Urgency     string `json:"urgency" validate:"required"`
}

// CreateRequestHandler POST /requests
// Escrows the cost: the balance re-read, debit and request insert commit or
// roll back together, so two concurrent posts cannot overdraw the wallet.
func CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req CreateRequestBody
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !economy.ValidType(req.Type) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unknown request type"})
		return
	}
	if !economy.ValidUrgency(req.Urgency) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unknown urgency level"})
		return
	}

	// Cost is always computed server-side, never taken from the client.
	cost := economy.Cost(req.Type, req.Urgency)

	errInsufficient := errors.New("insufficient_funds")

	var created models.Request
	var newBalance int64

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var requester models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&requester, uid).Error; err != nil {
			return err
		}
		if requester.WalletBalance < cost {
			return errInsufficient
		}

		newBalance = requester.WalletBalance - cost
		if err := tx.Model(&requester).Update("wallet_balance", newBalance).Error; err != nil {
			return err
		}

		created = models.Request{
			RequesterID: uid,
			Title:       strings.TrimSpace(req.Title),
			Description: strings.TrimSpace(req.Description),
			Type:        req.Type,
			Urgency:     req.Urgency,
			Cost:        cost,
			Status:      models.RequestStatusOpen,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		msg := "Escrow for request: " + created.Title
		return tx.Create(&models.Transaction{
			UserID:          uid,
			RequestID:       &created.ID,
			Amount:          cost,
			OrderID:         utils.GenerateOrderID(uid),
			TransactionFlow: "debit",
			TransactionType: "escrow",
			Message:         &msg,
			Status:          "Success",
		}).Error
	})

	if err != nil {
		if errors.Is(err, errInsufficient) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient funds"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[requests/create] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Request posted",
		Data: map[string]interface{}{
			"request":        created,
			"wallet_balance": newBalance,
		},
	})
}

// MarketplaceHandler GET /requests — all open requests, newest first.
func MarketplaceHandler(w http.ResponseWriter, r *http.Request) {
	var requests []models.Request
	if err := database.DB.Where("status = ?", models.RequestStatusOpen).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: requests})
}

// MyRequestsHandler GET /users/requests — the caller's own requests.
func MyRequestsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var requests []models.Request
	if err := database.DB.Where("requester_id = ?", uid).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: requests})
}

// GetRequestHandler GET /requests/{id} — the request with its solutions and
// a short profile of each solver.
func GetRequestHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request id"})
		return
	}

	db := database.DB
	var request models.Request
	if err := db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Request not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	var solutions []models.Solution
	if err := db.Where("request_id = ?", request.ID).
		Order("created_at DESC").Find(&solutions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}

	solverIDs := make([]uint, 0, len(solutions))
	for _, s := range solutions {
		solverIDs = append(solverIDs, s.SolverID)
	}
	solvers := map[uint]models.User{}
	if len(solverIDs) > 0 {
		var rows []models.User
		if err := db.Where("id IN ?", solverIDs).Find(&rows).Error; err != nil {
			log.Printf("[requests/get] solver lookup failed for request %d: %v", request.ID, err)
		}
		for _, u := range rows {
			solvers[u.ID] = u
		}
	}

	hydrated := make([]map[string]interface{}, 0, len(solutions))
	for _, s := range solutions {
		entry := map[string]interface{}{
			"id":         s.ID,
			"request_id": s.RequestID,
			"solver_id":  s.SolverID,
			"content":    s.Content,
			"link":       s.Link,
			"status":     s.Status,
			"created_at": s.CreatedAt,
		}
		if u, ok := solvers[s.SolverID]; ok {
			entry["solver"] = map[string]interface{}{
				"name":   u.Name,
				"rating": u.Rating,
				"level":  u.Level,
			}
		}
		hydrated = append(hydrated, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"request":   request,
			"reward":    economy.Reward(request.Cost),
			"solutions": hydrated,
		},
	})
}

// DeleteRequestHandler DELETE /requests/{id}
// Owner-only, Open-only. The request and all of its solutions go in one
// transaction; the escrowed cost is not refunded.
func DeleteRequestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request id"})
		return
	}

	errNotOwner := errors.New("not_owner")
	errNotOpen := errors.New("request_not_open")

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var request models.Request
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, id).Error; err != nil {
			return err
		}
		if request.RequesterID != uid {
			return errNotOwner
		}
		if request.Status != models.RequestStatusOpen {
			return errNotOpen
		}
		if err := tx.Where("request_id = ?", request.ID).Delete(&models.Solution{}).Error; err != nil {
			return err
		}
		return tx.Delete(&request).Error
	})

	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Request deleted"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Request not found"})
	case errors.Is(err, errNotOwner):
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Only the request owner can delete it"})
	case errors.Is(err, errNotOpen):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Request is no longer open"})
	default:
		log.Printf("[requests/delete] transaction failed for request %d: %v", id, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}

func pathID(r *http.Request, key string) (uint, error) {
	raw := mux.Vars(r)[key]
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(n), nil
}
