package users

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/economy"
	"github.com/codexrip/intellectra-hub/middleware"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmitSolutionBody struct {
	Content string  `json:"content" validate:"required,descok"`
	Link    *string `json:"link"`
}

// SubmitSolutionHandler POST /requests/{id}/solutions
func SubmitSolutionHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request id"})
		return
	}

	var body SubmitSolutionBody
	if err := middleware.ValidateJSON(w, r, &body); err != nil {
		return
	}

	db := database.DB

	var solver models.User
	if err := db.First(&solver, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}
	if !solver.EmailVerified {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Please verify your email before submitting solutions"})
		return
	}

	var request models.Request
	if err := db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Request not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	if request.Status != models.RequestStatusOpen {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Request is no longer open"})
		return
	}
	if request.RequesterID == uid {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "You cannot submit a solution to your own request"})
		return
	}

	var dup int64
	if err := db.Model(&models.Solution{}).
		Where("request_id = ? AND solver_id = ?", request.ID, uid).
		Count(&dup).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	if dup > 0 {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You already submitted a solution to this request"})
		return
	}

	var link *string
	if body.Link != nil {
		trimmed := strings.TrimSpace(*body.Link)
		if trimmed != "" {
			link = &trimmed
		}
	}

	solution := models.Solution{
		RequestID: request.ID,
		SolverID:  uid,
		Content:   strings.TrimSpace(body.Content),
		Link:      link,
		Status:    models.SolutionStatusPending,
	}
	if err := db.Create(&solution).Error; err != nil {
		log.Printf("[solutions/submit] create failed for request %d: %v", request.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Solution submitted", Data: solution})
}

// MySolutionsHandler GET /users/solutions — the caller's submitted solutions.
func MySolutionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var solutions []models.Solution
	if err := database.DB.Where("solver_id = ?", uid).
		Order("created_at DESC").Find(&solutions).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: solutions})
}

type AcceptSolutionBody struct {
	Rating *int `json:"rating" validate:"required"`
}

// AcceptSolutionHandler POST /requests/{id}/solutions/{solution_id}/accept
// Settlement is a single transaction: the request is locked first, so a second
// accept sees the Completed status and fails instead of paying twice. The
// solver's payout, XP, level and rating all land with the same commit.
func AcceptSolutionHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid request id"})
		return
	}
	solutionID, err := pathID(r, "solution_id")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid solution id"})
		return
	}

	var body AcceptSolutionBody
	if err := middleware.ValidateJSON(w, r, &body); err != nil {
		return
	}
	if *body.Rating < 0 || *body.Rating > 10 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Rating must be between 0 and 10"})
		return
	}

	errNotOwner := errors.New("not_owner")
	errNotOpen := errors.New("request_not_open")
	errNoSolution := errors.New("solution_not_found")

	var settlement economy.Settlement
	var solverID uint

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var request models.Request
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			return err
		}
		if request.RequesterID != uid {
			return errNotOwner
		}
		if request.Status != models.RequestStatusOpen {
			return errNotOpen
		}

		var solution models.Solution
		if err := tx.Where("id = ? AND request_id = ?", solutionID, request.ID).
			First(&solution).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNoSolution
			}
			return err
		}

		var solver models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&solver, solution.SolverID).Error; err != nil {
			return err
		}

		settlement = economy.Settle(request.Cost, solver.XP, solver.Level)
		solverID = solver.ID

		if err := tx.Model(&request).Update("status", models.RequestStatusCompleted).Error; err != nil {
			return err
		}
		if err := tx.Model(&solution).Update("status", models.SolutionStatusAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(&solver).Updates(map[string]interface{}{
			"wallet_balance": solver.WalletBalance + settlement.Payout,
			"xp":             settlement.NewXP,
			"level":          settlement.NewLevel,
			"rating":         *body.Rating,
		}).Error; err != nil {
			return err
		}

		msg := "Reward for solving: " + request.Title
		return tx.Create(&models.Transaction{
			UserID:          solver.ID,
			RequestID:       &request.ID,
			Amount:          settlement.Payout,
			OrderID:         utils.GenerateOrderID(solver.ID),
			TransactionFlow: "credit",
			TransactionType: "reward",
			Message:         &msg,
			Status:          "Success",
		}).Error
	})

	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Solution accepted",
			Data: map[string]interface{}{
				"solver_id":  solverID,
				"reward":     settlement.Reward,
				"payout":     settlement.Payout,
				"new_xp":     settlement.NewXP,
				"new_level":  settlement.NewLevel,
				"leveled_up": settlement.LeveledUp,
			},
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Request not found"})
	case errors.Is(err, errNotOwner):
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Only the request owner can accept a solution"})
	case errors.Is(err, errNotOpen):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Request has already been completed"})
	case errors.Is(err, errNoSolution):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Solution not found for this request"})
	default:
		log.Printf("[solutions/accept] settlement failed for request %d: %v", requestID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}
