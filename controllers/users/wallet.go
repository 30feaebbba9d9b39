package users

import (
	"errors"
	"log"
	"net/http"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/economy"
	"github.com/codexrip/intellectra-hub/middleware"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TopupHandler POST /wallet/topup — fixed-size grant for verified accounts.
func TopupHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	errUnverified := errors.New("email_not_verified")

	var newBalance int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, uid).Error; err != nil {
			return err
		}
		if !user.EmailVerified {
			return errUnverified
		}
		newBalance = user.WalletBalance + economy.TopupAmount
		if err := tx.Model(&user).Update("wallet_balance", newBalance).Error; err != nil {
			return err
		}
		msg := "Wallet topup"
		return tx.Create(&models.Transaction{
			UserID:          uid,
			Amount:          economy.TopupAmount,
			OrderID:         utils.GenerateOrderID(uid),
			TransactionFlow: "credit",
			TransactionType: "topup",
			Message:         &msg,
			Status:          "Success",
		}).Error
	})

	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Topup successful",
			Data:    map[string]interface{}{"wallet_balance": newBalance},
		})
	case errors.Is(err, errUnverified):
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Please verify your email before topping up"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
	default:
		log.Printf("[wallet/topup] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}

type WithdrawBody struct {
	Amount int64 `json:"amount"`
}

// WithdrawHandler POST /wallet/withdraw
func WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var body WithdrawBody
	if err := middleware.ValidateJSON(w, r, &body); err != nil {
		return
	}
	if body.Amount <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Amount must be positive"})
		return
	}

	errInsufficient := errors.New("insufficient_funds")

	var newBalance int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, uid).Error; err != nil {
			return err
		}
		if user.WalletBalance < body.Amount {
			return errInsufficient
		}
		newBalance = user.WalletBalance - body.Amount
		if err := tx.Model(&user).Update("wallet_balance", newBalance).Error; err != nil {
			return err
		}
		msg := "Wallet withdrawal"
		return tx.Create(&models.Transaction{
			UserID:          uid,
			Amount:          body.Amount,
			OrderID:         utils.GenerateOrderID(uid),
			TransactionFlow: "debit",
			TransactionType: "withdraw",
			Message:         &msg,
			Status:          "Success",
		}).Error
	})

	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Withdrawal successful",
			Data:    map[string]interface{}{"wallet_balance": newBalance},
		})
	case errors.Is(err, errInsufficient):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Insufficient funds"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "User not found"})
	default:
		log.Printf("[wallet/withdraw] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}

// TransactionsHandler GET /wallet/transactions — the caller's ledger, newest first.
func TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var rows []models.Transaction
	if err := database.DB.Where("user_id = ?", uid).
		Order("created_at DESC").Limit(100).Find(&rows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "DB error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: rows})
}
