package users

import (
	"errors"
	"log"
	"net/http"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FreezeAccountHandler POST /users/freeze — self-freeze. The account stays
// frozen until support reactivates it; all refresh tokens are revoked in the
// same transaction so existing sessions end with it.
func FreezeAccountHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", uid).Update("frozen", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.RefreshToken{}).Where("user_id = ?", uid).
			Update("revoked", true).Error
	})

	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Your account has been frozen. Please contact support to reactivate.",
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
	default:
		log.Printf("[users/freeze] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}

// DeleteAccountHandler DELETE /users/me — permanent removal of the account
// and everything it owns: requests (with their solutions), the user's own
// solutions, ledger rows, sessions and the login-guard record, all in one
// transaction. Escrow on still-open requests is forfeited, same as deleting
// the request directly.
func DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var photoKey *string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, uid).Error; err != nil {
			return err
		}
		photoKey = user.PhotoKey

		ownRequests := tx.Model(&models.Request{}).Select("id").Where("requester_id = ?", uid)
		if err := tx.Where("request_id IN (?)", ownRequests).Delete(&models.Solution{}).Error; err != nil {
			return err
		}
		if err := tx.Where("solver_id = ?", uid).Delete(&models.Solution{}).Error; err != nil {
			return err
		}
		if err := tx.Where("requester_id = ?", uid).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", uid).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", uid).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", user.Email).Delete(&models.SecurityLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})

	switch {
	case err == nil:
		if photoKey != nil && *photoKey != "" {
			_ = utils.DeleteFromStorage(*photoKey)
		}
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Your account has been permanently deleted."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
	default:
		log.Printf("[users/delete] transaction failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}
