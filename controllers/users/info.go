package users

import (
	"net/http"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/economy"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"
)

// InfoHandler GET /users/me — the account with activity counters.
func InfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	var openRequests, solved int64
	db.Model(&models.Request{}).
		Where("requester_id = ? AND status = ?", uid, models.RequestStatusOpen).
		Count(&openRequests)
	db.Model(&models.Solution{}).
		Where("solver_id = ? AND status = ?", uid, models.SolutionStatusAccepted).
		Count(&solved)

	var earned int64
	db.Model(&models.Transaction{}).
		Where("user_id = ? AND transaction_type = ?", uid, "reward").
		Select("COALESCE(SUM(amount), 0)").Scan(&earned)

	var photoURL *string
	if user.PhotoKey != nil {
		if signed, err := utils.GenerateSignedURL(*user.PhotoKey, 3600); err == nil {
			photoURL = &signed
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"id":               user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"email_verified":   user.EmailVerified,
			"wallet_balance":   user.WalletBalance,
			"xp":               user.XP,
			"level":            user.Level,
			"rating":           user.Rating,
			"photo_url":        photoURL,
			"open_requests":    openRequests,
			"solved_requests":  solved,
			"total_earned":     earned,
			"xp_to_next_level": economy.XPPerLevel - user.XP%economy.XPPerLevel,
		},
	})
}
