package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/middleware"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,emailfmt"`
	Password string `json:"password" validate:"required,pwdmin"`
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	db := database.DB
	now := time.Now()

	// Freeze windows are evaluated before credentials, so a frozen account
	// is rejected even with the correct password.
	freeze, err := middleware.CheckLoginFreeze(db, req.Email, now)
	if err != nil {
		log.Printf("[login] freeze check failed for %s: %v", req.Email, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if freeze != middleware.FreezeNone {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{Success: false, Message: middleware.FreezeMessage(freeze)})
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown emails count as failures too, otherwise the guard
			// leaks which addresses exist.
			if gerr := middleware.RecordFailedLogin(db, req.Email, now); gerr != nil {
				log.Printf("[login] failed recording attempt for %s: %v", req.Email, gerr)
			}
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Incorrect email or password"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if user.Frozen {
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Your account has been suspended, please contact support"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		if gerr := middleware.RecordFailedLogin(db, req.Email, now); gerr != nil {
			log.Printf("[login] failed recording attempt for %s: %v", req.Email, gerr)
		}
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Incorrect email or password"})
		return
	}

	// Note: a successful login does not reset the failure counter; only the
	// elapsed freeze windows do.

	accessToken, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Login failed"})
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	var photoURL *string
	if user.PhotoKey != nil {
		if signed, err := utils.GenerateSignedURL(*user.PhotoKey, 3600); err == nil {
			photoURL = &signed
		}
	}

	payload := userPayload(&user)
	payload["photo_url"] = photoURL

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful! Redirecting to dashboard...",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": time.Now().Add(15 * time.Minute).UTC().Format(time.RFC3339),
			"refresh_token": refreshToken,
			"user":          payload,
		},
	})
}
