package users

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/codexrip/intellectra-hub/database"
	"github.com/codexrip/intellectra-hub/models"
	"github.com/codexrip/intellectra-hub/utils"
)

// PUT /users/profile — multipart form with optional "name" and "photo" fields.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid form data"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	if name := strings.TrimSpace(r.FormValue("name")); name != "" && name != "null" {
		user.Name = name
	}

	file, handler, err := r.FormFile("photo")
	if err == nil && handler != nil {
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(handler.Filename))
		allowed := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
		if !allowed[ext] {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Photo must be JPG, PNG or WEBP"})
			return
		}
		if handler.Size > 5<<20 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Photo must be at most 5MB"})
			return
		}

		buf := make([]byte, 512)
		n, err := file.Read(buf)
		if err != nil && err != io.EOF {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read photo"})
			return
		}
		detected := http.DetectContentType(buf[:n])

		if _, err := file.Seek(0, 0); err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read photo"})
			return
		}

		var imageBytes []byte
		if ext == ".webp" || detected == "image/webp" {
			// webp is stored as-is, stdlib has no encoder for it
			imageBytes, err = io.ReadAll(file)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read photo"})
				return
			}
		} else {
			if detected != "image/jpeg" && detected != "image/png" {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Photo must be JPG, PNG or WEBP"})
				return
			}
			allBytes, err := io.ReadAll(file)
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Failed to read photo"})
				return
			}

			// decode and re-encode so stored images are known-clean
			img, format, err := image.Decode(bytes.NewReader(allBytes))
			if err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid image format"})
				return
			}
			var out bytes.Buffer
			switch format {
			case "jpeg":
				if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 85}); err != nil {
					utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process photo"})
					return
				}
			case "png":
				if err := png.Encode(&out, img); err != nil {
					utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to process photo"})
					return
				}
			default:
				utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Photo must be JPG, PNG or WEBP"})
				return
			}
			imageBytes = out.Bytes()
			if ext == ".jpeg" {
				ext = ".jpg"
			}
		}

		if user.PhotoKey != nil && *user.PhotoKey != "" {
			_ = utils.DeleteFromStorage(*user.PhotoKey)
		}

		key := "profiles/" + strconv.FormatUint(uint64(uid), 10) + "_" +
			strconv.FormatInt(time.Now().UnixNano(), 10) + ext
		if err := utils.UploadToStorage(key, bytes.NewReader(imageBytes)); err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to upload photo"})
			return
		}
		user.PhotoKey = &key
	}

	if err := db.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to save profile"})
		return
	}

	var photoURL *string
	if user.PhotoKey != nil {
		if signed, err := utils.GenerateSignedURL(*user.PhotoKey, 3600); err == nil {
			photoURL = &signed
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data: map[string]interface{}{
			"name":      user.Name,
			"photo_url": photoURL,
		},
	})
}

// DELETE /users/profile/photo
func DeleteProfilePhotoHandler(w http.ResponseWriter, r *http.Request) {
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

	if user.PhotoKey != nil && *user.PhotoKey != "" {
		// object may already be gone, the DB row is the source of truth
		_ = utils.DeleteFromStorage(*user.PhotoKey)
	}

	user.PhotoKey = nil
	if err := db.Save(&user).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to remove photo"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Photo removed"})
}
