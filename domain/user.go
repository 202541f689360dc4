package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessLogin  = "login successful"
	MessageSuccessGetMe  = "user retrieved successfully"
	MessageFailedLogin   = "failed to login"
	MessageFailedGetMe   = "failed to get user"
	MessageTokenRequired = "access denied, no token provided or invalid format"
	MessageTokenExpired  = "token expired, please login again"
	MessageTokenInvalid  = "invalid token, please login again"

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrUserNotFound = errors.New("user not found")
)

type (
	LoginRequest struct {
		Token string `json:"token" validate:"required"`
	}

	UserResponse struct {
		ID          string    `json:"id"`
		FirebaseUID string    `json:"firebaseUid"`
		Email       string    `json:"email"`
		Name        string    `json:"name"`
		PictureURL  string    `json:"pictureUrl,omitempty"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	LoginResponse struct {
		IsNewUser bool         `json:"isNewUser"`
		User      UserResponse `json:"user"`
	}

	MeResponse struct {
		User       UserResponse `json:"user"`
		HasProfile bool         `json:"hasProfile"`
	}
)
