package dto

import "tgbridge/internal/service"

type StartAuthRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type StartAuthResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	NextStep  string `json:"nextStep"`
}

type VerifyCodeRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Code      string `json:"code" validate:"required"`
	Password  string `json:"password" validate:"omitempty"`
}

type VerifyCodeResponse struct {
	Token     string        `json:"token,omitempty"`
	ExpiresIn int64         `json:"expiresIn,omitempty"`
	SessionID string        `json:"sessionId"`
	Message   string        `json:"message"`
	User      *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID          string `json:"id,omitempty"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber"`
}

type MeResponse struct {
	User UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func UserResponseFromSummary(user *service.UserSummary) *UserResponse {
	if user == nil {
		return nil
	}
	resp := &UserResponse{
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
	}
	if user.ID != 0 {
		resp.ID = intToString(user.ID)
	}
	return resp
}
