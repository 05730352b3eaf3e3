package model

type InitParticipantRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type InitParticipantResponse struct {
	User    User `json:"user"`
	Created bool `json:"created"`
}

type GetMeRequest struct{}

type GetMeResponse User
