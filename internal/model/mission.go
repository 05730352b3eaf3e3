package model

const (
	ClaimMissionCompleted = "completed"
	ClaimMissionNoOp      = "no_op"
)

type GetMissionsRequest struct{}

type GetMissionsResponse struct {
	Missions          []Mission `json:"missions"`
	MissionsCompleted int       `json:"missions_completed"`
}

type ClaimMissionRequest struct {
	MissionID string `json:"mission_id"`
}

type ClaimMissionResponse struct {
	Status string `json:"status"`
}
