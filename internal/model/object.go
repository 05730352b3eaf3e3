package model

type User struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	TotalPoints       int64  `json:"total_points"`
	MissionsCompleted int    `json:"missions_completed"`
}

type Mission struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Completed   bool   `json:"completed"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
	UnlockedAt  string `json:"unlocked_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type Prize struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ImageURL       string `json:"image_url"`
	UnitPrice      int    `json:"unit_price"`
	TotalStock     int    `json:"total_stock"`
	RemainingStock int    `json:"remaining_stock"`
}

type DrawAttempt struct {
	ID            string `json:"id"`
	AttemptNumber int    `json:"attempt_number"`
	PrizeID       string `json:"prize_id"`
	PrizeName     string `json:"prize_name"`
	PrizeImageURL string `json:"prize_image_url"`
	PointsSpent   int64  `json:"points_spent"`
	CreatedAt     string `json:"created_at"`
}
