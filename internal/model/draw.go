package model

type AttemptDrawRequest struct{}

type AttemptDrawResponse struct {
	AttemptNumber   int    `json:"attempt_number"`
	PrizeID         string `json:"prize_id"`
	PrizeName       string `json:"prize_name"`
	PrizeImageURL   string `json:"prize_image_url"`
	PointsSpent     int64  `json:"points_spent"`
	RemainingPoints int64  `json:"remaining_points"`
}

type GetDrawHistoryRequest struct{}

type GetDrawHistoryResponse struct {
	Attempts         []DrawAttempt `json:"attempts"`
	RemainingChances int           `json:"remaining_chances"`
}

type GetPrizeStockRequest struct{}

type GetPrizeStockResponse struct {
	Prizes []Prize `json:"prizes"`
}
