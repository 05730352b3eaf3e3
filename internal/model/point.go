package model

type GetMyPointsRequest struct{}

type GetMyPointsResponse struct {
	TotalPoints int64 `json:"total_points"`
}

type DeductPointsRequest struct {
	Amount int64 `json:"amount"`
}

type DeductPointsResponse struct {
	TotalPoints int64 `json:"total_points"`
}
