package model

type NotifyVisitRequest struct {
	BoothID      string `json:"booth_id"`
	VisitorID    string `json:"visitor_id"`
	OwnerID      string `json:"owner_id"`
	VisitorCount int    `json:"visitor_count"`
}

type NotifyVisitResponse struct {
	VisitorPoints int64 `json:"visitor_points"`
}

type NotifyCommentRequest struct {
	UserID string `json:"user_id"`
}

type NotifyCommentResponse struct{}

type NotifyActivityZoneRequest struct {
	UserID string `json:"user_id"`
}

type NotifyActivityZoneResponse struct{}

type NotifyReviewRequest struct {
	UserID      string `json:"user_id"`
	ReviewCount int    `json:"review_count"`
}

type NotifyReviewResponse struct{}
