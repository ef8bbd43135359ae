package models

// Requests for the analysis HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	MemberID string `query:"member_id" json:"member_id" validate:"required"`
	Days     int    `query:"days" json:"days" default:"365" validate:"gte=1,lte=1825"`
	Async    bool   `query:"async" json:"async"`
}

type AlertsRequest struct {
	MemberID      string  `query:"member_id" json:"member_id"`
	MinConfidence float64 `query:"min_confidence" json:"min_confidence" validate:"gte=0,lte=1"`
	Since         string  `query:"since" json:"since"`
	Limit         int     `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
	Offset        int     `query:"offset" json:"offset" validate:"gte=0"`
}

type ReportRequest struct {
	Days int `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
}
