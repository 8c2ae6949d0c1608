package models

// MonthlyRevenue is one row of the revenue report: total collected per
// calendar month, aggregated from the payment ledger.
type MonthlyRevenue struct {
	Year    int     `json:"year" db:"year"`
	Month   int     `json:"month" db:"month"`
	Total   float64 `json:"total" db:"total"`
	Entries int     `json:"entries" db:"entries"`
}

// CategoryCounts summarises membership standing for the dashboard.
type CategoryCounts struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Dormant  int `json:"dormant"`
	Frozen   int `json:"frozen"`
	Deleted  int `json:"deleted"`
	Total    int `json:"total"`
}

// DueEntry is one row of the billing exposure report.
type DueEntry struct {
	MemberID   int64   `json:"member_id"`
	MemberName string  `json:"member_name"`
	FeeType    string  `json:"fee_type"`
	DueAmount  float64 `json:"due_amount"`
}

// DashboardSummary holds key metrics for the dashboard view.
type DashboardSummary struct {
	Members        CategoryCounts `json:"members"`
	VisitorsToday  int            `json:"visitors_today"`
	RevenueToday   float64        `json:"revenue_today"`
	RevenueMonth   float64        `json:"revenue_month"`
	TotalDueAmount float64        `json:"total_due_amount"`
}
