package domain

// ClubCounts are the row counts shown on the admin dashboard.
type ClubCounts struct {
	TotalUsers      int64 `db:"total_users"`
	TotalBoats      int64 `db:"total_boats"`
	TotalActivities int64 `db:"total_activities"`
}

type BoatUsage struct {
	BoatID      int32  `json:"boat_id" db:"boat_id"`
	BoatName    string `json:"boat_name" db:"boat_name"`
	RentalCount int64  `json:"rental_count" db:"rental_count"`
}

type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue Money  `json:"revenue"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// ClubStats aggregates club activity. Months are "YYYY-MM" in UTC, oldest
// first.
type ClubStats struct {
	TotalUsers            int64            `json:"total_users"`
	TotalActivities       int64            `json:"total_activities"`
	TotalBoats            int64            `json:"total_boats"`
	TotalRevenue          Money            `json:"total_revenue"`
	MonthlyRevenue        Money            `json:"monthly_revenue"`
	ActiveUsers           int64            `json:"active_users"`
	BoatUsage             []BoatUsage      `json:"boat_usage"`
	RevenueHistory        []MonthlyRevenue `json:"revenue_history"`
	ActivityParticipation []MonthlyCount   `json:"activity_participation"`
}
