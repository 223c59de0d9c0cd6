package model

// SystemStats is the admin dashboard rollup.
type SystemStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalStudents     int64 `json:"total_students"`
	TotalTutors       int64 `json:"total_tutors"`
	ApprovedTutors    int64 `json:"approved_tutors"`
	TotalNotes        int64 `json:"total_notes"`
	TotalSessions     int64 `json:"total_sessions"`
	CompletedSessions int64 `json:"completed_sessions"`
	TotalTransactions int64 `json:"total_transactions"`
	TotalRevenue      int64 `json:"total_revenue"` // completed tutoring payments, in tokens
}
