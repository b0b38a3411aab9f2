package analytics

// DepartmentCount is one per-department bucket in the dashboard report.
type DepartmentCount struct {
	Department string `bson:"_id" json:"department"`
	Count      int64  `bson:"count" json:"count"`
}

// DashboardReport is the admin landing-page summary.
type DashboardReport struct {
	Students      int64             `json:"students"`
	Teachers      int64             `json:"teachers"`
	ActiveNotices int64             `json:"activeNotices"`
	Departments   int               `json:"departments"`
	ByDepartment  []DepartmentCount `json:"byDepartment"`
}

// StatusBreakdown is the per-status split of attendance records.
type StatusBreakdown struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
	Total   int64 `json:"total"`
}

// DailyBreakdown is one day bucket of the attendance report.
type DailyBreakdown struct {
	Date string `json:"date"`
	StatusBreakdown
}

// AttendanceReport covers one date range, optionally scoped to a department.
type AttendanceReport struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Overall   StatusBreakdown  `json:"overall"`
	Daily     []DailyBreakdown `json:"daily"`
}
