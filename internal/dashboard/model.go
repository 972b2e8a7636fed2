package dashboard

import "time"

// Metrics is the admin dashboard snapshot.
type Metrics struct {
	TotalUsers        int       `json:"TotalUsers"`
	ActiveUsers       int       `json:"ActiveUsers"`
	Instructors       int       `json:"Instructors"`
	TotalStudents     int       `json:"TotalStudents"`
	ActiveStudents    int       `json:"ActiveStudents"`
	ActivePositions   int       `json:"ActivePositions"`
	ActiveAssignments int       `json:"ActiveAssignments"`
	OpenCheckIns      int       `json:"OpenCheckIns"`
	PendingApprovals  int       `json:"PendingApprovals"`
	TodayCheckIns     int       `json:"TodayCheckIns"`
	GeneratedAtUtc    time.Time `json:"GeneratedAtUtc"`
}
