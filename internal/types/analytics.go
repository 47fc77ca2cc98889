package types

import "time"

// Wire shapes for the student analytics snapshot. JSON keys mirror the
// analytics API payload the dashboards and the plan generator consume.

type WeeklyStudy struct {
	Date     string `json:"date"`
	Duration int    `json:"duration"`
}

type AttendanceSummary struct {
	TotalDays   int `json:"total_days"`
	PresentDays int `json:"present_days"`
}

type SubjectDistribution struct {
	SubjectName   string `json:"subject__name"`
	TotalDuration int    `json:"total_duration"`
}

type SubjectProgress struct {
	SubjectName      string `json:"subject__name"`
	CompletedLessons int    `json:"completed_lessons"`
	TotalLessons     int    `json:"total_lessons"`
}

type QuizAttemptSummary struct {
	LessonTitle string   `json:"lesson__title"`
	Attempts    int      `json:"attempts"`
	FinalScore  *float64 `json:"final_score"`
}

type ActivityEntry struct {
	ActivityType string    `json:"activity_type"`
	Details      string    `json:"details"`
	Timestamp    time.Time `json:"timestamp"`
}

type StudentAnalytics struct {
	TodayStudyMinutes   int                   `json:"today_study_minutes"`
	WeeklyStudyMinutes  []WeeklyStudy         `json:"weekly_study_minutes"`
	Attendance          AttendanceSummary     `json:"attendance"`
	SubjectDistribution []SubjectDistribution `json:"subject_distribution"`
	SubjectProgress     []SubjectProgress     `json:"subject_progress"`
	QuizAttempts        []QuizAttemptSummary  `json:"quiz_attempts"`
}

// AnalyticsSnapshot is everything the plan generator sees about a student,
// built fresh per generation attempt.
type AnalyticsSnapshot struct {
	Analytics        StudentAnalytics `json:"analytics"`
	RecentActivities []ActivityEntry  `json:"recent_activities"`
	AvailableLessons []string         `json:"available_lessons"`
}
