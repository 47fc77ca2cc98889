package types

// StudyPlan is the validated output of the plan generator. JSON keys are the
// model's output contract (mixed casing is deliberate: it predates this
// backend and the web client renders it as-is).

const (
	TimetableActivityStudyTime = "Study Time"
	TimetableActivityRevision  = "Revision"
	TimetableActivityFreeTime  = "Free Time"
)

type PlanAnalysis struct {
	Praise           []string `json:"praise"`
	ImprovementAreas []string `json:"improvement_areas"`
	StrategicSummary string   `json:"strategic_summary"`
}

type SuggestionItem struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type ProjectionPoint struct {
	Month                string   `json:"month"`
	PastPerformance      *float64 `json:"past_performance"`
	ProjectedPerformance *float64 `json:"projected_performance"`
}

type TimetableSlot struct {
	Time     string `json:"time"`
	Subject  string `json:"subject"`
	Activity string `json:"activity"`
	Details  string `json:"details,omitempty"`
}

type TimetableDay struct {
	Day   string          `json:"day"`
	Slots []TimetableSlot `json:"slots"`
}

type StudyPlan struct {
	Analysis              PlanAnalysis      `json:"analysis"`
	SuggestedLessons      []SuggestionItem  `json:"suggestedLessons"`
	SuggestedVideos       []SuggestionItem  `json:"suggestedVideos,omitempty"`
	SuggestedQuizzes      []SuggestionItem  `json:"suggestedQuizzes"`
	PerformanceProjection []ProjectionPoint `json:"performance_projection"`
	StudyTimetable        []TimetableDay    `json:"studyTimetable,omitempty"`
}
