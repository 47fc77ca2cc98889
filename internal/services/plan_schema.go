package services

// JSON schema builders for the study plan structured-output contract.
//
// OpenAI strict JSON schema requires that for object schemas:
// - additionalProperties must be present and false
// - required must include EVERY key listed in properties
//
// So optional sections (suggestedVideos, studyTimetable) are required here
// and allowed to be empty; the validator decides what emptiness means.

func stringSchema() map[string]any {
  return map[string]any{"type": "string"}
}

func stringArraySchema() map[string]any {
  return map[string]any{
    "type":  "array",
    "items": map[string]any{"type": "string"},
  }
}

func numberOrNullSchema() map[string]any {
  return map[string]any{"type": []any{"number", "null"}}
}

func enumSchema(values ...string) map[string]any {
  arr := make([]any, 0, len(values))
  for _, v := range values {
    arr = append(arr, v)
  }
  return map[string]any{"type": "string", "enum": arr}
}

func arrayOf(items map[string]any) map[string]any {
  return map[string]any{"type": "array", "items": items}
}

func planAnalysisSchema() map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "praise":            stringArraySchema(),
      "improvement_areas": stringArraySchema(),
      "strategic_summary": stringSchema(),
    },
    "required":             []string{"praise", "improvement_areas", "strategic_summary"},
    "additionalProperties": false,
  }
}

func suggestionItemSchema() map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "title":  stringSchema(),
      "reason": stringSchema(),
    },
    "required":             []string{"title", "reason"},
    "additionalProperties": false,
  }
}

func projectionPointSchema() map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "month":                 stringSchema(),
      "past_performance":      numberOrNullSchema(),
      "projected_performance": numberOrNullSchema(),
    },
    "required":             []string{"month", "past_performance", "projected_performance"},
    "additionalProperties": false,
  }
}

func timetableSlotSchema(policy PlanPolicy) map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "time":     enumSchema(policy.TimeSlots...),
      "subject":  stringSchema(),
      "activity": enumSchema("Study Time", "Revision", "Free Time"),
      "details":  stringSchema(),
    },
    "required":             []string{"time", "subject", "activity", "details"},
    "additionalProperties": false,
  }
}

func timetableDaySchema(policy PlanPolicy) map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "day":   enumSchema(policy.Days...),
      "slots": arrayOf(timetableSlotSchema(policy)),
    },
    "required":             []string{"day", "slots"},
    "additionalProperties": false,
  }
}

// StudyPlanSchema is the full structured-output contract sent with every
// generation request.
func StudyPlanSchema(policy PlanPolicy) map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "analysis":               planAnalysisSchema(),
      "suggestedLessons":       arrayOf(suggestionItemSchema()),
      "suggestedVideos":        arrayOf(suggestionItemSchema()),
      "suggestedQuizzes":       arrayOf(suggestionItemSchema()),
      "performance_projection": arrayOf(projectionPointSchema()),
      "studyTimetable":         arrayOf(timetableDaySchema(policy)),
    },
    "required": []string{
      "analysis",
      "suggestedLessons",
      "suggestedVideos",
      "suggestedQuizzes",
      "performance_projection",
      "studyTimetable",
    },
    "additionalProperties": false,
  }
}
