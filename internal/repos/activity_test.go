package repos

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/stepwise-learn/stepwise-backend/internal/logger"
  "github.com/stepwise-learn/stepwise-backend/internal/types"
)

func seedClassWithSubject(t *testing.T, gdb *gorm.DB, log *logger.Logger, subjectName string) (uuid.UUID, uuid.UUID) {
  t.Helper()
  class := &types.SchoolClass{ID: uuid.New(), Name: "Form 2 " + t.Name()}
  if err := gdb.Create(class).Error; err != nil {
    t.Fatalf("seed class: %v", err)
  }
  subjects, err := NewSubjectRepo(gdb, log).Create(context.Background(), nil, []*types.Subject{{
    ClassID: class.ID,
    Name:    subjectName,
  }})
  if err != nil {
    t.Fatalf("seed subject: %v", err)
  }
  return class.ID, subjects[0].ID
}

func TestDailyActivityAddStudyMinutesAccumulates(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  repo := NewDailyActivityRepo(gdb, log)
  studentID := seedStudent(t, gdb, log)
  ctx := context.Background()

  day := time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC)
  if _, err := repo.AddStudyMinutes(ctx, nil, studentID, day, 25); err != nil {
    t.Fatalf("first add: %v", err)
  }
  row, err := repo.AddStudyMinutes(ctx, nil, studentID, day, 15)
  if err != nil {
    t.Fatalf("second add: %v", err)
  }
  if row.StudyDurationMinutes != 40 {
    t.Fatalf("expected 40 accumulated minutes, got %d", row.StudyDurationMinutes)
  }
  if !row.Present {
    t.Fatalf("expected present=true")
  }
  if !row.Date.Equal(DateOnly(day)) {
    t.Fatalf("expected date normalized to midnight, got %v", row.Date)
  }
}

func TestQuizAttemptSummarizeByLessonUsesLatestPassedScore(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  studentID := seedStudent(t, gdb, log)
  _, subjectID := seedClassWithSubject(t, gdb, log, "Mathematics")
  ctx := context.Background()

  lessons, err := NewLessonRepo(gdb, log).Create(ctx, nil, []*types.Lesson{{
    SubjectID: subjectID,
    Title:     "Algebra Basics",
  }})
  if err != nil {
    t.Fatalf("seed lesson: %v", err)
  }
  lessonID := lessons[0].ID

  repo := NewQuizAttemptRepo(gdb, log)
  base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
  attempts := []*types.UserQuizAttempt{
    {UserID: studentID, LessonID: lessonID, Score: 40, Passed: false, AttemptedAt: base},
    {UserID: studentID, LessonID: lessonID, Score: 65, Passed: true, AttemptedAt: base.Add(time.Hour)},
    {UserID: studentID, LessonID: lessonID, Score: 80, Passed: true, AttemptedAt: base.Add(2 * time.Hour)},
  }
  if _, err := repo.Create(ctx, nil, attempts); err != nil {
    t.Fatalf("seed attempts: %v", err)
  }

  summaries, err := repo.SummarizeByLesson(ctx, nil, studentID)
  if err != nil {
    t.Fatalf("summarize: %v", err)
  }
  if len(summaries) != 1 {
    t.Fatalf("expected 1 lesson summary, got %d", len(summaries))
  }
  got := summaries[0]
  if got.LessonTitle != "Algebra Basics" {
    t.Fatalf("unexpected lesson title %q", got.LessonTitle)
  }
  if got.Attempts != 3 {
    t.Fatalf("expected 3 attempts, got %d", got.Attempts)
  }
  if got.FinalScore == nil || *got.FinalScore != 80 {
    t.Fatalf("expected final score 80 from latest passed attempt, got %v", got.FinalScore)
  }
}

func TestQuizAttemptSummarizeByLessonNeverPassed(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  studentID := seedStudent(t, gdb, log)
  _, subjectID := seedClassWithSubject(t, gdb, log, "Physics")
  ctx := context.Background()

  lessons, err := NewLessonRepo(gdb, log).Create(ctx, nil, []*types.Lesson{{
    SubjectID: subjectID,
    Title:     "Forces",
  }})
  if err != nil {
    t.Fatalf("seed lesson: %v", err)
  }

  repo := NewQuizAttemptRepo(gdb, log)
  if _, err := repo.Create(ctx, nil, []*types.UserQuizAttempt{
    {UserID: studentID, LessonID: lessons[0].ID, Score: 30, Passed: false, AttemptedAt: time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)},
  }); err != nil {
    t.Fatalf("seed attempts: %v", err)
  }

  summaries, err := repo.SummarizeByLesson(ctx, nil, studentID)
  if err != nil {
    t.Fatalf("summarize: %v", err)
  }
  if len(summaries) != 1 || summaries[0].FinalScore != nil {
    t.Fatalf("expected nil final score for never-passed lesson, got %+v", summaries)
  }
}

func TestLessonProgressBySubjectIncludesUntouchedSubjects(t *testing.T) {
  gdb := newTestDB(t)
  log := newTestLogger(t)
  studentID := seedStudent(t, gdb, log)
  classID, mathID := seedClassWithSubject(t, gdb, log, "Mathematics")
  ctx := context.Background()

  subjects, err := NewSubjectRepo(gdb, log).Create(ctx, nil, []*types.Subject{{
    ClassID: classID,
    Name:    "Chemistry",
  }})
  if err != nil {
    t.Fatalf("seed chemistry: %v", err)
  }

  lessonRepo := NewLessonRepo(gdb, log)
  mathLessons, err := lessonRepo.Create(ctx, nil, []*types.Lesson{
    {SubjectID: mathID, Title: "Algebra Basics", LessonOrder: 1},
    {SubjectID: mathID, Title: "Geometry", LessonOrder: 2},
  })
  if err != nil {
    t.Fatalf("seed math lessons: %v", err)
  }
  if _, err := lessonRepo.Create(ctx, nil, []*types.Lesson{
    {SubjectID: subjects[0].ID, Title: "Atoms", LessonOrder: 1},
  }); err != nil {
    t.Fatalf("seed chem lessons: %v", err)
  }

  progressRepo := NewLessonProgressRepo(gdb, log)
  if err := progressRepo.Upsert(ctx, nil, studentID, mathLessons[0].ID, true); err != nil {
    t.Fatalf("upsert progress: %v", err)
  }

  progress, err := progressRepo.ProgressBySubject(ctx, nil, studentID, classID)
  if err != nil {
    t.Fatalf("progress: %v", err)
  }
  if len(progress) != 2 {
    t.Fatalf("expected 2 subjects, got %d", len(progress))
  }
  bySubject := map[string]types.SubjectProgress{}
  for _, p := range progress {
    bySubject[p.SubjectName] = p
  }
  math := bySubject["Mathematics"]
  if math.CompletedLessons != 1 || math.TotalLessons != 2 {
    t.Fatalf("unexpected math progress %+v", math)
  }
  chem := bySubject["Chemistry"]
  if chem.CompletedLessons != 0 || chem.TotalLessons != 1 {
    t.Fatalf("unexpected chemistry progress %+v", chem)
  }
}
