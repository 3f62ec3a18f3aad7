package models

// LessonType distinguishes regular lessons from checkpoints and projects
type LessonType string

const (
	LessonTypeLesson     LessonType = "lesson"
	LessonTypeCheckpoint LessonType = "checkpoint"
	LessonTypeProject    LessonType = "project"
)

// LessonStatus is a lesson's state relative to a user's progress
type LessonStatus string

const (
	LessonStatusDone    LessonStatus = "done"
	LessonStatusCurrent LessonStatus = "current"
	LessonStatusLocked  LessonStatus = "locked"
)

// RewardStreakSave marks lessons that grant a streak save on completion
const RewardStreakSave = "streak save"

// Lesson is one node of a lesson track
type Lesson struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Type     LessonType   `json:"type"`
	Duration string       `json:"duration"`
	Points   int64        `json:"points"`
	Focus    string       `json:"focus"`
	Icon     string       `json:"icon"`
	Reward   string       `json:"reward,omitempty"`
	Status   LessonStatus `json:"status"`
}

// GrantsStreakSave reports whether completing the lesson credits a streak save
func (l Lesson) GrantsStreakSave() bool {
	return l.Reward == RewardStreakSave
}

// LessonTrack is the lesson plan of one skill level as seen by a user
type LessonTrack struct {
	SkillLevel    SkillLevel `json:"skillLevel"`
	Lessons       []Lesson   `json:"lessons"`
	Points        int64      `json:"points"`
	PointsAwarded int64      `json:"pointsAwarded"`
}

// LessonCatalog holds the lesson plan of every skill level
var LessonCatalog = map[SkillLevel][]Lesson{
	SkillLevelBeginner: {
		{ID: "welcome", Title: "hello world", Type: LessonTypeLesson, Duration: "8 min", Points: 40, Focus: "printing", Icon: "{}"},
		{ID: "vars", Title: "variables + types", Type: LessonTypeLesson, Duration: "12 min", Points: 60, Focus: "types", Icon: "Aa"},
		{ID: "loops", Title: "loops you can trust", Type: LessonTypeLesson, Duration: "14 min", Points: 70, Focus: "loops", Icon: "LO"},
		{ID: "lists", Title: "lists + arrays", Type: LessonTypeLesson, Duration: "15 min", Points: 80, Focus: "arrays", Icon: "[]", Reward: "unlock quiz"},
		{ID: "func", Title: "functions toolkit", Type: LessonTypeLesson, Duration: "16 min", Points: 90, Focus: "functions", Icon: "fx"},
		{ID: "checkpoint-1", Title: "checkpoint: basics", Type: LessonTypeCheckpoint, Duration: "10 min", Points: 120, Focus: "review", Icon: "**", Reward: "badge"},
		{ID: "logic", Title: "conditionals applied", Type: LessonTypeLesson, Duration: "14 min", Points: 90, Focus: "logic", Icon: "?"},
		{ID: "project-1", Title: "mini project: todo app", Type: LessonTypeProject, Duration: "22 min", Points: 160, Focus: "practice", Icon: "PJ"},
	},
	SkillLevelIntermediate: {
		{ID: "review", Title: "array patterns review", Type: LessonTypeLesson, Duration: "10 min", Points: 60, Focus: "arrays", Icon: "AR"},
		{ID: "two-pointers", Title: "two-pointer drills", Type: LessonTypeLesson, Duration: "15 min", Points: 80, Focus: "patterns", Icon: "<>"},
		{ID: "recursion", Title: "recursion warmups", Type: LessonTypeLesson, Duration: "18 min", Points: 90, Focus: "recursion", Icon: "RE"},
		{ID: "dfs", Title: "depth-first search on trees", Type: LessonTypeLesson, Duration: "20 min", Points: 110, Focus: "tree traversal", Icon: "TR", Reward: RewardStreakSave},
		{ID: "bfs", Title: "breadth-first search on graphs", Type: LessonTypeLesson, Duration: "18 min", Points: 110, Focus: "graph traversal", Icon: "BF"},
		{ID: "checkpoint-2", Title: "checkpoint: traversal lab", Type: LessonTypeCheckpoint, Duration: "14 min", Points: 140, Focus: "mixed", Icon: "**", Reward: "bonus points"},
		{ID: "dp", Title: "dynamic programming starter pack", Type: LessonTypeLesson, Duration: "22 min", Points: 140, Focus: "dynamic programming", Icon: "DP"},
		{ID: "project-2", Title: "project: leaderboard api", Type: LessonTypeProject, Duration: "26 min", Points: 170, Focus: "service api", Icon: "API", Reward: RewardStreakSave},
	},
	SkillLevelAdvanced: {
		{ID: "golang", Title: "go routines primer", Type: LessonTypeLesson, Duration: "14 min", Points: 90, Focus: "concurrency", Icon: "GO"},
		{ID: "channels", Title: "channels + pipelines", Type: LessonTypeLesson, Duration: "16 min", Points: 100, Focus: "pipelines", Icon: "CH"},
		{ID: "ownership", Title: "rust ownership tour", Type: LessonTypeLesson, Duration: "20 min", Points: 120, Focus: "ownership", Icon: "RS"},
		{ID: "lifetimes", Title: "lifetimes by example", Type: LessonTypeLesson, Duration: "18 min", Points: 120, Focus: "lifetimes", Icon: "LT"},
		{ID: "ts", Title: "typescript generics explained", Type: LessonTypeLesson, Duration: "17 min", Points: 110, Focus: "type systems", Icon: "<T>"},
		{ID: "checkpoint-3", Title: "checkpoint: language swap", Type: LessonTypeCheckpoint, Duration: "16 min", Points: 150, Focus: "mixed", Icon: "**", Reward: "speed run"},
		{ID: "perf", Title: "performance sweeps", Type: LessonTypeLesson, Duration: "20 min", Points: 140, Focus: "perf", Icon: "PF"},
		{ID: "project-3", Title: "project: command-line app ship", Type: LessonTypeProject, Duration: "28 min", Points: 180, Focus: "command line", Icon: "APP", Reward: RewardStreakSave},
	},
}
