package models

// SimpLevel is one bracket of the fixed ten-level ladder over total deploys.
type SimpLevel struct {
	Level      int    `json:"level"`
	Title      string `json:"title"`
	MinDeploys int    `json:"min_deploys"`
	MaxDeploys int    `json:"max_deploys"` // -1 marks the unbounded top bracket
}

// SimpLevels is ordered by MinDeploys ascending and covers every non-negative
// total: each bracket starts where the previous one ends.
var SimpLevels = []SimpLevel{
	{Level: 1, Title: "Rookie Simp", MinDeploys: 0, MaxDeploys: 4},
	{Level: 2, Title: "Amateur Simp", MinDeploys: 5, MaxDeploys: 14},
	{Level: 3, Title: "Professional Simp", MinDeploys: 15, MaxDeploys: 29},
	{Level: 4, Title: "Elite Simp", MinDeploys: 30, MaxDeploys: 49},
	{Level: 5, Title: "Master Simp", MinDeploys: 50, MaxDeploys: 99},
	{Level: 6, Title: "Legendary Simp", MinDeploys: 100, MaxDeploys: 199},
	{Level: 7, Title: "Mythical Simp", MinDeploys: 200, MaxDeploys: 499},
	{Level: 8, Title: "Ascended Simp", MinDeploys: 500, MaxDeploys: 999},
	{Level: 9, Title: "Transcendent Simp", MinDeploys: 1000, MaxDeploys: 9999},
	{Level: 10, Title: "Ultimate Simp Lord", MinDeploys: 10000, MaxDeploys: -1},
}

// LevelProgress is the level bracket containing a total plus derived progress.
type LevelProgress struct {
	Level                int    `json:"level"`
	Title                string `json:"title"`
	ProgressToNext       int    `json:"progress_to_next"`
	NextLevelRequirement int    `json:"next_level_requirement"`
}

// LevelFor returns the bracket containing total. Progress is measured from the
// bracket's lower bound; the top bracket reports zero progress and its own
// minimum as the requirement, since there is nothing left to reach.
func LevelFor(total int) LevelProgress {
	level := SimpLevels[len(SimpLevels)-1]
	for _, l := range SimpLevels {
		if total >= l.MinDeploys && (l.MaxDeploys < 0 || total <= l.MaxDeploys) {
			level = l
			break
		}
	}

	if level.Level == len(SimpLevels) {
		return LevelProgress{
			Level:                level.Level,
			Title:                level.Title,
			ProgressToNext:       0,
			NextLevelRequirement: level.MinDeploys,
		}
	}

	next := SimpLevels[level.Level] // levels are 1-based, slice is 0-based
	return LevelProgress{
		Level:                level.Level,
		Title:                level.Title,
		ProgressToNext:       total - level.MinDeploys,
		NextLevelRequirement: next.MinDeploys,
	}
}

// LeveledUp reports whether moving from previous to current total deploys
// crossed a bracket boundary.
func LeveledUp(previous, current int) bool {
	return LevelFor(current).Level > LevelFor(previous).Level
}
