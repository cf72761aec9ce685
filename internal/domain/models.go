package domain

import (
	"time"
)

// PageRow is one participant row extracted from a single standings page.
type PageRow struct {
	Handle string
	Solved []string
}

// PerContestRecord is the finalized accumulation for one (participant, contest) pair.
type PerContestRecord struct {
	Handle      string
	Solved      []string // sorted problem labels
	TotalSolved int
}

// CombinedRecord joins one participant's counts across every configured contest.
type CombinedRecord struct {
	Handle           string
	SolvedByContest  []int // configuration order, 0 where absent
	TotalAllContests int
}

type ContestConfig struct {
	Name         string
	StandingsURL string

	// Threshold is the contest's individual minimum solved count. nil means
	// the contest has no individual gate and only the global threshold
	// applies. A genuine threshold of zero is valid.
	Threshold *int
}

type ContestDetail struct {
	Contest        string
	TotalSolved    int
	Threshold      *int
	MeetsThreshold bool
}

type FailedThreshold struct {
	Contest     string
	TotalSolved int
	Threshold   int
}

// EligibilityDecision is the full diagnostic output for one roster handle.
type EligibilityDecision struct {
	Handle           string
	Delete           bool
	Error            string
	Contests         []ContestDetail
	FailedThresholds []FailedThreshold
	TotalAllContests int
}

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Partial    bool
}

type RosterDeletion struct {
	ID        string // nanoid
	RunID     string
	SheetName string
	RowIndex  int
	Handle    string
	TotalAll  int
	Reason    string
	CreatedAt time.Time
}
