package model

import "time"

// Event kinds written by the tracker. Kinds are open: the event log accepts
// and round-trips any string.
const (
	KindHourly       = "HOURLY"
	KindDailyStatus  = "DAILY_STATUS"
	KindWeeklyStatus = "WEEKLY_STATUS"
	KindBreakStart   = "BREAK_START"
	KindBreakEnd     = "BREAK_END"
	KindBreakWarn    = "BREAK_WARN"
	KindBreakRandom  = "BREAK_RANDOM"
	KindTask         = "TASK"
	KindExport       = "EXPORT"
	KindMeeting      = "MEETING"
	// KindLog is assigned to lines the parser cannot split into a kind.
	KindLog = "LOG"
)

// Event is a single timestamped entry of the activity log.
type Event struct {
	Timestamp time.Time
	Kind      string
	Text      string
}

// Task is a node of the task forest. Parent holds the ID of the parent
// task, nil for roots.
type Task struct {
	ID     int
	Name   string
	Parent *int
	Done   bool
}

// BreakEntry is a break interval. End is nil while the break is active.
type BreakEntry struct {
	Category string
	Start    time.Time
	End      *time.Time
}

// Active reports whether the break has not been ended yet.
func (b BreakEntry) Active() bool {
	return b.End == nil
}
