package repository

import "errors"

// Sentinel errors surfaced by check-then-act transactions. Services translate
// them into the API error categories.
var (
	// ErrDuplicateInspection signals a name or date collision within the
	// organization.
	ErrDuplicateInspection = errors.New("inspection name or date already exists")
	// ErrInspectionStarted signals an edit or delete of a started inspection.
	ErrInspectionStarted = errors.New("inspection already started")
	// ErrUnfinishedBlocking signals that a past inspection was started but
	// never stopped.
	ErrUnfinishedBlocking = errors.New("unfinished inspection blocking")
	// ErrNoInspectionToday signals that no inspection is scheduled for today.
	ErrNoInspectionToday = errors.New("no inspection planned for today")
	// ErrAlreadyStarted signals a second start of today's running inspection.
	ErrAlreadyStarted = errors.New("inspection already started and not finished")
	// ErrNotStarted signals a stop of an inspection that never started.
	ErrNotStarted = errors.New("inspection not started")
	// ErrAlreadyFinished signals a second stop.
	ErrAlreadyFinished = errors.New("inspection already finished")
	// ErrStopBeforeStart signals a stop time earlier than the start time.
	ErrStopBeforeStart = errors.New("stop time is before start time")
)
