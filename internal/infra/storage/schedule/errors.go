package schedule

import "errors"

var (
	ErrScheduleNotFound = errors.New("schedule.repository: schedule config not found")
	ErrBuildQuery       = errors.New("schedule.repository: failed to build query")
	ErrExecQuery        = errors.New("schedule.repository: failed to execute query")
	ErrScanRow          = errors.New("schedule.repository: failed to scan row")
)
