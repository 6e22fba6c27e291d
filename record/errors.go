package record

import "errors"

// Sentinel error kinds from the error handling design. Callers use
// errors.Is against these to branch on kind; components wrap them with
// fmt.Errorf("...: %w", ErrX) to add context.
var (
	ErrOpenFailed           = errors.New("open failed")
	ErrParseLineRejected    = errors.New("parse line rejected")
	ErrAutoconfigFailed     = errors.New("autoconfigure failed: no code location in first line")
	ErrFileRemoved          = errors.New("file removed")
	ErrFileRotated          = errors.New("file rotated")
	ErrFileTruncated        = errors.New("file truncated")
	ErrCheckpointReadFailed = errors.New("checkpoint read failed")
	ErrCheckpointWriteFail  = errors.New("checkpoint write failed")
	ErrSinkTransient        = errors.New("sink transient error")
)
