package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRecordNotFound     = fmt.Errorf("record not found")

	// Discovery and submission failures
	ErrInvalidUpload  = fmt.Errorf("invalid upload")
	ErrSearchFailed   = fmt.Errorf("search failed")
	ErrScanFailed     = fmt.Errorf("poster scan failed")
	ErrNoArtistsFound = fmt.Errorf("no artists found")
	ErrSubmitFailed   = fmt.Errorf("playlist creation failed")

	// Selection validation errors
	ErrInvalidTrackCount = fmt.Errorf("invalid track count")
	ErrInvalidPreset     = fmt.Errorf("invalid track count preset")
	ErrDiscographyBulk   = fmt.Errorf("%w: discography cannot be applied to multiple artists", ErrInvalidPreset)
	ErrNothingSelected   = fmt.Errorf("no artists selected")
	ErrEmptyPlaylistName = fmt.Errorf("playlist name is empty")
	ErrNothingStaged     = fmt.Errorf("no candidate staged")

	// Workflow serialization errors
	ErrRequestInFlight      = fmt.Errorf("request already in flight")
	ErrStaleResult          = fmt.Errorf("result superseded by a newer request")
	ErrSubmissionInProgress = fmt.Errorf("submission already in progress")
	ErrWorkflowBusy         = fmt.Errorf("workflow is busy")
	ErrWorkflowClosed       = fmt.Errorf("playlist already created; reset to start over")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
