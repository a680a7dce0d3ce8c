package types

// Status is the terminal state of one source image
type Status int

// Source image outcomes
const (
	StatusOK Status = iota
	StatusSkipped
	StatusDuplicate
	StatusError
)

// String returns the status tag printed for each processed file
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusSkipped:
		return "SKIPPED"
	case StatusDuplicate:
		return "DUPLICATE"
	case StatusError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Outcome is the result of processing one source image
type Outcome struct {
	File   string `json:"file"`
	Status Status `json:"status"`
	// Saved is the number of variants written; only set for StatusOK.
	Saved int   `json:"saved"`
	Err   error `json:"-"`
}

// Stats holds the run-wide counters
type Stats struct {
	ImagesCollected  int64 `json:"images_collected"`
	ImagesDuplicated int64 `json:"images_duplicated"`
	ImagesSkipped    int64 `json:"images_skipped"`
	ImagesFailed     int64 `json:"images_failed"`
}

// Report summarizes a run
type Report struct {
	Found    int   `json:"found"`
	Selected int   `json:"selected"`
	Expected int   `json:"expected"`
	DryRun   bool  `json:"dry_run"`
	Stats    Stats `json:"stats"`
}
