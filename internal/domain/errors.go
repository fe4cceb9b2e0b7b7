package domain

import "fmt"

// DataUnavailableError marks a per-location fetch or normalize failure. It is
// isolated: the run proceeds with the remaining locations and records the
// failed one in RunMeta.Failed.
type DataUnavailableError struct {
	Location string
	Err      error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable for %s: %v", e.Location, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// InvalidLocationConfigError is fatal at startup: a location missing required
// geometry cannot be scored, and a partial definition is a configuration
// defect rather than a transient condition.
type InvalidLocationConfigError struct {
	Location string
	Field    string
	Reason   string
}

func (e *InvalidLocationConfigError) Error() string {
	return fmt.Sprintf("invalid location config %s: field %s: %s", e.Location, e.Field, e.Reason)
}
