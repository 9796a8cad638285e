package feedback

import "fmt"

// MissingSignalError indicates a required diagnostic signal was absent from
// the aggregation input. Grammar and semantic results are required for
// every modality; aggregation fails rather than scoring partial data.
type MissingSignalError struct {
	Signal Component
}

func (e *MissingSignalError) Error() string {
	return fmt.Sprintf("required %s result is missing", e.Signal)
}
