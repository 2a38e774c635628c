package circulation

// Outcome is the business result of a lifecycle operation. A missing card or
// asset and a double checkout are expected conditions the caller branches on,
// not errors; errors are reserved for storage failures.
type Outcome string

const (
	OutcomeApplied           Outcome = "applied"
	OutcomeInvalidReference  Outcome = "invalid_reference"
	OutcomeAlreadyCheckedOut Outcome = "already_checked_out"
)

func (o Outcome) String() string {
	return string(o)
}
