package equity

import "errors"

// Errors reported by the ledger and the tax engine. They are always wrapped
// with the details of the failing call, test them with errors.Is.
var (
	// ErrInvalidRegion is returned for an unknown jurisdiction, or when
	// capital-gains rates are requested for a region other than federal.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrInvalidVestingParameters is returned for a schedule that cannot
	// vest: non-positive units or term, cliff outside of the term.
	ErrInvalidVestingParameters = errors.New("invalid vesting parameters")
	// ErrInsufficientUnits is returned when an exercise or a sale requests
	// more units than the eligible lots hold.
	ErrInsufficientUnits = errors.New("insufficient units")
	// ErrInvalidTransition is returned for an unknown action, or when no
	// lot of the ticker can make the requested transition.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrMissingTable is returned when a known region has no table for
	// the requested year or filing status.
	ErrMissingTable = errors.New("missing tax table")
	// ErrMissingFiling is returned when taxes are requested for a year
	// without a filing.
	ErrMissingFiling = errors.New("missing filing")
	// ErrInvalidScenario is returned when a scenario document fails validation.
	ErrInvalidScenario = errors.New("invalid scenario")
)
