package tenzies

// TenziesError is a custom error type for engine errors
type TenziesError string

// Error implements the error interface
func (e TenziesError) Error() string {
	return string(e)
}

const (
	ErrNilConfig        TenziesError = "config cannot be nil"
	ErrNilDiceRoller    TenziesError = "dice roller cannot be nil"
	ErrNilUUIDGenerator TenziesError = "UUID generator cannot be nil"
	ErrWrongDiceCount   TenziesError = "state must contain exactly ten dice"
	ErrDieOutOfRange    TenziesError = "die value out of range"
	ErrMissingDieID     TenziesError = "die id cannot be empty"
	ErrDuplicateDieID   TenziesError = "die ids must be unique"
)
