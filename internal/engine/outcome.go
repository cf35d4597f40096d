package engine

// Outcome reports how a command resolved. Any value other than OK means the
// command left state untouched.
type Outcome int

const (
	OK Outcome = iota
	NoActiveUser
	AlreadyCompleted
	AlreadyMember
	InsufficientFunds
	NotFound
	InvalidInput
	ProfileExists
)

var outcomeNames = map[Outcome]string{
	OK:                "ok",
	NoActiveUser:      "no_active_user",
	AlreadyCompleted:  "already_completed",
	AlreadyMember:     "already_member",
	InsufficientFunds: "insufficient_funds",
	NotFound:          "not_found",
	InvalidInput:      "invalid_input",
	ProfileExists:     "profile_exists",
}

var outcomeMessages = map[Outcome]string{
	NoActiveUser:      "no player profile yet, run 'streakwars init' first",
	AlreadyCompleted:  "habit already completed today",
	AlreadyMember:     "already a member of this group",
	InsufficientFunds: "not enough coins",
	NotFound:          "not found",
	InvalidInput:      "invalid input",
	ProfileExists:     "a player profile already exists",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Err converts a non-OK outcome into an error for callers that surface it.
func (o Outcome) Err() error {
	if o == OK {
		return nil
	}
	return &OutcomeError{Outcome: o}
}

// OutcomeError wraps a non-OK Outcome.
type OutcomeError struct {
	Outcome Outcome
}

func (e *OutcomeError) Error() string {
	if msg, ok := outcomeMessages[e.Outcome]; ok {
		return msg
	}
	return e.Outcome.String()
}

// Is matches any OutcomeError carrying the same Outcome, so
// errors.Is(err, engine.NotFound.Err()) works.
func (e *OutcomeError) Is(target error) bool {
	t, ok := target.(*OutcomeError)
	return ok && t.Outcome == e.Outcome
}
