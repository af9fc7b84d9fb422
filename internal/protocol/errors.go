package protocol

const (
	// Request/config validation.
	ErrBadRequest = "E_BAD_REQUEST"

	// Build/placement layer.
	ErrUnknownItem      = "E_UNKNOWN_ITEM"
	ErrNoResource       = "E_NO_RESOURCE"
	ErrInvalidPlacement = "E_INVALID_PLACEMENT"
	ErrNoSession        = "E_NO_SESSION"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:       {},
	ErrUnknownItem:      {},
	ErrNoResource:       {},
	ErrInvalidPlacement: {},
	ErrNoSession:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// Error is the structured failure every build/placement operation returns.
// All codes are locally recoverable; nothing in the sim aborts the process.
type Error struct {
	Code string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code
	}
	return e.Code + ": " + e.Msg
}

func Errorf(code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// CodeOf returns the code carried by err, or E_BAD_REQUEST for errors that
// did not originate in the sim.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if pe, ok := err.(*Error); ok {
		return pe.Code
	}
	return ErrBadRequest
}
