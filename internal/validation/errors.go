package validation

import "errors"

// ErrUnavailable indicates the oracle could not produce a usable judgment:
// missing configuration, a transport or timeout failure, or malformed model
// output. Callers treat it as "could not assess, defer to human", never as
// an approval or rejection.
var ErrUnavailable = errors.New("scoring oracle unavailable")
