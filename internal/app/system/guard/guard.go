// Package guard holds the access decision for protected routes.
package guard

// Decision is the outcome of Decide.
type Decision int

const (
	// Pending means session restoration has not finished; render nothing.
	Pending Decision = iota
	// Allow means an admitted account is present.
	Allow
	// Redirect means restoration finished and nobody is signed in.
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "pending"
	}
}

// Decide is a pure function over the two inputs. While loading it never
// redirects, and it never redirects when an account is present.
func Decide(loading, hasAccount bool) Decision {
	if loading {
		return Pending
	}
	if hasAccount {
		return Allow
	}
	return Redirect
}
