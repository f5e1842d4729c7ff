package game

import "errors"

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrSubLocationNotFound = errors.New("sub-location not found")
	ErrShopNotFound        = errors.New("shop not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrTransportNotFound   = errors.New("transport not found")

	ErrNicknameTaken   = errors.New("nickname already taken")
	ErrInvalidNickname = errors.New("nickname must be 2-20 alphanumeric characters")
	ErrTransportOwned  = errors.New("transport already owned")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientFuel  = errors.New("insufficient fuel")

	ErrCombatActive      = errors.New("combat already active")
	ErrNoCombat          = errors.New("no active combat")
	ErrTransportNotOwned = errors.New("transport not owned")
	ErrLevelTooLow       = errors.New("level too low")
	ErrNotAFK            = errors.New("player is not afk")

	ErrNoPath = errors.New("no path between locations")

	ErrPersistence = errors.New("persistence failure")
)

// Kind buckets an error into the taxonomy the chat adapter translates for
// users. Unrecognized errors classify as internal.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
	KindInsufficientResource Kind = "insufficient_resource"
	KindInvalidState         Kind = "invalid_state"
	KindNoPath               Kind = "no_path"
	KindPersistenceFailure   Kind = "persistence_failure"
	KindInternal             Kind = "internal"
)

func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrLocationNotFound),
		errors.Is(err, ErrSubLocationNotFound),
		errors.Is(err, ErrShopNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrTransportNotFound):
		return KindNotFound

	case errors.Is(err, ErrNicknameTaken),
		errors.Is(err, ErrInvalidNickname),
		errors.Is(err, ErrTransportOwned):
		return KindConflict

	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInsufficientFuel):
		return KindInsufficientResource

	case errors.Is(err, ErrCombatActive),
		errors.Is(err, ErrNoCombat),
		errors.Is(err, ErrTransportNotOwned),
		errors.Is(err, ErrLevelTooLow),
		errors.Is(err, ErrNotAFK):
		return KindInvalidState

	case errors.Is(err, ErrNoPath):
		return KindNoPath

	case errors.Is(err, ErrPersistence):
		return KindPersistenceFailure

	default:
		return KindInternal
	}
}
