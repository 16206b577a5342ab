package game

import "errors"

var (
	// ErrIllegalTransition is returned when an action is not allowed in the
	// current phase.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrInvalidAction is returned when an allowed action carries a payload
	// the engine cannot apply, e.g. a turn order that is not a permutation.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidSetup is returned by NewGame for unusable parameters.
	ErrInvalidSetup = errors.New("invalid game setup")

	// ErrSnapshotVersion is returned by Unmarshal for unknown formats.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
)
