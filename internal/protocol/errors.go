package protocol

import (
	"errors"

	"houseregions.ai/internal/housing/commands"
	"houseregions.ai/internal/housing/registry"
)

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrUnknownPlayer   = "E_UNKNOWN_PLAYER"

	// Rule/action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrNoPermission  = "E_NO_PERMISSION"
	ErrNotOwner      = "E_NOT_OWNER"
	ErrInvalidSize   = "E_INVALID_SIZE"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrLimit         = "E_LIMIT"
	ErrConflict      = "E_CONFLICT"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrUnknownPlayer:   {},
	ErrBadRequest:      {},
	ErrNoPermission:    {},
	ErrNotOwner:        {},
	ErrInvalidSize:     {},
	ErrInvalidTarget:   {},
	ErrLimit:           {},
	ErrConflict:        {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// CodeFor maps a command or registry error to its wire code. A nil error
// maps to "".
func CodeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, registry.ErrMissingPermission), errors.Is(err, registry.ErrNoOwner):
		return ErrNoPermission
	case errors.Is(err, registry.ErrNotOwner):
		return ErrNotOwner
	case errors.Is(err, registry.ErrInvalidSize), errors.Is(err, registry.ErrDegenerateArea):
		return ErrInvalidSize
	case errors.Is(err, registry.ErrOverlap), errors.Is(err, commands.ErrAlreadyOwner):
		return ErrConflict
	case errors.Is(err, registry.ErrLimitExceeded):
		return ErrLimit
	case errors.Is(err, registry.ErrNotAHouseRegion),
		errors.Is(err, commands.ErrUnknownUser),
		errors.Is(err, commands.ErrUnknownGroup):
		return ErrInvalidTarget
	case errors.Is(err, commands.ErrSyntax):
		return ErrBadRequest
	default:
		return ErrInternal
	}
}
