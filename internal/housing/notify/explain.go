package notify

import (
	"errors"
	"fmt"

	"houseregions.ai/internal/housing/config"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/registry"
)

// Explain turns a registry or resize error into the notices a player sees.
// Unexpected errors collapse into a generic internal error line.
func Explain(err error, cfg config.Config) []Notice {
	var serr *registry.SizeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &serr):
		return explainSize(serr)
	case errors.Is(err, registry.ErrOverlap):
		if cfg.AllowForeignOverlap {
			return []Notice{Error("The house would overlap with another house you do not own.")}
		}
		return []Notice{
			Error("The house would overlap with another house you do not own or"),
			Error("with a protected region."),
		}
	case errors.Is(err, registry.ErrLimitExceeded):
		return []Notice{Error(fmt.Sprintf(
			"You have reached the maximum of %d houses. Delete at least one of your other houses first.",
			cfg.MaxHousesPerUser))}
	case errors.Is(err, registry.ErrMissingPermission):
		return []Notice{Error("You do not have the necessary permission to do that.")}
	case errors.Is(err, registry.ErrNotOwner):
		return []Notice{Error("You're not the owner of this house.")}
	case errors.Is(err, registry.ErrNotAHouseRegion):
		return []Notice{Error("There's no house on your current position.")}
	case errors.Is(err, registry.ErrDegenerateArea):
		return []Notice{Error("The house has to be at least one block high and wide.")}
	case errors.Is(err, registry.ErrNoOwner):
		return []Notice{Error("You have to be logged in in order to define houses.")}
	default:
		return []Notice{Error("Internal error has occurred.")}
	}
}

func explainSize(e *registry.SizeError) []Notice {
	word, head := "Min", "This region has no valid house size, it's too small:"
	if e.Bound == geometry.BoundMax {
		word, head = "Max", "This region has no valid house size, it's too large:"
	}
	return []Notice{
		Error(head),
		Error(fmt.Sprintf("%s width: %d (you've tried to set %d).", word, e.Limits.Width, e.Area.Width)),
		Error(fmt.Sprintf("%s height: %d (you've tried to set %d).", word, e.Limits.Height, e.Area.Height)),
		Error(fmt.Sprintf("%s total blocks: %d (you've tried to set %d).", word, e.Limits.TotalTiles, e.Area.Tiles())),
	}
}
