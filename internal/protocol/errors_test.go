package protocol

import (
	"errors"
	"fmt"
	"testing"

	"houseregions.ai/internal/housing/commands"
	"houseregions.ai/internal/housing/geometry"
	"houseregions.ai/internal/housing/registry"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrUnknownPlayer,
		ErrBadRequest,
		ErrNoPermission,
		ErrNotOwner,
		ErrInvalidSize,
		ErrInvalidTarget,
		ErrLimit,
		ErrConflict,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&registry.PermissionError{Permission: "houseregions_define"}, ErrNoPermission},
		{registry.ErrNotOwner, ErrNotOwner},
		{&registry.SizeError{Bound: geometry.BoundMax}, ErrInvalidSize},
		{fmt.Errorf("resize: %w", registry.ErrOverlap), ErrConflict},
		{registry.ErrLimitExceeded, ErrLimit},
		{registry.ErrNotAHouseRegion, ErrInvalidTarget},
		{commands.ErrUnknownGroup, ErrInvalidTarget},
		{commands.ErrSyntax, ErrBadRequest},
		{fmt.Errorf("create: %w: %w", registry.ErrStoreFailure, errors.New("disk full")), ErrInternal},
	}
	for _, tc := range cases {
		got := CodeFor(tc.err)
		if got != tc.want {
			t.Fatalf("CodeFor(%v) = %q, want %q", tc.err, got, tc.want)
		}
		if !IsKnownCode(got) {
			t.Fatalf("CodeFor returned unknown code %q", got)
		}
	}
}
