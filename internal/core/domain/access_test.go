package domain

import "testing"

func TestAccessLevel_AtLeast(t *testing.T) {
	tests := []struct {
		level    AccessLevel
		required AccessLevel
		want     bool
	}{
		{AccessAdmin, AccessWrite, true},
		{AccessWrite, AccessWrite, true},
		{AccessRead, AccessWrite, false},
		{AccessNone, AccessRead, false},
		{AccessRead, AccessRead, true},
		{AccessAdmin, AccessAdmin, true},
		{AccessWrite, AccessAdmin, false},
		// Unknown tiers rank below none.
		{AccessLevel("superuser"), AccessRead, false},
	}

	for _, tt := range tests {
		if got := tt.level.AtLeast(tt.required); got != tt.want {
			t.Errorf("AtLeast(%q, %q) = %v, want %v", tt.level, tt.required, got, tt.want)
		}
	}
}

func TestAccessLevel_CanEdit(t *testing.T) {
	if AccessRead.CanEdit() || AccessNone.CanEdit() {
		t.Error("read and none must not permit editing")
	}
	if !AccessWrite.CanEdit() || !AccessAdmin.CanEdit() {
		t.Error("write and admin must permit editing")
	}
}

func TestAccessLevel_Valid(t *testing.T) {
	for _, l := range []AccessLevel{AccessNone, AccessRead, AccessWrite, AccessAdmin} {
		if !l.Valid() {
			t.Errorf("expected %q to be valid", l)
		}
	}
	if AccessLevel("superuser").Valid() {
		t.Error("unknown tier must not be valid")
	}
}
