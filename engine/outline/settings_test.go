package outline

import (
	"errors"
	"math"
	"testing"
)

func TestNewOutlineSettingsRoundTrip(t *testing.T) {
	color := [4]float32{0.2, 0.4, 0.6, 0.8}
	s := NewOutlineSettings(2.5, color, 0.1, 0.2, 0.7)

	if s.Weight != 2.5 || s.Color != color || s.NormalThreshold != 0.1 || s.DepthThreshold != 0.2 || s.AdaptiveThreshold != 0.7 {
		t.Errorf("NewOutlineSettings() = %+v, want the given values", s)
	}
	if got := s.CameraNear(); got != 0 {
		t.Errorf("CameraNear() = %v, want 0", got)
	}
}

func TestDefaultOutlineSettings(t *testing.T) {
	s := DefaultOutlineSettings()
	want := NewOutlineSettings(1, [4]float32{0, 0, 0, 1}, 0.01, 0.05, 1)
	if !s.Equal(want) {
		t.Errorf("DefaultOutlineSettings() = %+v, want %+v", s, want)
	}
	if s.AdaptiveEnabled() {
		t.Error("AdaptiveEnabled() = true, want false for the defaults")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestOutlineSettingsEqual(t *testing.T) {
	a := DefaultOutlineSettings()
	b := DefaultOutlineSettings()
	if !a.Equal(b) {
		t.Error("Equal() = false for identical settings")
	}

	b.Weight = 2
	if a.Equal(b) {
		t.Error("Equal() = true after changing Weight")
	}

	if a.Equal(a.withCameraNear(0.1)) {
		t.Error("Equal() = true for settings with different cached near planes")
	}
}

func TestOutlineSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		weight   float32
		adaptive float32
		want     error
	}{
		{"defaults", 1, 1, nil},
		{"zero weight", 0, 1, nil},
		{"negative weight", -1, 1, ErrNegativeWeight},
		{"adaptive zero", 1, 0, nil},
		{"adaptive half", 1, 0.5, nil},
		{"adaptive below range", 1, -0.1, ErrAdaptiveRange},
		{"adaptive above range", 1, 1.5, ErrAdaptiveRange},
		{"NaN weight", float32(math.NaN()), 1, ErrNegativeWeight},
		{"NaN adaptive", 1, float32(math.NaN()), ErrAdaptiveRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewOutlineSettings(tt.weight, [4]float32{0, 0, 0, 1}, 0.01, 0.05, tt.adaptive)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAdaptiveEnabled(t *testing.T) {
	tests := []struct {
		threshold float32
		want      bool
	}{
		{1, false},
		{0.99, true},
		{0, true},
	}
	for _, tt := range tests {
		s := DefaultOutlineSettings()
		s.AdaptiveThreshold = tt.threshold
		if got := s.AdaptiveEnabled(); got != tt.want {
			t.Errorf("AdaptiveEnabled() with threshold %v = %v, want %v", tt.threshold, got, tt.want)
		}
	}
}
