package logparse

import "testing"

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"trace", LevelDebug},
		{"verbose", LevelDebug},
		{"info", LevelInfo},
		{"Information", LevelInfo},
		{"notice", LevelInfo},
		{"warn", LevelWarning},
		{"WARNING", LevelWarning},
		{"err", LevelError},
		{"error", LevelError},
		{"crit", LevelCritical},
		{"critical", LevelCritical},
		{"fatal", LevelCritical},
		{"panic", LevelCritical},
		{"  info  ", LevelInfo},
		{"warning:", LevelWarning},
		{"errorcode", LevelError},
		{"", LevelInfo},
		{"garbage", LevelInfo},
		{"x", LevelInfo},
	}

	for _, tt := range tests {
		if got := NormalizeLevel(tt.in); got != tt.want {
			t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false, want true", level)
		}
	}
	for _, level := range []string{"", "INFO", "warn", "fatal"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true, want false", level)
		}
	}
}

func TestLevelNum_Ordering(t *testing.T) {
	ordered := []string{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}
	for i := 1; i < len(ordered); i++ {
		if LevelNum(ordered[i-1]) >= LevelNum(ordered[i]) {
			t.Errorf("LevelNum(%q) >= LevelNum(%q), severity order broken", ordered[i-1], ordered[i])
		}
	}
	if LevelNum("unknown") != LevelNum(LevelInfo) {
		t.Errorf("LevelNum(unknown) = %d, want info's ordinal", LevelNum("unknown"))
	}
}
