package memory

import (
	"runtime/debug"
	"testing"
)

// restoreLimit puts the runtime memory limit back after a test changes it.
func restoreLimit(t *testing.T) {
	t.Helper()
	previous := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(previous) })
}

func TestConfigureFromEnvNoLimit(t *testing.T) {
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "")

	result := ConfigureFromEnv()

	if result.Configured {
		t.Error("Expected Configured=false without MEMORY_LIMIT")
	}
	if result.Source != "none" {
		t.Errorf("Source = %q, want none", result.Source)
	}
}

func TestConfigureFromEnvMemoryLimit(t *testing.T) {
	restoreLimit(t)

	tests := []struct {
		name      string
		limit     string
		ratio     string
		wantRatio float64
		wantLimit int64
	}{
		{"default ratio", "1073741824", "", DefaultMemoryRatio, 912680550},
		{"custom ratio", "1073741824", "0.5", 0.5, 536870912},
		{"ratio out of range", "1073741824", "1.5", DefaultMemoryRatio, 912680550},
		{"ratio not a number", "1073741824", "half", DefaultMemoryRatio, 912680550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", tt.limit)
			t.Setenv("MEMORY_RATIO", tt.ratio)

			result := ConfigureFromEnv()

			if !result.Configured {
				t.Fatal("Expected Configured=true")
			}
			if result.Source != "MEMORY_LIMIT" {
				t.Errorf("Source = %q, want MEMORY_LIMIT", result.Source)
			}
			if result.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", result.Ratio, tt.wantRatio)
			}
			if result.GoMemLimit != tt.wantLimit {
				t.Errorf("GoMemLimit = %d, want %d", result.GoMemLimit, tt.wantLimit)
			}
			if got := CurrentLimit(); got != tt.wantLimit {
				t.Errorf("CurrentLimit() = %d, want %d", got, tt.wantLimit)
			}
		})
	}
}

func TestConfigureFromEnvInvalidLimit(t *testing.T) {
	for _, value := range []string{"lots", "-5", "0"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", value)

			result := ConfigureFromEnv()
			if result.Configured {
				t.Errorf("Expected Configured=false for MEMORY_LIMIT=%q", value)
			}
			if result.Source != "none" {
				t.Errorf("Source = %q, want none", result.Source)
			}
		})
	}
}

func TestConfigureFromEnvGoMemLimitTakesPrecedence(t *testing.T) {
	restoreLimit(t)
	debug.SetMemoryLimit(512 << 20)

	t.Setenv("GOMEMLIMIT", "512MiB")
	t.Setenv("MEMORY_LIMIT", "1073741824")

	result := ConfigureFromEnv()

	if result.Source != "GOMEMLIMIT" {
		t.Errorf("Source = %q, want GOMEMLIMIT", result.Source)
	}
	if result.GoMemLimit != 512<<20 {
		t.Errorf("GoMemLimit = %d, want %d", result.GoMemLimit, 512<<20)
	}
	if result.ContainerLimit != 0 {
		t.Errorf("ContainerLimit = %d, want 0 when GOMEMLIMIT wins", result.ContainerLimit)
	}
}
