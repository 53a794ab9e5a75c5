package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"video-upscaler/internal/media"
	"video-upscaler/internal/memory"
	"video-upscaler/internal/pipeline"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}
			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"yes", true, true},
		{"yes", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := getEnvBool("TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.def, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	if got := getEnvInt("TEST_INT", 3); got != 12 {
		t.Errorf("Expected 12, got %d", got)
	}
	t.Setenv("TEST_INT", "twelve")
	if got := getEnvInt("TEST_INT", 3); got != 3 {
		t.Errorf("Expected default 3, got %d", got)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FFMPEG_PATH", "FFPROBE_PATH", "CHUNK_INTERVAL", "FRAME_QUEUE",
		"SCALER", "OUTPUT_DIR", "KEEP_AUDIO", "METRICS_ENABLED", "METRICS_PORT"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" {
		t.Errorf("Unexpected binaries %q %q", cfg.FFmpegPath, cfg.FFprobePath)
	}
	if cfg.ChunkInterval != pipeline.DefaultChunkInterval {
		t.Errorf("Expected chunk interval %v, got %v", pipeline.DefaultChunkInterval, cfg.ChunkInterval)
	}
	if cfg.FrameQueue != 0 {
		t.Errorf("Expected automatic frame queue, got %d", cfg.FrameQueue)
	}
	if cfg.Scaler != media.DefaultScaler {
		t.Errorf("Expected scaler %s, got %s", media.DefaultScaler, cfg.Scaler)
	}
	if !cfg.KeepAudio {
		t.Error("Expected audio to be kept by default")
	}
	if cfg.MetricsEnabled {
		t.Error("Expected metrics disabled by default")
	}
	if cfg.MetricsPort != "9090" {
		t.Errorf("Expected metrics port 9090, got %s", cfg.MetricsPort)
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		t.Errorf("Expected absolute output dir, got %s", cfg.OutputDir)
	}
	if cfg.EncoderThreads < 1 {
		t.Errorf("Expected at least one encoder thread, got %d", cfg.EncoderThreads)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Setenv("CHUNK_INTERVAL", "250ms")
	t.Setenv("FRAME_QUEUE", "6")
	t.Setenv("SCALER", "CatmullRom")
	t.Setenv("OUTPUT_DIR", dir)
	t.Setenv("KEEP_AUDIO", "false")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("ENCODER_THREADS", "3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.ChunkInterval != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", cfg.ChunkInterval)
	}
	if cfg.FrameQueue != 6 {
		t.Errorf("Expected frame queue 6, got %d", cfg.FrameQueue)
	}
	if cfg.Scaler != "catmullrom" {
		t.Errorf("Expected catmullrom, got %s", cfg.Scaler)
	}
	if cfg.OutputDir != dir {
		t.Errorf("Expected output dir %s, got %s", dir, cfg.OutputDir)
	}
	if cfg.KeepAudio || !cfg.MetricsEnabled {
		t.Errorf("Boolean overrides not applied: keepAudio=%v metrics=%v", cfg.KeepAudio, cfg.MetricsEnabled)
	}
	if cfg.EncoderThreads != 3 {
		t.Errorf("Expected 3 encoder threads, got %d", cfg.EncoderThreads)
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CHUNK_INTERVAL", "soon")
	t.Setenv("FRAME_QUEUE", "-2")
	t.Setenv("SCALER", "lanczos9")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.ChunkInterval != pipeline.DefaultChunkInterval {
		t.Errorf("Expected default chunk interval, got %v", cfg.ChunkInterval)
	}
	if cfg.FrameQueue != 0 {
		t.Errorf("Expected automatic frame queue, got %d", cfg.FrameQueue)
	}
	if cfg.Scaler != media.DefaultScaler {
		t.Errorf("Expected default scaler, got %s", cfg.Scaler)
	}
}

func TestPrepareOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if err := PrepareOutputDir(dir); err != nil {
		t.Fatalf("PrepareOutputDir() error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected directory to be created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Error("Write test file was not removed")
	}
}

func TestPrepareOutputDirNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := PrepareOutputDir(file); err == nil {
		t.Error("Expected error for a regular file")
	}
}

func TestCheckToolsMissingBinary(t *testing.T) {
	cfg := &Config{FFprobePath: filepath.Join(t.TempDir(), "no-ffprobe"), FFmpegPath: "ffmpeg"}
	if err := CheckTools(cfg, false); err == nil {
		t.Error("Expected error for a missing ffprobe")
	}
}

func TestLogMemoryConfig(_ *testing.T) {
	LogMemoryConfig(memory.ConfigResult{Source: "none"})
	LogMemoryConfig(memory.ConfigResult{Configured: true, Source: "GOMEMLIMIT", GoMemLimit: 1 << 30})
	LogMemoryConfig(memory.ConfigResult{Configured: true, Source: "MEMORY_LIMIT", GoMemLimit: 850 << 20, ContainerLimit: 1 << 30, Ratio: 0.85})
}
