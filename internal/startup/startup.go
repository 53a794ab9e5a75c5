package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
	"video-upscaler/internal/memory"
	"video-upscaler/internal/pipeline"
	"video-upscaler/internal/workers"

	"github.com/dustin/go-humanize"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	FFmpegPath     string
	FFprobePath    string
	ChunkInterval  time.Duration
	FrameQueue     int
	Scaler         string
	OutputDir      string
	KeepAudio      bool
	EncoderThreads int
	MetricsEnabled bool
	MetricsPort    string
}

// LoadConfig loads and validates configuration from environment variables.
// The configuration banner is logged at debug level so that a normal CLI
// invocation stays quiet.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Debug("------------------------------------------------------------")
	logging.Debug("CONFIGURATION")
	logging.Debug("------------------------------------------------------------")

	ffmpegPath := getEnv("FFMPEG_PATH", "ffmpeg")
	ffprobePath := getEnv("FFPROBE_PATH", "ffprobe")
	chunkIntervalStr := getEnv("CHUNK_INTERVAL", pipeline.DefaultChunkInterval.String())
	frameQueue := getEnvInt("FRAME_QUEUE", 0)
	scaler := strings.ToLower(getEnv("SCALER", media.DefaultScaler))
	outputDir := getEnv("OUTPUT_DIR", ".")
	keepAudio := getEnvBool("KEEP_AUDIO", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", false)
	metricsPort := getEnv("METRICS_PORT", "9090")
	threads := workers.ForCPU(0)

	logging.Debug("  FFMPEG_PATH:         %s", ffmpegPath)
	logging.Debug("  FFPROBE_PATH:        %s", ffprobePath)
	logging.Debug("  CHUNK_INTERVAL:      %s", chunkIntervalStr)
	logging.Debug("  FRAME_QUEUE:         %s", frameQueueString(frameQueue))
	logging.Debug("  SCALER:              %s", scaler)
	logging.Debug("  OUTPUT_DIR:          %s", outputDir)
	logging.Debug("  KEEP_AUDIO:          %v", keepAudio)
	logging.Debug("  ENCODER_THREADS:     %d", threads)
	logging.Debug("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Debug("  METRICS_PORT:        %s", metricsPort)
	logging.Debug("  LOG_LEVEL:           %s", logging.GetLevel())

	chunkInterval, err := time.ParseDuration(chunkIntervalStr)
	if err != nil || chunkInterval <= 0 {
		logging.Warn("Invalid CHUNK_INTERVAL %q, using default: %s", chunkIntervalStr, pipeline.DefaultChunkInterval)
		chunkInterval = pipeline.DefaultChunkInterval
	}

	if frameQueue < 0 {
		logging.Warn("Invalid FRAME_QUEUE %d, using automatic sizing", frameQueue)
		frameQueue = 0
	}

	if !slices.Contains(media.ScalerNames(), scaler) {
		logging.Warn("Unknown SCALER %q, using default: %s", scaler, media.DefaultScaler)
		scaler = media.DefaultScaler
	}

	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory path: %w", err)
	}
	logging.Debug("  Output directory (absolute): %s", outputDir)

	return &Config{
		FFmpegPath:     ffmpegPath,
		FFprobePath:    ffprobePath,
		ChunkInterval:  chunkInterval,
		FrameQueue:     frameQueue,
		Scaler:         scaler,
		OutputDir:      outputDir,
		KeepAudio:      keepAudio,
		EncoderThreads: threads,
		MetricsEnabled: metricsEnabled,
		MetricsPort:    metricsPort,
	}, nil
}

// PrepareOutputDir creates the output directory if needed and checks that
// it is writable.
func PrepareOutputDir(dir string) error {
	if err := ensureDirectory(dir, "output"); err != nil {
		return err
	}
	if err := testWriteAccess(dir); err != nil {
		return fmt.Errorf("output directory is not writable: %w", err)
	}
	logging.Debug("  [OK] Output directory is writable")
	return nil
}

// CheckTools verifies that ffprobe, and ffmpeg when needed, can be run.
func CheckTools(cfg *Config, needFFmpeg bool) error {
	if err := checkBinary(cfg.FFprobePath); err != nil {
		return err
	}
	if needFFmpeg {
		return checkBinary(cfg.FFmpegPath)
	}
	return nil
}

// LogMemoryConfig logs the outcome of memory.ConfigureFromEnv.
func LogMemoryConfig(result memory.ConfigResult) {
	if !result.Configured {
		logging.Debug("  Memory limit: not configured (frame queue uses default depth)")
		return
	}
	if result.ContainerLimit > 0 {
		logging.Debug("  Memory limit: %s of %s container limit (ratio %.2f, via %s)",
			humanize.IBytes(uint64(result.GoMemLimit)), humanize.IBytes(uint64(result.ContainerLimit)), result.Ratio, result.Source)
		return
	}
	logging.Debug("  Memory limit: %s (via %s)", humanize.IBytes(uint64(result.GoMemLimit)), result.Source)
}

// LogMetricsServerStarted logs the status server endpoints.
func LogMetricsServerStarted(port string) {
	logging.Info("Status server listening on :%s (/metrics, /health, /status)", port)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Debug("Shutdown initiated (received %s)", signal)
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Debug("  [OK] %s", step)
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func frameQueueString(n int) string {
	if n <= 0 {
		return "auto"
	}
	return strconv.Itoa(n)
}

func printBanner() {
	logging.Debug("------------------------------------------------------------")
	logging.Debug("VIDEO UPSCALER")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  Version:    %s", Version)
	logging.Debug("  Commit:     %s", Commit)
	logging.Debug("  Build Time: %s", BuildTime)
	logging.Debug("  Started:    %s", time.Now().Format(time.RFC1123))
}

func logSystemInfo() {
	if !logging.IsDebugEnabled() {
		return
	}
	logging.Debug("------------------------------------------------------------")
	logging.Debug("SYSTEM INFORMATION")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  Go version:      %s", runtime.Version())
	logging.Debug("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Debug("  CPUs available:  %d", runtime.NumCPU())
	logging.Debug("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Debug("  (Container CPU limit detected)")
	}

	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func checkBinary(name string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", name)
	}
	logging.Debug("  %s path: %s", filepath.Base(name), path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", name, err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s", strings.TrimSpace(lines[0]))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
