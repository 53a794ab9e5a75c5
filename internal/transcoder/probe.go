package transcoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"video-upscaler/internal/filesystem"
	"video-upscaler/internal/logging"
	"video-upscaler/internal/media"
)

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	Duration     string `json:"duration"`
	Disposition  struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// Probe retrieves dimensions, duration, frame rate and audio presence of a
// video file. Any failure is a *media.MetadataError.
func (t *Transcoder) Probe(ctx context.Context, path string) (info *media.VideoInfo, err error) {
	start := time.Now()
	defer func() {
		observe().ObserveProbe(time.Since(start).Seconds(), err)
	}()

	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, &media.MetadataError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logging.Warn("failed to close %s: %v", path, cerr)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, &media.MetadataError{Path: path, Reason: "cannot stat file", Err: err}
	}
	if stat.IsDir() {
		return nil, &media.MetadataError{Path: path, Reason: "is a directory"}
	}

	output, err := t.runProbe(ctx, path)
	if err != nil {
		return nil, &media.MetadataError{Path: path, Reason: "ffprobe failed", Err: err}
	}

	info, err = parseProbeOutput(output)
	if err != nil {
		return nil, &media.MetadataError{Path: path, Reason: "unusable probe output", Err: err}
	}
	info.FileSize = stat.Size()

	logging.Debug("Probed %s: %dx%d %s, %.2fs, %.3g fps, audio=%v",
		path, info.Width, info.Height, info.Codec, info.Duration, info.FrameRate, info.HasAudio)
	return info, nil
}

func (t *Transcoder) runProbe(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w - %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// parseProbeOutput extracts VideoInfo from ffprobe JSON. The first video
// stream with positive dimensions is used; attached pictures (cover art)
// are not video tracks.
func parseProbeOutput(data []byte) (*media.VideoInfo, error) {
	var ff ffprobeOutput
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, err
	}

	info := &media.VideoInfo{}
	var video *ffprobeStream
	for i := range ff.Streams {
		s := &ff.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil && s.Width > 0 && s.Height > 0 && s.Disposition.AttachedPic == 0 {
				video = s
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if video == nil {
		return nil, errors.New("no decodable video track")
	}

	info.Width = video.Width
	info.Height = video.Height
	info.Codec = video.CodecName

	info.Duration = parseDuration(ff.Format.Duration)
	if info.Duration <= 0 {
		info.Duration = parseDuration(video.Duration)
	}

	info.FrameRate = parseFrameRate(video.AvgFrameRate)
	if info.FrameRate <= 0 {
		info.FrameRate = parseFrameRate(video.RFrameRate)
	}
	if info.FrameRate <= 0 {
		info.FrameRate = media.DefaultFrameRate
	}

	return info, nil
}

func parseDuration(s string) float64 {
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}

// parseFrameRate parses "30000/1001" or "25". "0/0" and garbage yield 0.
func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f <= 0 {
			return 0
		}
		return f
	}

	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 {
		return 0
	}
	return n / d
}
