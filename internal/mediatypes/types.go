package mediatypes

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output container choice.
type Format string

const (
	// FormatWebM is a WebM container carrying VP9 video and Opus audio.
	FormatWebM Format = "webm"
	// FormatMP4 is an MP4 container carrying H.264 video and Opus audio.
	FormatMP4 Format = "mp4"
)

// Codec identifies an elementary stream codec.
type Codec string

const (
	// CodecVP9 is Google VP9 video.
	CodecVP9 Codec = "vp9"
	// CodecH264 is AVC/H.264 video.
	CodecH264 Codec = "h264"
	// CodecOpus is Opus audio.
	CodecOpus Codec = "opus"
)

type formatInfo struct {
	video       Codec
	audio       Codec
	contentType string
}

var formats = map[Format]formatInfo{
	FormatWebM: {video: CodecVP9, audio: CodecOpus, contentType: "video/webm"},
	FormatMP4:  {video: CodecH264, audio: CodecOpus, contentType: "video/mp4"},
}

// Formats returns every supported output format.
func Formats() []Format {
	return []Format{FormatWebM, FormatMP4}
}

// ParseFormat converts text such as "webm", "MP4" or ".mp4" into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if !f.Valid() {
		return "", fmt.Errorf("unsupported output format %q (supported: webm, mp4)", s)
	}
	return f, nil
}

// Valid reports whether f is a supported output format.
func (f Format) Valid() bool {
	_, ok := formats[f]
	return ok
}

func (f Format) String() string {
	return string(f)
}

// Container returns the container (muxer) name.
func (f Format) Container() string {
	return string(f)
}

// VideoCodec returns the video codec carried by the container.
func (f Format) VideoCodec() Codec {
	return formats[f].video
}

// AudioCodec returns the audio codec carried by the container.
func (f Format) AudioCodec() Codec {
	return formats[f].audio
}

// ContentType returns the bare MIME type of the container, e.g. "video/webm".
func (f Format) ContentType() string {
	if fi, ok := formats[f]; ok {
		return fi.contentType
	}
	return "application/octet-stream"
}

// MIMEType returns the MIME type with its codecs parameter,
// e.g. "video/webm;codecs=vp9,opus".
func (f Format) MIMEType() string {
	fi, ok := formats[f]
	if !ok {
		return "application/octet-stream"
	}
	return fmt.Sprintf("%s;codecs=%s,%s", fi.contentType, fi.video, fi.audio)
}

// Extension returns the file extension with its leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// VideoExtensions maps file extensions to whether they are recognised video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
	".ogv":  true,
}

// IsVideoFile reports whether path has a recognised video extension.
func IsVideoFile(path string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(path))]
}
