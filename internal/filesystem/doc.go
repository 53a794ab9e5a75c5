/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for NFS stale file handle errors.

Source videos and output artifacts frequently live on network mounts. Opening a
source for probing, and writing the finished artifact, both go through this
package so that a transient ESTALE (errno 116) does not fail a run that would
otherwise succeed.

# Key Features

  - Automatic retry with exponential backoff for NFS ESTALE errors
  - Configurable retry attempts (default: 3) and backoff timings
  - Transparent fallback to standard os operations for non-NFS errors
  - Atomic artifact writes (temp file in the target directory, fsync, rename)

# Usage

	file, err := filesystem.OpenWithRetry("/nfs/videos/clip.mp4", filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}
	defer file.Close()

	err = filesystem.WriteFileAtomic("/nfs/out/upscaled-4K.webm", artifact, 0o644, filesystem.DefaultRetryConfig())

# Metrics

Retry activity is reported through an Observer registered with SetObserver.
The metrics package provides the Prometheus implementation; when no observer
is set, nothing is recorded (safe for tests).
*/
package filesystem
