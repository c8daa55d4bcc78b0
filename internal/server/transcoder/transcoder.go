// Package transcoder runs the external video transcoder on staged files.
package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/logging"
)

const (
	// DefaultRescaleFilter keeps the aspect ratio with an even height.
	DefaultRescaleFilter = "scale=640:-2"

	outputTailBytes = 2048
	waitDelay       = 5 * time.Second
)

// Range is a trim window in seconds from the start of the input.
type Range struct {
	Start float64
	End   float64
}

// Job describes one transcoder run. A nil Trim means rescale only.
type Job struct {
	Input  string
	Output string
	Trim   *Range
}

type Invoker interface {
	Transcode(ctx context.Context, job Job) error
}

// FFmpeg invokes an ffmpeg-compatible binary.
type FFmpeg struct {
	path          string
	timeout       time.Duration
	rescaleFilter string
	logger        logging.Logger
}

var _ Invoker = (*FFmpeg)(nil)

func NewFFmpeg(path string, timeout time.Duration, rescaleFilter string, logger logging.Logger) *FFmpeg {
	if rescaleFilter == "" {
		rescaleFilter = DefaultRescaleFilter
	}
	return &FFmpeg{
		path:          path,
		timeout:       timeout,
		rescaleFilter: rescaleFilter,
		logger:        logger.With("module", "transcoder"),
	}
}

// Args builds the command line for job.
func (f *FFmpeg) Args(job Job) []string {
	if job.Trim != nil {
		return []string{
			"-y",
			"-ss", formatSeconds(job.Trim.Start),
			"-to", formatSeconds(job.Trim.End),
			"-i", job.Input,
			"-c:v", "libx264",
			"-c:a", "aac",
			job.Output,
		}
	}
	return []string{"-y", "-i", job.Input, "-vf", f.rescaleFilter, job.Output}
}

// Transcode runs the binary and waits for it. The run is successful only if
// the process exits 0 and the output file exists. A run exceeding the
// configured timeout is killed and reported with context.DeadlineExceeded.
func (f *FFmpeg) Transcode(ctx context.Context, job Job) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	args := f.Args(job)
	cmd := exec.CommandContext(ctx, f.path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = waitDelay

	start := time.Now()
	f.logger.Debug(ctx, "transcoder started", "args", strings.Join(args, " "))
	err := cmd.Run()
	f.logger.Debug(ctx, "transcoder finished", "elapsed", time.Since(start), "output", tail(out.Bytes()))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("transcoder stopped after %s: %w", time.Since(start).Round(time.Millisecond), ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("transcoder exited with code %d: %s", exitErr.ExitCode(), tail(out.Bytes()))
		}
		return fmt.Errorf("run transcoder: %w", err)
	}

	st, err := os.Stat(job.Output)
	if err != nil {
		return fmt.Errorf("transcoder produced no output: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("transcoder output %s is a directory", job.Output)
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tail(b []byte) string {
	if len(b) > outputTailBytes {
		b = b[len(b)-outputTailBytes:]
	}
	return strings.TrimSpace(string(b))
}
