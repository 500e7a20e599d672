package cppcheck

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/farcloser/primordium/fault"
	"golang.org/x/sync/errgroup"
)

// LineHandler receives every line the analyzer prints, stdout and stderr alike.
type LineHandler func(line string)

// Runner launches the analyzer.
type Runner interface {
	Run(ctx context.Context, executable string, argv []string, handle LineHandler) error
}

// OSRunner runs the analyzer as a child process.
type OSRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// Run starts executable with argv and streams its output to handle. Calls to handle are
// serialized.
func (r OSRunner) Run(ctx context.Context, executable string, argv []string, handle LineHandler) error {
	slog.Debug("cppcheck.Run", "executable", executable, "arguments", len(argv), "stage", "start")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // the analyzer path and arguments are the whole point
	cmd := exec.CommandContext(ctx, executable, argv...)
	cmd.Dir = r.Dir

	// The process writes into in-memory pipes, so Wait owns the copy and WaitDelay bounds it even
	// when a grandchild keeps the descriptors open.
	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()

	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", fault.ErrCommandFailure, err)
	}

	var (
		mu    sync.Mutex
		group errgroup.Group
	)

	serialized := func(line string) {
		mu.Lock()
		defer mu.Unlock()

		handle(line)
	}

	drain := func(reader *io.PipeReader) func() error {
		return func() error {
			err := readLines(reader, serialized)
			// Unblocks the writer if reading stopped early.
			reader.CloseWithError(err)

			return err
		}
	}

	group.Go(drain(stdoutReader))
	group.Go(drain(stderrReader))

	err := cmd.Wait()

	stdoutWriter.Close()
	stderrWriter.Close()

	drainErr := group.Wait()

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("cppcheck.Run", "executable", executable, "stage", "timeout")

			return fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		slog.Debug("cppcheck.Run", "executable", executable, "stage", "error")

		return fmt.Errorf("%w: %w", fault.ErrCommandFailure, err)
	}

	if drainErr != nil {
		return fmt.Errorf("%w: analyzer output: %w", fault.ErrReadFailure, drainErr)
	}

	slog.Debug("cppcheck.Run", "executable", executable, "stage", "done")

	return nil
}

// readLines hands every line of reader to handle. Lines longer than maxLineSize are dropped
// and reading resumes at the next line.
func readLines(reader io.Reader, handle LineHandler) error {
	buffered := bufio.NewReaderSize(reader, readBufferSize)

	var (
		line      []byte
		oversized bool
	)

	for {
		chunk, more, err := buffered.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		if !oversized {
			if len(line)+len(chunk) > maxLineSize {
				oversized = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}

		if more {
			continue
		}

		if oversized {
			slog.Warn("skipping oversized analyzer output line", "limit", maxLineSize)
		} else {
			handle(string(line))
		}

		line = line[:0]
		oversized = false
	}
}
