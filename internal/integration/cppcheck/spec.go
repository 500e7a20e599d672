package cppcheck

import "time"

const (
	name = "cppcheck"
	// Whole-project runs on large code bases take a while, even with -j.
	timeout = 30 * time.Minute
	// cppcheck messages can embed long expressions.
	maxLineSize    = 1 << 20
	readBufferSize = 64 * 1024
	// Grace period for output still held open by descendants once the analyzer is gone.
	waitDelay = 5 * time.Second
)

// Name is the analyzer executable name looked up on PATH.
func Name() string {
	return name
}
