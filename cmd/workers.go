package cmd

import "runtime"

// startupConcurrency bounds how many readers may be in their
// open+autoconfigure+seek startup phase at once. Every reader
// eventually runs as its own permanent goroutine (spec.md §5: one
// thread per reader, for the whole run), unlike the teacher's
// determineWorkerCount, which sized a bounded worker pool that
// processed-then-discarded files. Adapted here to avoid a thundering
// herd of simultaneous file opens/stats when a single invocation tails
// a very large number of files.
func startupConcurrency(numFiles int) int {
	if numFiles <= 1 {
		return 1
	}

	maxWorkers := runtime.NumCPU() * 4
	if maxWorkers < 8 {
		maxWorkers = 8
	}
	if maxWorkers > 64 {
		maxWorkers = 64
	}

	if numFiles < maxWorkers {
		return numFiles
	}
	return maxWorkers
}
