// Package position implements the chunked tail-N and seek-to-time
// positioning strategies, translated directly from
// original_source/logreader.py's _seek_tail and _seek_time.
package position

import (
	"bytes"
	"strings"
)

const chunkSize = 1024

// sentinelGreaterThanAny compares greater than any real 23-char
// timestamp string under lexicographic ordering (it is longer than,
// and lexicographically after, any digit/punctuation-only 23-char
// timestamp), satisfying the seek-to-time sentinel property required
// by spec.md §9.
const sentinelGreaterThanAny = "greater than any time string"

// File is the subset of source.File the Positioner needs.
type File interface {
	SeekAbsolute(offset int64) error
	ReadChunk(n int) ([]byte, error)
	Size() (int64, error)
	Unread(n int64) error
}

// Positioner drives tail-N and seek-to-time scans over a File.
type Positioner struct {
	file File
}

func New(file File) *Positioner {
	return &Positioner{file: file}
}

func chunkCount(size int64) int64 {
	n := size / chunkSize
	if size%chunkSize != 0 {
		n++
	}
	return n
}

// SeekTail seeks to the start of the tailLength-th-from-last header
// line, working backward in fixed 1024-byte chunks. Continuation lines
// never count toward tailLength. If fewer than tailLength header lines
// exist, seeks to 0.
func (p *Positioner) SeekTail(tailLength int) error {
	size, err := p.file.Size()
	if err != nil {
		return err
	}
	count := chunkCount(size)

	var chunk []byte
	newlineCount := 0
	previousNewline := -1 // -1 means "no retained remainder", matching Python's None

	for iteration, chunkIndex := int64(0), count-1; chunkIndex >= 0; iteration, chunkIndex = iteration+1, chunkIndex-1 {
		if err := p.file.SeekAbsolute(chunkIndex * chunkSize); err != nil {
			return err
		}
		read, err := p.file.ReadChunk(chunkSize)
		if err != nil {
			return err
		}

		var lineTail []byte
		if previousNewline >= 0 {
			lineTail = chunk[:previousNewline]
		}
		chunk = append(append([]byte{}, read...), lineTail...)

		if iteration == 0 {
			previousNewline = bytes.LastIndexByte(chunk, '\n')
		} else {
			previousNewline = -1
		}

		currentNewline := lastIndexBefore(chunk, previousNewline)
		for currentNewline != -1 {
			lineEnd := previousNewline
			if lineEnd < 0 {
				lineEnd = len(chunk)
			}
			line := string(chunk[currentNewline+1 : lineEnd])

			if !isContinuationLine(line) {
				newlineCount++
				if newlineCount >= tailLength {
					return p.file.SeekAbsolute(chunkIndex*chunkSize + int64(currentNewline) + 1)
				}
			}

			previousNewline = currentNewline
			currentNewline = lastIndexBefore(chunk, previousNewline)
		}
	}
	return p.file.SeekAbsolute(0)
}

// lastIndexBefore returns the last index of '\n' in chunk strictly
// before limit (limit<0 means "search the whole chunk"), or -1.
func lastIndexBefore(chunk []byte, limit int) int {
	if limit < 0 {
		return bytes.LastIndexByte(chunk, '\n')
	}
	if limit == 0 {
		return -1
	}
	return bytes.LastIndexByte(chunk[:limit], '\n')
}

// isContinuationLine is the pure classification the positioner needs:
// any line that is not a header line. It does not need a Parser
// Config, since header classification never depends on column layout.
func isContinuationLine(line string) bool {
	return !isHeaderLine(line)
}

func isHeaderLine(line string) bool {
	if len(line) <= 23 {
		return false
	}
	return line[0:2] == "20" && line[23] == ' '
}

func timestampOf(line string) string {
	if len(line) < 23 {
		return line
	}
	return line[:23]
}

// SeekTime binary-searches chunk indices for the first chunk whose
// first complete header line's timestamp is >= target, then linearly
// scans that chunk to land exactly on the first such header line,
// seeking back over it so the reader re-reads it as its first record.
func (p *Positioner) SeekTime(target string) error {
	size, err := p.file.Size()
	if err != nil {
		return err
	}
	count := chunkCount(size)

	firstTimestampInChunk := func(chunkIndex int64) (string, error) {
		if err := p.file.SeekAbsolute(chunkIndex * chunkSize); err != nil {
			return "", err
		}
		for {
			line, complete, err := p.readLineFromChunkScan()
			if err != nil {
				return "", err
			}
			if !complete {
				return sentinelGreaterThanAny, nil
			}
			if isContinuationLine(line) {
				continue
			}
			return timestampOf(line), nil
		}
	}

	var search func(start, stop int64) (int64, error)
	search = func(start, stop int64) (int64, error) {
		if start+1 == stop {
			return start, nil
		}
		pivot := (start + stop) / 2
		ts, err := firstTimestampInChunk(pivot)
		if err != nil {
			return 0, err
		}
		if ts > target {
			return search(start, pivot)
		}
		return search(pivot, stop)
	}

	targetChunk, err := search(0, count+1)
	if err != nil {
		return err
	}
	return p.seekTimeInChunk(targetChunk*chunkSize, target)
}

// seekTimeInChunk linearly scans forward from byte offset start,
// skipping continuation lines, stopping at the first header line whose
// timestamp >= target and seeking back over it. If the scan exhausts
// the stream without a match, leaves the position at EOF.
func (p *Positioner) seekTimeInChunk(start int64, target string) error {
	if err := p.file.SeekAbsolute(start); err != nil {
		return err
	}
	for {
		line, complete, err := p.readLineFromChunkScan()
		if err != nil {
			return err
		}
		if !complete {
			size, err := p.file.Size()
			if err != nil {
				return err
			}
			return p.file.SeekAbsolute(size)
		}
		if isContinuationLine(line) {
			continue
		}
		if timestampOf(line) >= target {
			return p.file.Unread(int64(len(line) + 1))
		}
	}
}

// readLineFromChunkScan reads one newline-terminated line using raw
// chunked reads (byte at a time would be slow; we read in chunkSize
// windows and scan for '\n'). complete is false when the stream ended
// before a newline was found.
func (p *Positioner) readLineFromChunkScan() (line string, complete bool, err error) {
	var b strings.Builder
	for {
		buf, err := p.file.ReadChunk(chunkSize)
		if err != nil {
			return "", false, err
		}
		if idx := bytes.IndexByte(buf, '\n'); idx >= 0 {
			b.Write(buf[:idx])
			// put back everything after the newline
			if err := p.file.Unread(int64(len(buf) - idx - 1)); err != nil {
				return "", false, err
			}
			return b.String(), true, nil
		}
		b.Write(buf)
		if len(buf) == 0 {
			return b.String(), false, nil
		}
	}
}
