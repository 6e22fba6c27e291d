// Package source owns one log file at a time: opening it (transparently
// decompressing gzip/zstd), tracking its (device, inode) identity, and
// exposing line-oriented, seekable reads to the parser and positioner.
package source

import (
	"io"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// codec opens a decompressing reader over a raw byte stream. The zero
// value (nil Open) means "no decompression" — used for plain files.
type codec struct {
	suffixes []string
	open     func(io.Reader) (io.ReadCloser, error)
}

// codecs is the dispatch table, grounded on the teacher's
// parser/compression.go compressionCodec table (gzipCodec/zstdCodec).
var codecs = []codec{
	{
		suffixes: []string{".gz"},
		open: func(r io.Reader) (io.ReadCloser, error) {
			// Parallel gzip decompression, mirroring the teacher's
			// newParallelGzipReader: GOMAXPROCS-derived worker count
			// clamped to [1,8], 1 MiB blocks.
			n := runtime.GOMAXPROCS(0)
			if n < 1 {
				n = 1
			}
			if n > 8 {
				n = 8
			}
			return pgzip.NewReaderN(r, 1<<20, n)
		},
	},
	{
		suffixes: []string{".zst", ".zstd"},
		open: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return zstdReadCloser{dec}, nil
		},
	},
}

// zstdReadCloser adapts *zstd.Decoder (whose Close returns nothing) to
// io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// codecFor returns the codec for path's extension, or nil for a plain
// file.
func codecFor(path string) *codec {
	lower := strings.ToLower(path)
	for i := range codecs {
		for _, suf := range codecs[i].suffixes {
			if strings.HasSuffix(lower, suf) {
				return &codecs[i]
			}
		}
	}
	return nil
}
