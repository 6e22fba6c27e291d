package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// File owns one open log file: the underlying os.File plus an optional
// decompressor layered on top. It implements record.LineSource and
// record.Prober structurally.
type File struct {
	path    string
	raw     *os.File
	codec   *codec
	reader  io.ReadCloser // raw or decompressed, whichever is being read from
	br      *bufio.Reader
	pos     int64
	identity string
}

// Open opens path for tailing. A ".gz" suffix is transparently
// gunzipped with parallel decompression; ".zst"/".zstd" transparently
// decompressed with zstd. Any other extension is read as plain bytes.
// Open errors are always propagated (spec.md §4.B / §7 OpenFailed).
func Open(path string) (*File, error) {
	raw, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := raw.Stat()
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	id, err := identityFor(info)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("identity %s: %w", path, err)
	}

	f := &File{path: path, raw: raw, codec: codecFor(path), identity: id}
	if err := f.rewrap(); err != nil {
		raw.Close()
		return nil, err
	}
	return f, nil
}

// rewrap (re)builds the decompressing reader (if any) and buffered
// reader on top of the current os.File position. Call after any raw
// seek.
func (f *File) rewrap() error {
	if f.reader != nil && f.reader != io.ReadCloser(f.raw) {
		f.reader.Close()
	}
	if f.codec == nil {
		f.reader = f.raw
	} else {
		r, err := f.codec.open(f.raw)
		if err != nil {
			return fmt.Errorf("open codec for %s: %w", f.path, err)
		}
		f.reader = r
	}
	f.br = bufio.NewReaderSize(f.reader, 64*1024)
	return nil
}

// Identity returns the file's "{dev:x}g{ino:x}" identity string as of
// the last open/reopen or SetIdentity call.
func (f *File) Identity() string { return f.identity }

// SetIdentity overrides the believed identity without touching the
// open file descriptor. Used when resuming from a checkpoint: the
// reader must adopt the checkpointed identity (not the identity
// observed at open time) so that the first housekeeping tick correctly
// detects a rotation that happened while the process was stopped.
func (f *File) SetIdentity(id string) { f.identity = id }

// Path returns the path this File was opened from.
func (f *File) Path() string { return f.path }

// Tell returns the current position in the decompressed byte stream.
func (f *File) Tell() int64 { return f.pos }

// Size returns the on-disk size of the underlying file. For compressed
// files this is the compressed size, not the decompressed length — an
// approximation the chunked positioning algorithms treat as an upper
// bound on the decompressed stream, matching the same approximation in
// original_source/logreader.py (which stats the underlying fd of a
// transparently-decompressing file object).
func (f *File) Size() (int64, error) {
	info, err := f.raw.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// SeekStart seeks to the beginning of the decompressed stream.
func (f *File) SeekStart() error { return f.SeekAbsolute(0) }

// SeekAbsolute seeks to an absolute offset in the decompressed byte
// stream. For plain files this is a native seek; for compressed files,
// seeking backward (or to an earlier-than-current offset) reopens the
// decompressor from the start and discards bytes forward, since gzip
// and zstd streams do not support native random access.
func (f *File) SeekAbsolute(offset int64) error {
	if f.codec == nil {
		if _, err := f.raw.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("seek %s: %w", f.path, err)
		}
		if err := f.rewrap(); err != nil {
			return err
		}
		f.pos = offset
		return nil
	}

	if offset < f.pos {
		if _, err := f.raw.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("seek %s: %w", f.path, err)
		}
		if err := f.rewrap(); err != nil {
			return err
		}
		f.pos = 0
	}
	toDiscard := offset - f.pos
	if toDiscard > 0 {
		n, err := io.CopyN(io.Discard, f.br, toDiscard)
		f.pos += n
		if err != nil && err != io.EOF {
			return fmt.Errorf("seek-discard %s: %w", f.path, err)
		}
	}
	return nil
}

// Unread seeks backward by exactly n bytes, implementing
// record.LineSource's put-back contract.
func (f *File) Unread(n int64) error {
	return f.SeekAbsolute(f.pos - n)
}

// ReadChunk reads up to n bytes forward from the current position,
// advancing it. Returns fewer bytes (and no error) at EOF. Used by the
// Positioner's chunked tail-N and seek-to-time scans, which need raw
// byte windows rather than line-delimited reads.
func (f *File) ReadChunk(n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		m, err := f.br.Read(buf[read:])
		read += m
		f.pos += int64(m)
		if err != nil {
			if err == io.EOF {
				return buf[:read], nil
			}
			return buf[:read], fmt.Errorf("read chunk %s: %w", f.path, err)
		}
		if m == 0 {
			break
		}
	}
	return buf[:read], nil
}

// ReadLine reads the next newline-terminated line (without the
// newline). At true EOF it returns ("", false, nil).
func (f *File) ReadLine() (string, bool, error) {
	line, err := f.br.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			if line == "" {
				return "", false, nil
			}
			f.pos += int64(len(line))
			return line, false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", f.path, err)
	}
	f.pos += int64(len(line))
	return line[:len(line)-1], true, nil
}

// Reopen closes the current handle and reopens the path fresh, for use
// after a rotation has been detected. The new identity is returned.
func (f *File) Reopen() (string, error) {
	nf, err := Open(f.path)
	if err != nil {
		return "", err
	}
	f.Close()
	*f = *nf
	return f.identity, nil
}

// Close releases the decompressor (if any) and the underlying file.
func (f *File) Close() error {
	if f.reader != nil && f.reader != io.ReadCloser(f.raw) {
		f.reader.Close()
	}
	return f.raw.Close()
}
