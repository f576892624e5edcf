package tinyc

import (
	"errors"
	"io"
	"os"
	"strings"
)

// FileHandle is the shared state behind a file value. Every copy of the value
// points at the same handle, so closing it invalidates all of them.
type FileHandle struct {
	name   string
	reader io.Reader
	writer io.Writer
	seeker io.Seeker
	closer io.Closer

	eof    bool
	err    bool
	closed bool
}

type openMode struct {
	flag     int
	readable bool
	writable bool
}

// fopen modes. "w" opens read-write so a program can write, rewind and read
// back through one handle.
var openModes = map[string]openMode{
	"r":  {flag: os.O_RDONLY, readable: true},
	"r+": {flag: os.O_RDWR, readable: true, writable: true},
	"w":  {flag: os.O_RDWR | os.O_CREATE | os.O_TRUNC, readable: true, writable: true},
	"w+": {flag: os.O_RDWR | os.O_CREATE | os.O_TRUNC, readable: true, writable: true},
	"a":  {flag: os.O_WRONLY | os.O_CREATE | os.O_APPEND, writable: true},
	"a+": {flag: os.O_RDWR | os.O_CREATE | os.O_APPEND, readable: true, writable: true},
}

func parseOpenMode(mode string) (openMode, bool) {
	m, ok := openModes[strings.ReplaceAll(mode, "b", "")]
	return m, ok
}

func openFileHandle(fsys FileSystem, path, mode string) (*FileHandle, error) {
	m, ok := parseOpenMode(mode)
	if !ok {
		return nil, errorf(ErrIO, "invalid mode %q", mode)
	}
	f, err := fsys.OpenFile(path, m.flag, 0o644)
	if err != nil {
		return nil, err
	}
	h := &FileHandle{name: path, seeker: f, closer: f}
	if m.readable {
		h.reader = f
	}
	if m.writable {
		h.writer = f
	}
	return h, nil
}

func newConsoleHandle(name string, r io.Reader, w io.Writer) *FileHandle {
	return &FileHandle{name: name, reader: r, writer: w}
}

func (h *FileHandle) Name() string { return h.name }

func (h *FileHandle) Closed() bool { return h.closed }

// AtEOF reports whether a read has observed the end of the stream.
func (h *FileHandle) AtEOF() bool { return h.eof }

// HasError reports whether a read or write failure has been recorded.
func (h *FileHandle) HasError() bool { return h.err }

func (h *FileHandle) checkOpen(op string) error {
	if h.closed {
		return errorf(ErrClosedHandle, "%s on closed file %s", op, h.name)
	}
	return nil
}

// Getc reads one byte. ok is false at end of file or on a read failure;
// the eof or error flag records which.
func (h *FileHandle) Getc() (b byte, ok bool, err error) {
	if err := h.checkOpen("read"); err != nil {
		return 0, false, err
	}
	if h.reader == nil {
		h.err = true
		return 0, false, nil
	}
	var buf [1]byte
	for {
		n, rerr := h.reader.Read(buf[:])
		if n == 1 {
			return buf[0], true, nil
		}
		if errors.Is(rerr, io.EOF) {
			h.eof = true
			return 0, false, nil
		}
		if rerr != nil {
			h.err = true
			return 0, false, nil
		}
	}
}

// Gets reads through the next newline, which is kept. ok is false when
// nothing could be read.
func (h *FileHandle) Gets() (line string, ok bool, err error) {
	var sb strings.Builder
	for {
		b, got, err := h.Getc()
		if err != nil {
			return "", false, err
		}
		if !got {
			if sb.Len() == 0 {
				return "", false, nil
			}
			return sb.String(), true, nil
		}
		sb.WriteByte(b)
		if b == '\n' {
			return sb.String(), true, nil
		}
	}
}

func (h *FileHandle) WriteText(s string) error {
	if err := h.checkOpen("write"); err != nil {
		return err
	}
	if h.writer == nil {
		h.err = true
		return errorf(ErrIO, "%s is not open for writing", h.name)
	}
	if _, err := io.WriteString(h.writer, s); err != nil {
		h.err = true
		return errorf(ErrIO, "write %s: %v", h.name, err)
	}
	return nil
}

// Tell returns the current offset, or -1 when the stream cannot seek.
func (h *FileHandle) Tell() (int64, error) {
	if err := h.checkOpen("ftell"); err != nil {
		return 0, err
	}
	if h.seeker == nil {
		return -1, nil
	}
	off, err := h.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		h.err = true
		return -1, nil
	}
	return off, nil
}

// SeekTo repositions the stream relative to whence (0 start, 1 current, 2 end)
// and clears the eof flag on success.
func (h *FileHandle) SeekTo(offset int64, whence int) (bool, error) {
	if err := h.checkOpen("fseek"); err != nil {
		return false, err
	}
	if h.seeker == nil || whence < io.SeekStart || whence > io.SeekEnd {
		return false, nil
	}
	if _, err := h.seeker.Seek(offset, whence); err != nil {
		return false, nil
	}
	h.eof = false
	return true, nil
}

func (h *FileHandle) Rewind() error {
	if _, err := h.SeekTo(0, io.SeekStart); err != nil {
		return err
	}
	h.ClearErr()
	return nil
}

func (h *FileHandle) ClearErr() {
	h.eof = false
	h.err = false
}

func (h *FileHandle) Flush() error {
	if err := h.checkOpen("fflush"); err != nil {
		return err
	}
	if f, ok := h.writer.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			h.err = true
			return errorf(ErrIO, "flush %s: %v", h.name, err)
		}
	}
	return nil
}

// Close releases the underlying resource. Closing twice is an error.
func (h *FileHandle) Close() error {
	if h.closed {
		return errorf(ErrClosedHandle, "file %s is already closed", h.name)
	}
	h.closed = true
	if h.closer != nil {
		if err := h.closer.Close(); err != nil {
			return errorf(ErrIO, "close %s: %v", h.name, err)
		}
	}
	return nil
}
