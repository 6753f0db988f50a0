// Package bytestream provides ByteStream, a push-write/pull-read byte
// buffer with bounded-memory zlib inflate support, used by the P10 read
// engine to consume input incrementally without blocking on a full read.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_7
package bytestream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Sentinel errors surfaced by Read and Peek. DataRequired is the one
// recoverable condition: it signals the caller to push more bytes via
// Write and retry, not a terminal failure.
var (
	// ErrDataRequired indicates fewer than the requested bytes are
	// currently buffered and the stream is not yet marked done. The caller
	// should Write more bytes and retry.
	ErrDataRequired = errors.New("bytestream: data required")

	// ErrDataEnd indicates fewer than the requested bytes remain and no
	// more will ever arrive (the stream is done).
	ErrDataEnd = errors.New("bytestream: data end")

	// ErrWriteAfterCompletion indicates Write was called after the stream
	// was already marked done.
	ErrWriteAfterCompletion = errors.New("bytestream: write after completion")
)

// defaultInflateChunkSize bounds how many decompressed bytes a single demand-driven
// inflate pass produces, so a hostile deflate payload (a "zip bomb") cannot
// force an unbounded allocation in one call; ReadConfig's MaxTokenSize
// overrides this default via SetInflateChunkSize.
const defaultInflateChunkSize = 1 << 20 // 1 MiB

// ByteStream is a push-write, pull-read buffer of bytes. Producers call
// Write to append bytes (marking done=true on the final write); consumers
// call Read and Peek to pull bytes out, in FIFO order.
//
// Not safe for concurrent use by multiple goroutines.
type ByteStream struct {
	buf  bytes.Buffer
	done bool

	inflating       bool
	inflateChunk    int
	inflateSrc      *deflateSource
	inflateReader   io.ReadCloser
	inflateOut      bytes.Buffer
	inflateComplete bool
}

// New creates an empty ByteStream.
func New() *ByteStream {
	return &ByteStream{inflateChunk: defaultInflateChunkSize}
}

// SetInflateChunkSize overrides the per-pass inflate output bound. Intended
// to be wired to ReadConfig.MaxTokenSize by the P10 read engine.
func (b *ByteStream) SetInflateChunkSize(n int) {
	if n > 0 {
		b.inflateChunk = n
	}
}

// Write appends bytes to the stream. done marks this as the final write;
// subsequent Write calls then fail with ErrWriteAfterCompletion.
func (b *ByteStream) Write(p []byte, done bool) error {
	if b.done {
		return ErrWriteAfterCompletion
	}

	if b.inflating {
		b.inflateSrc.append(p)
	} else {
		b.buf.Write(p)
	}

	if done {
		b.done = true
		if b.inflating {
			b.inflateSrc.markDone()
		}
	}
	return nil
}

// IsDone returns true once the final Write(_, true) call has been made.
func (b *ByteStream) IsDone() bool {
	return b.done
}

// IsFullyConsumed returns true when the buffer is empty, writing has
// completed, and (if zlib inflate mode is active) inflation has also fully
// drained its source.
func (b *ByteStream) IsFullyConsumed() bool {
	if b.inflating {
		return b.done && b.inflateSrc.remaining() == 0 && b.inflateOut.Len() == 0 && b.inflateComplete
	}
	return b.done && b.buf.Len() == 0
}

// Peek returns the next n bytes without consuming them. Returns
// ErrDataRequired if fewer than n bytes are buffered and the stream is not
// done, or ErrDataEnd if fewer than n bytes remain and the stream is done.
func (b *ByteStream) Peek(n int) ([]byte, error) {
	if err := b.ensureAvailable(n); err != nil {
		return nil, err
	}
	return b.peekBuf().Bytes()[:n], nil
}

// Read consumes and returns the next n bytes. Same failure modes as Peek.
func (b *ByteStream) Read(n int) ([]byte, error) {
	if err := b.ensureAvailable(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	src := b.peekBuf()
	copy(out, src.Bytes()[:n])
	src.Next(n)
	return out, nil
}

// peekBuf returns the buffer Read/Peek should draw from: the raw buffer in
// passthrough mode, or the inflated-output buffer in zlib mode.
func (b *ByteStream) peekBuf() *bytes.Buffer {
	if b.inflating {
		return &b.inflateOut
	}
	return &b.buf
}

// ensureAvailable pumps the inflate loop (if active) until n bytes are
// available or no further progress can be made, then classifies the result.
func (b *ByteStream) ensureAvailable(n int) error {
	if n < 0 {
		return fmt.Errorf("bytestream: negative read length %d", n)
	}

	if b.inflating {
		for b.inflateOut.Len() < n && !b.inflateStalled() {
			if err := b.pumpInflate(); err != nil {
				return err
			}
		}
	}

	avail := b.peekBuf().Len()
	if avail >= n {
		return nil
	}
	if b.streamDone() {
		return ErrDataEnd
	}
	return ErrDataRequired
}

func (b *ByteStream) streamDone() bool {
	if b.inflating {
		return b.inflateComplete
	}
	return b.done
}

func (b *ByteStream) inflateStalled() bool {
	return b.inflateComplete || (b.inflateSrc.remaining() == 0 && !b.inflateSrc.isDone())
}

// StartZlibInflate switches the stream into zlib mode: all currently
// unread bytes and all subsequently written bytes are treated as a zlib
// deflate payload, and Read/Peek transparently return inflated bytes.
//
// DICOM Standard Reference (Deflated Explicit VR Little Endian transfer
// syntax): https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_10.2
func (b *ByteStream) StartZlibInflate() error {
	if b.inflating {
		return fmt.Errorf("bytestream: zlib inflate already started")
	}

	src := &deflateSource{}
	src.append(b.buf.Bytes())
	b.buf.Reset()
	if b.done {
		src.markDone()
	}

	zr, err := zlib.NewReader(src)
	if err != nil {
		// Insufficient header bytes yet: hold the source open and retry
		// lazily on the first pumpInflate call once more data arrives.
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			b.inflating = true
			b.inflateSrc = src
			return nil
		}
		return fmt.Errorf("bytestream: invalid zlib header: %w", err)
	}

	b.inflating = true
	b.inflateSrc = src
	b.inflateReader = zr
	return nil
}

// pumpInflate performs one bounded inflate pass, producing at most
// inflateChunk bytes of output, appended to inflateOut.
func (b *ByteStream) pumpInflate() error {
	if b.inflateReader == nil {
		zr, err := zlib.NewReader(b.inflateSrc)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil // wait for more input
			}
			return fmt.Errorf("bytestream: invalid zlib header: %w", err)
		}
		b.inflateReader = zr
	}

	chunk := make([]byte, b.inflateChunk)
	n, err := io.ReadFull(b.inflateReader, chunk)
	if n > 0 {
		b.inflateOut.Write(chunk[:n])
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			b.inflateComplete = true
			return nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			// Partial chunk: either a short read mid-stream (more input
			// needed) or true end of the deflate stream.
			if b.inflateSrc.isDone() {
				b.inflateComplete = true
			}
			return nil
		}
		return fmt.Errorf("bytestream: zlib inflate failed: %w", err)
	}
	return nil
}

// deflateSource adapts the push-buffered compressed bytes to the blocking
// io.Reader zlib.NewReader expects, returning io.ErrUnexpectedEOF instead
// of blocking when the producer hasn't written enough yet but also hasn't
// signalled done.
type deflateSource struct {
	buf  bytes.Buffer
	done bool
}

func (s *deflateSource) append(p []byte) {
	s.buf.Write(p)
}

func (s *deflateSource) markDone() {
	s.done = true
}

func (s *deflateSource) remaining() int {
	return s.buf.Len()
}

func (s *deflateSource) isDone() bool {
	return s.done
}

func (s *deflateSource) Read(p []byte) (int, error) {
	if s.buf.Len() == 0 {
		if s.done {
			return 0, io.EOF
		}
		return 0, io.ErrUnexpectedEOF
	}
	return s.buf.Read(p)
}
