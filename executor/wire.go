// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package executor

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/ajroetker/go-matbench/mat"
)

// intSize is the width of one integer on the wire.
const intSize = int(unsafe.Sizeof(int(0)))

// headerSize is the size of the frame header: start row, end row.
const headerSize = 2 * intSize

// intBytes returns the memory of s as bytes, without copying.
func intBytes(s []int) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*intSize)
}

// bytesInts returns b as ints, without copying. b must be int-aligned, as
// mmap'd pages and Go-allocated []int memory are; trailing bytes are dropped.
func bytesInts(b []byte) []int {
	if len(b) < intSize {
		return nil
	}
	return unsafe.Slice((*int)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/intSize)
}

// payloadSize is the number of bytes a worker sends for rr in an n x n product.
func payloadSize(rr mat.RowRange, n int) int64 {
	return int64(headerSize) + int64(rr.Len())*int64(n)*int64(intSize)
}

// sendRows writes one frame: the header for rr followed by rows.
// io.Writer never returns a short count without an error, so any short
// write surfaces here as ErrWrite.
func sendRows(w io.Writer, rr mat.RowRange, rows []int) error {
	hdr := [2]int{rr.Start, rr.End}
	if n, err := w.Write(intBytes(hdr[:])); err != nil {
		return fmt.Errorf("%w: header: wrote %d of %d bytes: %w", ErrWrite, n, headerSize, err)
	}
	p := intBytes(rows)
	if n, err := w.Write(p); err != nil {
		return fmt.Errorf("%w: rows %v: wrote %d of %d bytes: %w", ErrWrite, rr, n, len(p), err)
	}
	return nil
}

// receiveRows reads one frame from r straight into the rows of c covered by
// want, then requires r to be at EOF. It returns the number of bytes consumed.
//
// Pipes deliver data in arbitrary chunks; io.ReadFull keeps reading until the
// exact frame size has arrived or the stream fails.
func receiveRows(r io.Reader, want mat.RowRange, c *mat.Matrix) (int64, error) {
	var hdr [2]int
	n, err := io.ReadFull(r, intBytes(hdr[:]))
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("%w: header: read %d of %d bytes: %w", ErrRead, n, headerSize, err)
	}
	if got := (mat.RowRange{Start: hdr[0], End: hdr[1]}); got != want {
		return total, fmt.Errorf("%w: header announces rows %v, worker was assigned %v", ErrProtocol, got, want)
	}

	p := intBytes(c.Rows(want))
	n, err = io.ReadFull(r, p)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("%w: rows %v: read %d of %d bytes: %w", ErrRead, want, n, len(p), err)
	}

	var extra [1]byte
	n, err = io.ReadFull(r, extra[:])
	total += int64(n)
	switch {
	case n > 0:
		return total, fmt.Errorf("%w: data after rows %v", ErrProtocol, want)
	case !errors.Is(err, io.EOF):
		return total, fmt.Errorf("%w: after rows %v: %w", ErrRead, want, err)
	}
	return total, nil
}
