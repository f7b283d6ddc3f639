// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build unix

package executor

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/ajroetker/go-matbench/mat"
)

// The snapshot holds the inputs of one multiplication, native ints:
//
//	n | A (n*n, row-major) | B (n*n, row-major)
//
// The parent writes it to an already-unlinked temporary file and hands the
// descriptor to every worker, which maps it read-only. Workers therefore see
// exactly the inputs of this call and share one copy of them in the page cache.

// writeSnapshot stores a and b in a new anonymous file. The caller closes it.
func writeSnapshot(a, b *mat.Matrix) (*os.File, error) {
	f, err := os.CreateTemp("", "matbench-snapshot-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	// Unlink right away: the data lives as long as some descriptor does.
	if err := os.Remove(f.Name()); err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %w", ErrSnapshot, err), f.Close())
	}

	hdr := []int{a.Size()}
	for _, part := range [][]int{hdr, a.Data(), b.Data()} {
		if _, err := f.Write(intBytes(part)); err != nil {
			return nil, errors.Join(fmt.Errorf("%w: %w", ErrSnapshot, err), f.Close())
		}
	}
	return f, nil
}

// snapshot is a read-only mapping of a snapshot file.
type snapshot struct {
	a, b *mat.Matrix
	mem  []byte
}

// mapSnapshot maps f and returns views of A and B backed by the mapping.
// The views must not be used after Close. f may be closed once this returns.
func mapSnapshot(f *os.File) (*snapshot, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	size := int(fi.Size())
	if size < intSize {
		return nil, fmt.Errorf("snapshot: %d bytes is too short", size)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("snapshot: mmap: %w", err)
	}
	s := &snapshot{mem: mem}

	ints := bytesInts(mem)
	n := ints[0]
	if n < 1 || len(ints) != 1+2*n*n {
		return nil, errors.Join(fmt.Errorf("snapshot: %d bytes does not hold two %dx%d matrices", size, n, n), s.Close())
	}
	if s.a, err = mat.Wrap(n, ints[1:1+n*n]); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	if s.b, err = mat.Wrap(n, ints[1+n*n:]); err != nil {
		return nil, errors.Join(err, s.Close())
	}
	return s, nil
}

// Close unmaps the snapshot.
func (s *snapshot) Close() error {
	if s.mem == nil {
		return nil
	}
	err := unix.Munmap(s.mem)
	s.mem = nil
	return err
}
