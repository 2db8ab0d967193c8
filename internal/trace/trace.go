// Package trace reads and writes memory-block reference traces.
//
// A trace is a text file of non-negative block numbers separated by
// whitespace or commas. Everything after '#' on a line is a comment. Files
// ending in .zst or .zstd are zstd-compressed.
package trace

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"

	"github.com/tstromberg/cachesim/internal/cache"
)

// Compressed reports whether path names a zstd-compressed trace.
func Compressed(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return true
	}
	return false
}

// Load reads a trace file, decompressing it if needed.
func Load(path string) ([]cache.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if Compressed(path) {
		decoder, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		r = decoder
	}

	refs, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"path":       path,
		"references": len(refs),
		"digest":     fmt.Sprintf("%016x", Digest(refs)),
	}).Debug("loaded trace")
	return refs, nil
}

// Parse reads block references from r.
func Parse(r io.Reader) ([]cache.Block, error) {
	scanner := bufio.NewScanner(r)
	var refs []cache.Block
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\r'
		})
		for _, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid block %q", line, f)
			}
			refs = append(refs, cache.Block(n))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan trace: %w", err)
	}
	return refs, nil
}

// Write writes refs to w, sixteen per line.
func Write(w io.Writer, refs []cache.Block) error {
	bw := bufio.NewWriter(w)
	for i, b := range refs {
		sep := " "
		if i%16 == 15 || i == len(refs)-1 {
			sep = "\n"
		}
		if _, err := bw.WriteString(strconv.Itoa(int(b)) + sep); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes refs to path, compressing when the extension asks for it.
func Save(path string, refs []cache.Block) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !Compressed(path) {
		return Write(f, refs)
	}

	encoder, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	if err := Write(encoder, refs); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

// Digest returns a 64-bit fingerprint of a reference sequence. Equal
// sequences always produce equal digests, which lets reports be matched to
// the exact input they were computed from.
func Digest(refs []cache.Block) uint64 {
	buf := make([]byte, 8*len(refs))
	for i, b := range refs {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(b))
	}
	return xxh3.Hash(buf)
}
