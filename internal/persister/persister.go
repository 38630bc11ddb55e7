// Package persister stores every admitted page's raw body to disk,
// compressed with zstd and keyed by its canonical URL hash, written
// atomically (temp file + rename) so a crash mid-write never leaves a
// corrupt blob behind.
package persister

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/rohmanhakim/vertexcrawl/pkg/fileutil"
	"github.com/rohmanhakim/vertexcrawl/pkg/hashutil"
)

type Persister struct {
	dir   string
	level zstd.EncoderLevel
}

func New(dir string, compressionLevel int) *Persister {
	level := zstd.SpeedDefault
	switch {
	case compressionLevel <= 1:
		level = zstd.SpeedFastest
	case compressionLevel >= 4:
		level = zstd.SpeedBestCompression
	}
	return &Persister{dir: dir, level: level}
}

// Write compresses body and atomically writes it under a key derived from
// canonicalURL, returning that key so the indexer can record it on the
// Document row.
func (p *Persister) Write(canonicalURL string, body []byte) (string, error) {
	key := hashutil.URLKey(canonicalURL)

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(p.level))
	if err != nil {
		return "", fmt.Errorf("persister: new encoder: %w", err)
	}
	if _, err := enc.Write(body); err != nil {
		enc.Close()
		return "", fmt.Errorf("persister: compress: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("persister: close encoder: %w", err)
	}

	path := p.pathFor(key)
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("persister: write %s: %w", path, err)
	}
	return key, nil
}

// Read decompresses and returns the raw body stored under key.
func (p *Persister) Read(key string) ([]byte, error) {
	path := p.pathFor(key)
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("persister: no blob for key %q", key)
	}

	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("persister: new decoder: %w", err)
	}
	defer dec.Close()

	out, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("persister: decompress: %w", err)
	}
	return out, nil
}

func (p *Persister) pathFor(key string) string {
	return filepath.Join(p.dir, key[:2], key+".zst")
}
