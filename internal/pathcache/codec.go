package pathcache

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// codecVersion is bumped whenever BlockData changes shape.
const codecVersion = "pathcache-v1"

// BlockData is one estimator's precomputed state.
type BlockData struct {
	BlockSize   int
	NbrX, NbrZ  int
	NumMoveDefs int
	// Offsets holds x,z pairs per (movement class, block).
	Offsets []int32
	// Vertices holds the forward link costs per (movement class, block).
	Vertices []float32
}

// EncodeBlockData writes a version line followed by the gob-encoded data,
// all zstd-compressed.
func EncodeBlockData(d *BlockData) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	bw := bufio.NewWriter(enc)
	if _, err := bw.WriteString(codecVersion + "\n"); err != nil {
		enc.Close()
		return nil, err
	}
	if err := gob.NewEncoder(bw).Encode(d); err != nil {
		enc.Close()
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing zstd writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBlockData reverses EncodeBlockData and rejects other versions.
func DecodeBlockData(payload []byte) (*BlockData, error) {
	dec, err := zstd.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header != codecVersion+"\n" {
		return nil, fmt.Errorf("unsupported cache version %q", header[:len(header)-1])
	}

	var d BlockData
	if err := gob.NewDecoder(br).Decode(&d); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return &d, nil
}
