// Package synccheck keeps a running checksum over synced simulation state so
// replicated peers can compare frames cheaply.
package synccheck

import "math"

// FrameSeed is the checksum value at the start of every frame.
const FrameSeed uint32 = 0xfade1eaf

// Checker is one session's running checksum. The zero value is not seeded;
// use New or call NewFrame before folding values.
type Checker struct {
	sum uint32
}

// New returns a checker seeded for a fresh frame.
func New() *Checker {
	return &Checker{sum: FrameSeed}
}

// NewFrame reseeds the checksum.
func (c *Checker) NewFrame() { c.sum = FrameSeed }

// Sum returns the current checksum.
func (c *Checker) Sum() uint32 { return c.sum }

// Uint8 folds one byte.
func (c *Checker) Uint8(v uint8) {
	c.sum += uint32(v)
	c.sum ^= c.sum << 10
	c.sum += c.sum >> 1
}

// Uint16 folds a 16-bit value.
func (c *Checker) Uint16(v uint16) {
	c.sum += uint32(v)
	c.sum ^= c.sum << 11
	c.sum += c.sum >> 17
}

// Uint32 folds a 32-bit value.
func (c *Checker) Uint32(v uint32) {
	c.sum += v
	c.sum ^= c.sum << 16
	c.sum += c.sum >> 11
}

// Int folds an int as 32 bits.
func (c *Checker) Int(v int) { c.Uint32(uint32(int32(v))) }

// Float32 folds the bit pattern of f.
func (c *Checker) Float32(f float32) { c.Uint32(math.Float32bits(f)) }

// Bool folds a boolean as one byte.
func (c *Checker) Bool(b bool) {
	if b {
		c.Uint8(1)
		return
	}
	c.Uint8(0)
}

// Bytes folds a byte slice: whole 32-bit words first, then the tail bytes.
func (c *Checker) Bytes(p []byte) {
	i := 0
	for ; i+4 <= len(p); i += 4 {
		c.Uint32(uint32(p[i]) | uint32(p[i+1])<<8 | uint32(p[i+2])<<16 | uint32(p[i+3])<<24)
	}
	for ; i < len(p); i++ {
		c.Uint8(p[i])
	}
}
