package pathcache

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/udisondev/pathgrid/internal/terrain"
	"golang.org/x/crypto/blake2b"
)

// Key identifies an estimator's precomputed data: any change to the grid,
// the movement classes or the block size yields a different key.
func Key(name string, blockSize int, g *terrain.Grid, moveDefs *terrain.MoveDefs) string {
	h, _ := blake2b.New256(nil)
	var scratch [4]byte
	putU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:], v)
		h.Write(scratch[:])
	}
	putF32 := func(f float32) { putU32(math.Float32bits(f)) }

	h.Write([]byte(codecVersion))
	h.Write([]byte(name))
	putU32(uint32(blockSize))
	putU32(uint32(g.MapX()))
	putU32(uint32(g.MapY()))
	for _, v := range g.Heights() {
		putF32(v)
	}
	h.Write(g.Kinds())

	for _, md := range moveDefs.All() {
		putU32(uint32(md.PathType))
		h.Write([]byte(md.Name))
		putF32(md.MaxSlope)
		for _, c := range md.KindCosts {
			putF32(c)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
