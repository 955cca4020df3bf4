package ssz

import (
	prysmssz "github.com/prysmaticlabs/prysm/v5/encoding/ssz"
)

// BytesPerChunk is the size of a Merkle leaf.
const BytesPerChunk = 32

// HashFunc hashes arbitrary bytes into a 32-byte digest.
type HashFunc func(data []byte) [32]byte

// Hasher computes hash tree roots over fixed-size schemas using the given hash function.
type Hasher struct {
	hash HashFunc
}

// NewHasher creates a Hasher that uses fn at every internal node.
func NewHasher(fn HashFunc) *Hasher {
	return &Hasher{
		hash: fn,
	}
}

// Hash returns the digest of data using the underlying hash function.
func (h *Hasher) Hash(data []byte) [32]byte {
	return h.hash(data)
}

// tree returns a fresh prysm hasher around the injected hash. prysm's HasherFunc reuses an
// internal buffer, so one is built per call and never shared between goroutines.
func (h *Hasher) tree() *prysmssz.HasherFunc {
	return prysmssz.NewHasherFunc(prysmssz.HashFn(h.hash))
}

// Pack splits b into 32-byte chunks, right-padding the last chunk with zeros.
func Pack(b []byte) [][32]byte {
	if len(b) == 0 {
		return [][32]byte{{}}
	}

	chunks := make([][32]byte, (len(b)+BytesPerChunk-1)/BytesPerChunk)
	for i := range chunks {
		copy(chunks[i][:], b[i*BytesPerChunk:])
	}

	return chunks
}

// Uint64 returns the leaf for a uint64, serialized little-endian.
func Uint64(v uint64) [32]byte {
	return prysmssz.Uint64Root(v)
}

// Merkleize reduces chunks to a single root. The leaf layer is padded with zero
// chunks up to the next power of two; padding subtrees come from prysm's precomputed
// zero hashes, so only nodes with a real leaf underneath are hashed.
func (h *Hasher) Merkleize(chunks [][32]byte) [32]byte {
	count := uint64(len(chunks))

	return prysmssz.Merkleize(h.tree(), count, count, func(i uint64) []byte {
		return chunks[i][:]
	})
}

// VectorRoot returns the root of a fixed-size byte vector.
func (h *Hasher) VectorRoot(b []byte) [32]byte {
	return h.Merkleize(Pack(b))
}

// ContainerRoot returns the root of a container given the roots of its fields in
// declaration order.
func (h *Hasher) ContainerRoot(fields ...[32]byte) [32]byte {
	return h.Merkleize(fields)
}
