package warden

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// MaxComponentKinds is the largest number of component kinds a single
// Registry can hold. Each kind occupies one bit of a bitmask256, so this
// value is fixed at 256.
const MaxComponentKinds = 256

// bitmask256 represents a set of up to 256 component-kind indices. It is
// used for the world's per-entity membership mask, for a Filter's
// include/any-of/exclude sets, and for the kind-present index. Each bit
// corresponds to a TypeIndex; a set bit means the kind is present.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given type index.
func (m *bitmask256) set(bit TypeIndex) {
	i := bit >> 6
	o := bit & 63
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit corresponding to the given type index.
func (m *bitmask256) unset(bit TypeIndex) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// has reports whether a specific bit is set in the mask.
func (m bitmask256) has(bit TypeIndex) bool {
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << uint64(o))) != 0
}

// contains reports whether every bit set in sub is also set in m. Used to
// check that an entity's membership mask satisfies an all_of requirement.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// intersects reports whether m and other share at least one set bit. Used
// for any_of clauses and for the exclude check.
func (m bitmask256) intersects(other bitmask256) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// isZero reports whether no bit is set.
func (m bitmask256) isZero() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0 && m[3] == 0
}

// popcount returns the number of set bits.
func (m bitmask256) popcount() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) + bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// forEach calls fn once per set bit, in ascending order. It stops early if
// fn returns false.
func (m bitmask256) forEach(fn func(TypeIndex) bool) {
	for word := 0; word < 4; word++ {
		w := m[word]
		for w != 0 {
			o := bits.TrailingZeros64(w)
			if !fn(TypeIndex(word*64 + o)) {
				return
			}
			w &= w - 1
		}
	}
}

// hash returns a stable 64-bit digest of the mask, folded together with a
// Filter's other clause masks by signatureHash (filter.go) into the key a
// Systems Group buckets its per-member cached match lists under.
func (m bitmask256) hash() uint64 {
	var buf [32]byte
	for i, word := range m {
		for b := 0; b < 8; b++ {
			buf[i*8+b] = byte(word >> (8 * b))
		}
	}
	return xxhash.Sum64(buf[:])
}
