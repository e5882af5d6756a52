// Package hash provides the two structural-hashing primitives the indexing
// pipeline builds on: a leaf digest over raw bytes and the order-sensitive
// Merkle combine used to fold a node's children into its fingerprint.
package hash

import "hash/maphash"

// seed is fixed once per process so that two leaves with equal input bytes
// produce equal hashes for the lifetime of the program, as required of
// Leaf. It deliberately does not need to be stable across processes or
// across restarts.
var seed = maphash.MakeSeed()

// Leaf hashes raw bytes (source text, a capture-tag name, or a node-kind
// name -- the caller decides which per the language profile's obfuscation
// policy) into a 64-bit digest.
func Leaf(b []byte) uint64 {
	return maphash.Bytes(seed, b)
}

// sentinel is reserved by Combine so downstream map implementations can use
// it as an out-of-band marker.
const sentinel = 0xFFFFFFFFFFFFFFFF

// Combine folds a child fingerprint into the accumulator of a bottom-up
// Merkle hash. Callers fold a node's children left to right starting from
// acc = 0; the result is order-sensitive by construction, so swapping two
// children changes the parent's fingerprint.
func Combine(acc, child uint64) uint64 {
	const mul = uint64(1000003)
	// mulSeed is a variable, not a constant, so mulSeed*mul wraps at run
	// time instead of overflowing at compile time.
	mulSeed := uint64(0x0123456789ABCDEF)
	v := mulSeed*mul ^ (acc + 1)
	v = v*mul ^ (child + 2)
	v ^= 2
	if v == sentinel {
		return sentinel - 1
	}
	return v
}
