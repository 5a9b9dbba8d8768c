// Package promise implements content-addressed promise identity: the Dewey-path
// derivation scheme that lets a replayed execution recompute the same handles
// for its side effects without any coordination with the original run.
package promise

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"
)

// MaxCallDepth bounds how many child derivations a single PromiseId may
// accumulate. It exists to keep replay trees finite and Dewey paths bounded
// in storage.
const MaxCallDepth = 64

// PromiseId is a content-addressed handle to a future or captured value.
// Two PromiseIds are equal iff their Root and Path are identical; use Equal
// or Key for comparisons, since the zero value's Path is a nil slice that
// compares unequal to an empty non-nil slice under reflect.DeepEqual.
type PromiseId struct {
	root [32]byte
	path []uint32
}

// ExecutionId identifies the whole execution. It is a PromiseId at the root
// of the call tree for that execution.
type ExecutionId = PromiseId

// New constructs a root-level PromiseId (empty path) from a precomputed
// 32-byte digest.
func New(root [32]byte) PromiseId {
	return PromiseId{root: root}
}

// FromParts reconstructs a PromiseId from its raw root and path, as
// recovered from a wire encoding. It performs no derivation; callers must
// only use it to round-trip values previously obtained from RootBytes/Path.
func FromParts(root [32]byte, path []uint32) PromiseId {
	p := make([]uint32, len(path))
	copy(p, path)
	return PromiseId{root: root, path: p}
}

// PromiseRoot deterministically derives a root-level PromiseId from the
// component digest, the caller's idempotency key, and an optional parent.
//
// The digest is SHA-256 over each field length-prefixed with a little-endian
// u32 count, in this order: digest, [parent root, parent path] (only when
// parent is non-nil), key. The parent path is prefixed by its segment count
// rather than its byte length. Length-prefixing every field means no two
// distinct inputs can hash to the same value via field-boundary
// concatenation collisions.
func PromiseRoot(componentDigest []byte, idempotencyKey string, parent *PromiseId) PromiseId {
	h := sha256.New()

	writeLenPrefixed(h, componentDigest)

	if parent != nil {
		writeLenPrefixed(h, parent.root[:])
		var pathBuf []byte
		for _, seg := range parent.path {
			pathBuf = binary.LittleEndian.AppendUint32(pathBuf, seg)
		}
		writeLenPrefixedSegments(h, len(parent.path), pathBuf)
	}

	writeLenPrefixed(h, []byte(idempotencyKey))

	var root [32]byte
	h.Sum(root[:0])
	return New(root)
}

// writeLenPrefixed writes a little-endian u32 byte count followed by data.
func writeLenPrefixed(h hash.Hash, data []byte) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(data)))
	h.Write(lenBuf[:])
	h.Write(data)
}

// writeLenPrefixedSegments writes the segment count (not the byte length of
// segBytes) followed by the already little-endian-encoded segments, matching
// the original's per-u32 hashing of the parent path.
func writeLenPrefixedSegments(h hash.Hash, count int, segBytes []byte) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(count))
	h.Write(lenBuf[:])
	h.Write(segBytes)
}

// Child derives a new PromiseId by appending seq to the path. seq is the
// caller's local operation counter at this depth (e.g. the nth side effect
// scheduled by this invocation). Returns a *DomainError when the path has
// already reached MaxCallDepth segments.
func (p PromiseId) Child(seq uint32) (PromiseId, error) {
	if len(p.path) >= MaxCallDepth {
		return PromiseId{}, MaxCallDepthExceeded(MaxCallDepth)
	}
	newPath := make([]uint32, len(p.path)+1)
	copy(newPath, p.path)
	newPath[len(p.path)] = seq
	return PromiseId{root: p.root, path: newPath}, nil
}

// Parent returns the promise one level up the call tree, or ok=false at the
// root.
func (p PromiseId) Parent() (PromiseId, bool) {
	if len(p.path) == 0 {
		return PromiseId{}, false
	}
	parentPath := make([]uint32, len(p.path)-1)
	copy(parentPath, p.path[:len(p.path)-1])
	return PromiseId{root: p.root, path: parentPath}, true
}

// IsRoot reports whether this is a root-level promise (empty path, depth 0).
func (p PromiseId) IsRoot() bool {
	return len(p.path) == 0
}

// Depth returns the call-tree depth (0 for root).
func (p PromiseId) Depth() int {
	return len(p.path)
}

// RootBytes returns the raw 32-byte root hash.
func (p PromiseId) RootBytes() [32]byte {
	return p.root
}

// Path returns the path segments. Callers must not mutate the returned
// slice; it aliases the receiver's internal state.
func (p PromiseId) Path() []uint32 {
	return p.path
}

// Equal reports whether p and other identify the same promise.
func (p PromiseId) Equal(other PromiseId) bool {
	if p.root != other.root {
		return false
	}
	if len(p.path) != len(other.path) {
		return false
	}
	for i, seg := range p.path {
		if other.path[i] != seg {
			return false
		}
	}
	return true
}

// Key returns a canonical, comparable string suitable for use as a map key.
// It encodes the root followed by each path segment as 4 fixed-width
// little-endian bytes; since every element has the same fixed width, there
// is no concatenation ambiguity between distinct (root, path) pairs.
func (p PromiseId) Key() string {
	var sb strings.Builder
	sb.Grow(32 + 4*len(p.path))
	sb.Write(p.root[:])
	var buf [4]byte
	for _, seg := range p.path {
		binary.LittleEndian.PutUint32(buf[:], seg)
		sb.Write(buf[:])
	}
	return sb.String()
}

// String renders the display form: the first 4 hex bytes of Root, then
// ".seg" for each path element.
func (p PromiseId) String() string {
	var sb strings.Builder
	sb.WriteString(hex.EncodeToString(p.root[:4]))
	for _, seg := range p.path {
		sb.WriteByte('.')
		sb.WriteString(strconv.FormatUint(uint64(seg), 10))
	}
	return sb.String()
}
