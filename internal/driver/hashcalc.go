package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// Digest is a SHA-256 value used as a cache key.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func digestOf(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// resultKey identifies the outcome of resolving one program: the encoded
// program, the library it was resolved against and the global warning allow
// list. The allow list is order-insensitive.
func resultKey(program []byte, lib Digest, allow []string) Digest {
	sorted := slices.Clone(allow)
	slices.Sort(sorted)
	h := sha256.New()
	for _, item := range sorted {
		_, _ = h.Write([]byte(item))
		_, _ = h.Write([]byte{0})
	}
	var allowDigest Digest
	copy(allowDigest[:], h.Sum(nil))
	return combineDigest(digestOf(program), lib, allowDigest)
}
