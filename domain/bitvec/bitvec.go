package bitvec

import (
	"fmt"
	"math"
	"strings"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// Vector is an ordered bit string stored one bit per byte (values 0 or 1).
// Index 0 is the first bit; ordering is significant because index position
// defines ECC bit semantics.
type Vector []byte

// New creates an all-zero vector of n bits.
func New(n int) Vector {
	return make(Vector, n)
}

// FromInts builds a vector from a slice of 0/1 integers.
func FromInts(bits []int) (Vector, error) {
	v := make(Vector, len(bits))
	for i, b := range bits {
		if b != 0 && b != 1 {
			return nil, core.NewInvalidValueError(b)
		}
		v[i] = byte(b)
	}
	return v, nil
}

// MustFromInts is FromInts for literal test patterns; panics on non-binary input.
func MustFromInts(bits []int) Vector {
	v, err := FromInts(bits)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseString parses a "10110..." literal.
func ParseString(s string) (Vector, error) {
	v := make(Vector, len(s))
	for i, r := range s {
		switch r {
		case '0':
			v[i] = 0
		case '1':
			v[i] = 1
		default:
			return nil, fmt.Errorf("%w: %q at index %d", core.ErrInvalidValue, r, i)
		}
	}
	return v, nil
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal reports whether two vectors have identical length and bits.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// OnesCount returns the number of 1 bits.
func (v Vector) OnesCount() int {
	n := 0
	for _, b := range v {
		if b == 1 {
			n++
		}
	}
	return n
}

// OnesFraction returns the fraction of 1 bits (uniformity metric; ideal 0.5).
func (v Vector) OnesFraction() float64 {
	if len(v) == 0 {
		return 0
	}
	return float64(v.OnesCount()) / float64(len(v))
}

// FlipAt flips the bit at index i in place.
func (v Vector) FlipAt(i int) {
	v[i] ^= 1
}

// HammingDistance counts mismatched positions between two equal-length vectors.
func HammingDistance(a, b Vector) (int, error) {
	if len(a) != len(b) {
		return 0, core.NewLengthMismatchError(len(a), len(b))
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}

// Pack packs the vector into bytes, first bit into the most significant bit of
// byte 0, zero-padding the final partial byte. This is the byte layout the BCH
// codec consumes.
func (v Vector) Pack() []byte {
	out := make([]byte, (len(v)+7)/8)
	for i, b := range v {
		if b == 1 {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}

// Unpack expands packed bytes back into a vector of n bits, inverse of Pack.
func Unpack(data []byte, n int) Vector {
	v := make(Vector, n)
	for i := 0; i < n; i++ {
		if i/8 < len(data) && data[i/8]&(1<<(7-uint(i%8))) != 0 {
			v[i] = 1
		}
	}
	return v
}

// ShannonEntropy returns the per-bit Shannon entropy of the vector, in bits.
// A perfectly balanced vector scores 1.0; a constant vector scores 0.
func (v Vector) ShannonEntropy() float64 {
	if len(v) == 0 {
		return 0
	}
	p := v.OnesFraction()
	if p == 0 || p == 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}

// String renders the vector as a "0101..." literal.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, b := range v {
		if b == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
