// Package bch implements a binary BCH codec over GF(2^m), the shortened
// systematic variant: parity is computed over an arbitrary-length byte
// message and appended, with the unused high-order message bits treated as
// implicit zeros. Field orders 5 through 15 are supported.
package bch

import (
	"fmt"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// Primitive polynomials generating GF(2^m), indexed by m.
var primitivePolys = map[int]uint32{
	5:  0x25,
	6:  0x43,
	7:  0x89,
	8:  0x11d,
	9:  0x211,
	10: 0x409,
	11: 0x805,
	12: 0x1053,
	13: 0x201b,
	14: 0x4443,
	15: 0x8003,
}

const (
	minFieldOrder = 5
	maxFieldOrder = 15
)

// gfField holds log/antilog tables for GF(2^m). exp is doubled so products
// of two field logs index without a modulo.
type gfField struct {
	m   int
	n   int // multiplicative group order, 2^m - 1
	exp []uint16
	log []uint16
}

func newField(m int) (*gfField, error) {
	poly, ok := primitivePolys[m]
	if !ok {
		return nil, fmt.Errorf("%w: bch field order m=%d outside supported range [%d,%d]",
			core.ErrConfiguration, m, minFieldOrder, maxFieldOrder)
	}
	n := (1 << uint(m)) - 1
	f := &gfField{
		m:   m,
		n:   n,
		exp: make([]uint16, 2*n),
		log: make([]uint16, n+1),
	}
	x := uint32(1)
	for i := 0; i < n; i++ {
		f.exp[i] = uint16(x)
		f.exp[i+n] = uint16(x)
		f.log[x] = uint16(i)
		x <<= 1
		if x&(1<<uint(m)) != 0 {
			x ^= poly
		}
	}
	return f, nil
}

// mul multiplies two field elements; zero annihilates.
func (f *gfField) mul(a, b uint16) uint16 {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[int(f.log[a])+int(f.log[b])]
}

// div divides a by b; b must be non-zero.
func (f *gfField) div(a, b uint16) uint16 {
	if a == 0 {
		return 0
	}
	return f.exp[int(f.log[a])+f.n-int(f.log[b])]
}

// inv returns the multiplicative inverse of a non-zero element.
func (f *gfField) inv(a uint16) uint16 {
	return f.exp[f.n-int(f.log[a])]
}

// pow returns alpha^e for any integer exponent.
func (f *gfField) pow(e int) uint16 {
	e %= f.n
	if e < 0 {
		e += f.n
	}
	return f.exp[e]
}

// mulByPow multiplies a by alpha^e.
func (f *gfField) mulByPow(a uint16, e int) uint16 {
	if a == 0 {
		return 0
	}
	e = (int(f.log[a]) + e) % f.n
	if e < 0 {
		e += f.n
	}
	return f.exp[e]
}

// polyEval evaluates a polynomial with field coefficients at x, where
// coeffs[i] is the coefficient of x^i.
func (f *gfField) polyEval(coeffs []uint16, x uint16) uint16 {
	acc := uint16(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = f.mul(acc, x) ^ coeffs[i]
	}
	return acc
}
