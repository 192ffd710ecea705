package bch

import (
	"fmt"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
)

// Codec is a binary BCH encoder/decoder correcting up to T bit errors in a
// codeword of 2^M-1 bits. Construction fails when (t, m) admits no generator
// polynomial with room left for data.
type Codec struct {
	f        *gfField
	t        int
	genTail  []byte // generator coefficients below the leading term, high degree first
	eccBits  int
	eccBytes int
}

// New builds a codec for the given correction capability and field order.
func New(t, m int) (*Codec, error) {
	if t < 1 {
		return nil, fmt.Errorf("%w: bch requires t >= 1, got %d", core.ErrConfiguration, t)
	}
	f, err := newField(m)
	if err != nil {
		return nil, err
	}
	if m*t >= f.n {
		return nil, fmt.Errorf("%w: bch t=%d infeasible for codeword length %d", core.ErrConfiguration, t, f.n)
	}
	gen := generatorPoly(f, t)
	eccBits := len(gen) - 1
	if eccBits >= f.n {
		return nil, fmt.Errorf("%w: bch t=%d leaves no data room in codeword length %d", core.ErrConfiguration, t, f.n)
	}
	// Store g(x) minus its leading x^eccBits term, aligned for the
	// division register: genTail[j] holds the coefficient of
	// x^(eccBits-1-j).
	tail := make([]byte, eccBits)
	for j := 0; j < eccBits; j++ {
		tail[j] = gen[eccBits-1-j]
	}
	return &Codec{
		f:        f,
		t:        t,
		genTail:  tail,
		eccBits:  eccBits,
		eccBytes: (eccBits + 7) / 8,
	}, nil
}

// generatorPoly returns g(x) = lcm of the minimal polynomials of
// alpha^1..alpha^2t as binary coefficients, gen[i] = coeff of x^i.
func generatorPoly(f *gfField, t int) []byte {
	covered := make([]bool, f.n)
	g := []uint16{1}
	for i := 1; i <= 2*t; i++ {
		if covered[i] {
			continue
		}
		// Minimal polynomial of alpha^i: product of (x - alpha^s) over
		// the cyclotomic coset {i*2^j mod n}. Coefficients collapse to
		// GF(2) because the coset is closed under squaring.
		minPoly := []uint16{1}
		for s := i; ; {
			covered[s] = true
			root := f.exp[s]
			next := make([]uint16, len(minPoly)+1)
			for d, c := range minPoly {
				next[d] ^= f.mul(c, root)
				next[d+1] ^= c
			}
			minPoly = next
			s = (s * 2) % f.n
			if s == i {
				break
			}
		}
		product := make([]uint16, len(g)+len(minPoly)-1)
		for a, ca := range g {
			if ca == 0 {
				continue
			}
			for b, cb := range minPoly {
				product[a+b] ^= f.mul(ca, cb)
			}
		}
		g = product
	}
	out := make([]byte, len(g))
	for i, c := range g {
		out[i] = byte(c & 1)
	}
	return out
}

// N returns the full codeword length in bits.
func (c *Codec) N() int { return c.f.n }

// T returns the correctable bit count.
func (c *Codec) T() int { return c.t }

// M returns the field order.
func (c *Codec) M() int { return c.f.m }

// EccBits returns the parity size in bits.
func (c *Codec) EccBits() int { return c.eccBits }

// EccBytes returns the parity size in bytes, with final-byte zero padding.
func (c *Codec) EccBytes() int { return c.eccBytes }

// MaxDataBytes returns the byte-aligned message capacity.
func (c *Codec) MaxDataBytes() int { return (c.f.n - c.eccBits) / 8 }

// Encode computes parity bytes for a message, treating data bytes MSB-first
// as the high-order codeword coefficients.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	if len(data)*8+c.eccBits > c.f.n {
		return nil, fmt.Errorf("%w: message of %d bytes exceeds codeword capacity", core.ErrCapacityExceeded, len(data))
	}
	reg := make([]byte, c.eccBits)
	for _, b := range data {
		for bit := 7; bit >= 0; bit-- {
			fb := ((b >> uint(bit)) & 1) ^ reg[0]
			copy(reg, reg[1:])
			reg[c.eccBits-1] = 0
			if fb == 1 {
				for j := range reg {
					reg[j] ^= c.genTail[j]
				}
			}
		}
	}
	parity := make([]byte, c.eccBytes)
	for j, bit := range reg {
		if bit == 1 {
			parity[j/8] |= 1 << (7 - uint(j%8))
		}
	}
	return parity, nil
}

// Decode corrects up to T bit errors in data given its parity, returning the
// corrected message and the number of bit flips applied across message and
// parity. An unsolvable syndrome returns the message unchanged with
// ErrUncorrectable; more than T actual errors may also miscorrect silently,
// which the codec cannot detect.
func (c *Codec) Decode(data, parity []byte) ([]byte, int, error) {
	if len(parity) != c.eccBytes {
		return nil, 0, core.NewLengthMismatchError(c.eccBytes, len(parity))
	}
	msgBits := len(data) * 8
	total := msgBits + c.eccBits
	if total > c.f.n {
		return nil, 0, fmt.Errorf("%w: message of %d bytes exceeds codeword capacity", core.ErrCapacityExceeded, len(data))
	}
	out := make([]byte, len(data))
	copy(out, data)

	synd, clean := c.syndromes(data, parity, msgBits, total)
	if clean {
		return out, 0, nil
	}

	elp, degree, ok := c.berlekampMassey(synd)
	if !ok {
		return out, 0, fmt.Errorf("%w: error count exceeds t=%d", core.ErrUncorrectable, c.t)
	}

	flips, err := c.chienSearch(elp, degree, total)
	if err != nil {
		return out, 0, err
	}
	for _, pos := range flips {
		if pos < msgBits {
			out[pos/8] ^= 1 << (7 - uint(pos%8))
		}
	}
	return out, len(flips), nil
}

// syndromes evaluates the received polynomial at alpha^1..alpha^2t.
// Bit k of the message has codeword degree total-1-k; parity bit j has
// degree eccBits-1-j.
func (c *Codec) syndromes(data, parity []byte, msgBits, total int) ([]uint16, bool) {
	synd := make([]uint16, 2*c.t+1)
	accumulate := func(degree int) {
		for i := 1; i <= 2*c.t; i++ {
			synd[i] ^= c.f.pow(i * degree)
		}
	}
	for k := 0; k < msgBits; k++ {
		if data[k/8]&(1<<(7-uint(k%8))) != 0 {
			accumulate(total - 1 - k)
		}
	}
	for j := 0; j < c.eccBits; j++ {
		if parity[j/8]&(1<<(7-uint(j%8))) != 0 {
			accumulate(c.eccBits - 1 - j)
		}
	}
	for i := 1; i <= 2*c.t; i++ {
		if synd[i] != 0 {
			return synd, false
		}
	}
	return synd, true
}

// berlekampMassey derives the error locator polynomial from the syndromes.
// Returns ok=false when the implied error count exceeds t.
func (c *Codec) berlekampMassey(synd []uint16) ([]uint16, int, bool) {
	size := 2*c.t + 2
	elp := make([]uint16, size)
	prev := make([]uint16, size)
	elp[0], prev[0] = 1, 1
	length := 0
	shift := 1
	last := uint16(1)

	for iter := 0; iter < 2*c.t; iter++ {
		d := synd[iter+1]
		for i := 1; i <= length; i++ {
			if idx := iter + 1 - i; idx >= 1 && elp[i] != 0 && synd[idx] != 0 {
				d ^= c.f.mul(elp[i], synd[idx])
			}
		}
		if d == 0 {
			shift++
			continue
		}
		coef := c.f.div(d, last)
		if 2*length <= iter {
			saved := make([]uint16, size)
			copy(saved, elp)
			for i := 0; i < size && i+shift < size; i++ {
				if prev[i] != 0 {
					elp[i+shift] ^= c.f.mul(coef, prev[i])
				}
			}
			length = iter + 1 - length
			prev = saved
			last = d
			shift = 1
		} else {
			for i := 0; i < size && i+shift < size; i++ {
				if prev[i] != 0 {
					elp[i+shift] ^= c.f.mul(coef, prev[i])
				}
			}
			shift++
		}
	}
	if length > c.t {
		return nil, 0, false
	}
	return elp[:length+1], length, true
}

// chienSearch locates the error bit positions from the locator polynomial.
// An error located in the implicit zero prefix of the shortened codeword, or
// a root count short of the locator degree, marks the word uncorrectable.
func (c *Codec) chienSearch(elp []uint16, degree, total int) ([]int, error) {
	var flips []int
	found := 0
	for e := 0; e < c.f.n; e++ {
		if c.f.polyEval(elp, c.f.pow(-e)) != 0 {
			continue
		}
		found++
		if e >= total {
			return nil, fmt.Errorf("%w: error located outside shortened codeword", core.ErrUncorrectable)
		}
		flips = append(flips, total-1-e)
	}
	if found != degree {
		return nil, fmt.Errorf("%w: locator degree %d but %d roots", core.ErrUncorrectable, degree, found)
	}
	return flips, nil
}
