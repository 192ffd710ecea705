package ecc

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
)

// hammingEngine corrects a single flipped bit. The codeword is addressed
// 1-indexed from the least significant end: parity bits sit at the
// power-of-two positions and data fills the rest from its last bit upward.
// This reversed ordering defines the helper-data layout and the syndrome
// arithmetic, so both encode and correct must walk positions identically.
type hammingEngine struct {
	dataLen int
	r       int
}

func newHamming(dataLen int) *hammingEngine {
	return &hammingEngine{
		dataLen: dataLen,
		r:       redundantBits(dataLen),
	}
}

// redundantBits finds the smallest r with 2^r >= dataLen + r + 1.
func redundantBits(dataLen int) int {
	r := 0
	for (1 << uint(r)) < dataLen+r+1 {
		r++
	}
	return r
}

func (e *hammingEngine) Scheme() puf.ECCScheme { return puf.SchemeHamming }
func (e *hammingEngine) DataLen() int          { return e.dataLen }
func (e *hammingEngine) HelperSizeBits() int   { return e.r }

// codewordLen returns the total codeword size, data plus parity.
func (e *hammingEngine) codewordLen() int {
	return e.dataLen + e.r
}

// layout builds the codeword skeleton: cw[p] is the bit at from-right
// position p (index 0 unused), with zero placeholders at the power-of-two
// positions and data bits filling the remaining positions starting from the
// end of the data.
func (e *hammingEngine) layout(data bitvec.Vector) []byte {
	n := e.codewordLen()
	cw := make([]byte, n+1)
	k := 1
	for p := 1; p <= n; p++ {
		if isPowerOfTwo(p) {
			continue
		}
		cw[p] = data[e.dataLen-k]
		k++
	}
	return cw
}

// parityAt XORs every codeword position whose from-right index has bit i
// set, including position 2^i itself.
func parityAt(cw []byte, n, i int) byte {
	var v byte
	for p := 1; p <= n; p++ {
		if p&(1<<uint(i)) != 0 {
			v ^= cw[p]
		}
	}
	return v
}

// extract reads the non-power positions back out of the codeword, undoing
// the layout placement.
func (e *hammingEngine) extract(cw []byte) bitvec.Vector {
	n := e.codewordLen()
	out := make(bitvec.Vector, e.dataLen)
	k := 1
	for p := 1; p <= n; p++ {
		if isPowerOfTwo(p) {
			continue
		}
		out[e.dataLen-k] = cw[p]
		k++
	}
	return out
}

// GenerateHelperData returns the ordered parity-bit vector: helper bit i is
// the parity stored at position 2^i.
func (e *hammingEngine) GenerateHelperData(secret bitvec.Vector) (puf.HelperData, error) {
	if len(secret) != e.dataLen {
		return puf.HelperData{}, core.NewLengthMismatchError(e.dataLen, len(secret))
	}
	n := e.codewordLen()
	cw := e.layout(secret)
	helper := make(bitvec.Vector, e.r)
	for i := 0; i < e.r; i++ {
		p := parityAt(cw, n, i)
		cw[1<<uint(i)] = p
		helper[i] = p
	}
	return puf.HelperData{Scheme: puf.SchemeHamming, Bits: helper}, nil
}

// CorrectData rebuilds the codeword from the noisy bits, substitutes the
// enrollment-time parity bits, and reads the syndrome: a non-zero value is
// the from-right position of the single flipped bit. Two or more flips
// produce an undefined correction.
func (e *hammingEngine) CorrectData(noisy bitvec.Vector, helper puf.HelperData) (bitvec.Vector, error) {
	if err := checkHelper(helper, puf.SchemeHamming); err != nil {
		return nil, err
	}
	if len(noisy) != e.dataLen {
		return nil, core.NewLengthMismatchError(e.dataLen, len(noisy))
	}
	if len(helper.Bits) != e.r {
		return nil, core.NewLengthMismatchError(e.r, len(helper.Bits))
	}
	n := e.codewordLen()
	cw := e.layout(noisy)
	for i := 0; i < e.r; i++ {
		cw[1<<uint(i)] = helper.Bits[i]
	}
	syndrome := 0
	for i := 0; i < e.r; i++ {
		syndrome |= int(parityAt(cw, n, i)) << uint(i)
	}
	if syndrome >= 1 && syndrome <= n {
		cw[syndrome] ^= 1
	}
	return e.extract(cw), nil
}

func isPowerOfTwo(p int) bool {
	return p > 0 && p&(p-1) == 0
}
