package puf

import "github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"

// HelperData is the public redundancy emitted at enrollment. Exactly one of
// Bits/Bytes is populated depending on the scheme: Hamming stores an ordered
// parity-bit vector, BCH stores the codec's raw parity bytes, none stores
// nothing. Helper data is assumed fully public; its size is the entropy
// leakage bound used in accounting.
type HelperData struct {
	Scheme ECCScheme
	Bits   bitvec.Vector
	Bytes  []byte
}

// SizeBits returns the public helper size in bits, the amount subtracted
// from raw response entropy.
func (h HelperData) SizeBits() int {
	switch h.Scheme {
	case SchemeHamming:
		return len(h.Bits)
	case SchemeBCH:
		return len(h.Bytes) * 8
	default:
		return 0
	}
}
