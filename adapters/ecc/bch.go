package ecc

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/internal/bch"
)

// bchEngine adapts the byte-oriented BCH codec to bit-vector secrets: pack
// MSB-first, delegate, unpack, truncate to the configured length.
type bchEngine struct {
	dataLen   int
	dataBytes int
	codec     *bch.Codec
}

// newBCH sizes the codec for dataLen bits. A zero field order selects the
// smallest field whose codeword covers the data length; infeasible (t, m)
// combinations fail here with ErrConfiguration, and a data length beyond the
// codeword's byte-aligned room fails with ErrCapacityExceeded.
func newBCH(dataLen, t, m int) (*bchEngine, error) {
	if m == 0 {
		m = autoFieldOrder(dataLen)
	}
	codec, err := bch.New(t, m)
	if err != nil {
		return nil, err
	}
	dataBytes := (dataLen + 7) / 8
	if dataBytes > codec.MaxDataBytes() {
		return nil, core.NewCapacityError(dataBytes, codec.MaxDataBytes())
	}
	return &bchEngine{
		dataLen:   dataLen,
		dataBytes: dataBytes,
		codec:     codec,
	}, nil
}

// autoFieldOrder finds the smallest m with 2^m - 1 >= dataLen.
func autoFieldOrder(dataLen int) int {
	m := 1
	for (1<<uint(m))-1 < dataLen {
		m++
	}
	return m
}

func (e *bchEngine) Scheme() puf.ECCScheme { return puf.SchemeBCH }
func (e *bchEngine) DataLen() int          { return e.dataLen }
func (e *bchEngine) HelperSizeBits() int   { return e.codec.EccBytes() * 8 }

// T returns the configured correction capability.
func (e *bchEngine) T() int { return e.codec.T() }

// M returns the field order in use, derived or explicit.
func (e *bchEngine) M() int { return e.codec.M() }

func (e *bchEngine) GenerateHelperData(secret bitvec.Vector) (puf.HelperData, error) {
	if len(secret) != e.dataLen {
		return puf.HelperData{}, core.NewLengthMismatchError(e.dataLen, len(secret))
	}
	parity, err := e.codec.Encode(secret.Pack())
	if err != nil {
		return puf.HelperData{}, err
	}
	return puf.HelperData{Scheme: puf.SchemeBCH, Bytes: parity}, nil
}

// CorrectData tolerates an uncorrectable word: the codec's best-effort
// output comes back unrepaired rather than as an error, since the caller
// must verify the result independently either way.
func (e *bchEngine) CorrectData(noisy bitvec.Vector, helper puf.HelperData) (bitvec.Vector, error) {
	if err := checkHelper(helper, puf.SchemeBCH); err != nil {
		return nil, err
	}
	if len(noisy) != e.dataLen {
		return nil, core.NewLengthMismatchError(e.dataLen, len(noisy))
	}
	corrected, _, err := e.codec.Decode(noisy.Pack(), helper.Bytes)
	if err != nil && !core.IsUncorrectable(err) {
		return nil, err
	}
	return bitvec.Unpack(corrected, e.dataLen), nil
}
