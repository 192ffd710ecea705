package ecc

import (
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
)

// noneEngine passes bits through uncorrected. Helper data is empty, so
// nothing leaks and nothing is repaired.
type noneEngine struct {
	dataLen int
}

func newNone(dataLen int) *noneEngine {
	return &noneEngine{dataLen: dataLen}
}

func (e *noneEngine) Scheme() puf.ECCScheme { return puf.SchemeNone }
func (e *noneEngine) DataLen() int          { return e.dataLen }
func (e *noneEngine) HelperSizeBits() int   { return 0 }

func (e *noneEngine) GenerateHelperData(secret bitvec.Vector) (puf.HelperData, error) {
	if len(secret) != e.dataLen {
		return puf.HelperData{}, core.NewLengthMismatchError(e.dataLen, len(secret))
	}
	return puf.HelperData{Scheme: puf.SchemeNone}, nil
}

func (e *noneEngine) CorrectData(noisy bitvec.Vector, helper puf.HelperData) (bitvec.Vector, error) {
	if err := checkHelper(helper, puf.SchemeNone); err != nil {
		return nil, err
	}
	if len(noisy) != e.dataLen {
		return nil, core.NewLengthMismatchError(e.dataLen, len(noisy))
	}
	return noisy.Clone(), nil
}
