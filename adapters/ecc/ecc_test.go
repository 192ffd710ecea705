package ecc

import (
	"errors"
	"testing"

	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/bitvec"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/core"
	"github.com/Frank-Tsai-23026407/SRAM-PUF-SIM/domain/puf"
)

var referencePattern = []int{1, 0, 1, 0, 1, 1, 0, 0, 1, 1, 1, 0, 0, 0, 1, 0}

func TestFactoryValidation(t *testing.T) {
	if _, err := New(puf.ECCConfig{Scheme: "turbo"}, 16); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown scheme, got %v", err)
	}
	if _, err := New(puf.ECCConfig{Scheme: puf.SchemeHamming}, 0); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for zero data length, got %v", err)
	}
	for _, scheme := range []puf.ECCScheme{puf.SchemeNone, puf.SchemeHamming} {
		engine, err := New(puf.ECCConfig{Scheme: scheme}, 16)
		if err != nil {
			t.Fatalf("scheme %s: unexpected error %v", scheme, err)
		}
		if engine.Scheme() != scheme || engine.DataLen() != 16 {
			t.Fatalf("scheme %s: engine misconfigured", scheme)
		}
	}
}

func TestHammingRedundantBits(t *testing.T) {
	tests := []struct {
		dataLen int
		r       int
	}{
		{1, 2},
		{4, 3},
		{8, 4},
		{11, 4},
		{16, 5},
		{26, 5},
		{57, 6},
	}
	for _, tt := range tests {
		if got := redundantBits(tt.dataLen); got != tt.r {
			t.Fatalf("redundantBits(%d) = %d, want %d", tt.dataLen, got, tt.r)
		}
	}
}

func TestHammingSingleBitCorrection(t *testing.T) {
	engine, err := New(puf.ECCConfig{Scheme: puf.SchemeHamming}, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	original := bitvec.MustFromInts(referencePattern)
	helper, err := engine.GenerateHelperData(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := helper.Bits.String(); got != "00001" {
		t.Fatalf("helper parity vector = %s, want 00001", got)
	}

	noisy := original.Clone()
	noisy.FlipAt(5)
	corrected, err := engine.CorrectData(noisy, helper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !corrected.Equal(original) {
		t.Fatalf("corrected %s, want %s", corrected, original)
	}
}

func TestHammingEveryFlipPosition(t *testing.T) {
	engine, _ := New(puf.ECCConfig{Scheme: puf.SchemeHamming}, 16)
	original := bitvec.MustFromInts(referencePattern)
	helper, err := engine.GenerateHelperData(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for pos := 0; pos < len(original); pos++ {
		noisy := original.Clone()
		noisy.FlipAt(pos)
		corrected, err := engine.CorrectData(noisy, helper)
		if err != nil {
			t.Fatalf("pos %d: unexpected error %v", pos, err)
		}
		if !corrected.Equal(original) {
			t.Fatalf("pos %d: corrected %s, want %s", pos, corrected, original)
		}
	}
}

func TestHammingNoError(t *testing.T) {
	engine, _ := New(puf.ECCConfig{Scheme: puf.SchemeHamming}, 8)
	original := bitvec.MustFromInts([]int{1, 1, 0, 0, 1, 0, 1, 0})
	helper, err := engine.GenerateHelperData(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	corrected, err := engine.CorrectData(original, helper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !corrected.Equal(original) {
		t.Fatalf("error-free input changed: %s != %s", corrected, original)
	}
}

func TestHammingLengthMismatch(t *testing.T) {
	engine, _ := New(puf.ECCConfig{Scheme: puf.SchemeHamming}, 16)
	if _, err := engine.GenerateHelperData(bitvec.New(15)); !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	helper := puf.HelperData{Scheme: puf.SchemeHamming, Bits: bitvec.New(5)}
	if _, err := engine.CorrectData(bitvec.New(17), helper); !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	shortHelper := puf.HelperData{Scheme: puf.SchemeHamming, Bits: bitvec.New(3)}
	if _, err := engine.CorrectData(bitvec.New(16), shortHelper); !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch for short helper, got %v", err)
	}
}

func TestHelperSchemeMismatch(t *testing.T) {
	engine, _ := New(puf.ECCConfig{Scheme: puf.SchemeHamming}, 16)
	bchHelper := puf.HelperData{Scheme: puf.SchemeBCH, Bytes: []byte{0x00}}
	if _, err := engine.CorrectData(bitvec.New(16), bchHelper); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNonePassthrough(t *testing.T) {
	engine, _ := New(puf.ECCConfig{Scheme: puf.SchemeNone}, 8)
	data := bitvec.MustFromInts([]int{1, 0, 0, 1, 1, 1, 0, 1})
	helper, err := engine.GenerateHelperData(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if helper.SizeBits() != 0 {
		t.Fatalf("none scheme must leak nothing, got %d helper bits", helper.SizeBits())
	}
	noisy := data.Clone()
	noisy.FlipAt(2)
	out, err := engine.CorrectData(noisy, helper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Equal(noisy) {
		t.Fatalf("passthrough must not repair anything")
	}
}

func TestBCHAutoFieldOrder(t *testing.T) {
	engine, err := newBCH(16, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.M() != 5 {
		t.Fatalf("auto field order = %d, want 5", engine.M())
	}
	if engine.T() != 1 {
		t.Fatalf("t = %d, want 1", engine.T())
	}
	explicit, err := newBCH(16, 1, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if explicit.M() != 6 {
		t.Fatalf("explicit field order = %d, want 6", explicit.M())
	}
}

func TestBCHConstructionErrors(t *testing.T) {
	tests := []struct {
		name     string
		dataLen  int
		t, m     int
		sentinel error
	}{
		{"t infeasible for field", 16, 100, 5, core.ErrConfiguration},
		{"field order too small explicit", 12, 1, 4, core.ErrConfiguration},
		{"field order too small derived", 12, 1, 0, core.ErrConfiguration},
		{"data exceeds byte capacity", 25, 1, 5, core.ErrCapacityExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(puf.ECCConfig{Scheme: puf.SchemeBCH, T: tt.t, M: tt.m}, tt.dataLen)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v, got %v", tt.sentinel, err)
			}
		})
	}
}

func TestBCHZeroErrorRoundTrip(t *testing.T) {
	engine, err := New(puf.ECCConfig{Scheme: puf.SchemeBCH, T: 1}, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := bitvec.MustFromInts(referencePattern)
	helper, err := engine.GenerateHelperData(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if helper.SizeBits() != 8 {
		t.Fatalf("expected 8 helper bits (one parity byte), got %d", helper.SizeBits())
	}
	corrected, err := engine.CorrectData(data, helper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !corrected.Equal(data) {
		t.Fatalf("zero-error round trip changed data: %s != %s", corrected, data)
	}
}

func TestBCHCorrectsWithinCapacity(t *testing.T) {
	engine, err := New(puf.ECCConfig{Scheme: puf.SchemeBCH, T: 3}, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := bitvec.New(64)
	for i := 0; i < 64; i += 3 {
		data[i] = 1
	}
	helper, err := engine.GenerateHelperData(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	noisy := data.Clone()
	for _, pos := range []int{2, 31, 63} {
		noisy.FlipAt(pos)
	}
	corrected, err := engine.CorrectData(noisy, helper)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !corrected.Equal(data) {
		t.Fatalf("three flips within t=3 must be repaired")
	}
}

func TestBCHBeyondCapacityBestEffort(t *testing.T) {
	// More errors than t: the engine returns data without raising, and the
	// result cannot silently equal the original.
	engine, err := New(puf.ECCConfig{Scheme: puf.SchemeBCH, T: 1}, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := bitvec.MustFromInts(referencePattern)
	helper, _ := engine.GenerateHelperData(data)
	noisy := data.Clone()
	noisy.FlipAt(1)
	noisy.FlipAt(9)
	corrected, err := engine.CorrectData(noisy, helper)
	if err != nil {
		t.Fatalf("beyond-capacity correction must not error, got %v", err)
	}
	if corrected.Equal(data) {
		t.Fatalf("two errors in a t=1 code must not reproduce the original")
	}
}

func TestBCHLengthMismatch(t *testing.T) {
	engine, _ := New(puf.ECCConfig{Scheme: puf.SchemeBCH, T: 1}, 16)
	if _, err := engine.GenerateHelperData(bitvec.New(15)); !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	helper := puf.HelperData{Scheme: puf.SchemeBCH, Bytes: []byte{0x00}}
	if _, err := engine.CorrectData(bitvec.New(17), helper); !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}
