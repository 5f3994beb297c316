package fft

import (
	"math"

	"fftio/hw/hwio"
)

// Lane values pack a complex sample as two 12-bit Q5.7 fixed point numbers
// (two's complement, 7 fraction bits): the real part in bits 23-12, the
// imaginary part in bits 11-0.
const (
	FracBits  = 7
	FieldBits = 12

	reShift = FieldBits
	imShift = 0

	qmin = -1 << (FieldBits - 1)
	qmax = 1<<(FieldBits-1) - 1
)

// Range of a Q5.7 number.
const (
	MinValue = float64(qmin) / (1 << FracBits)
	MaxValue = float64(qmax) / (1 << FracBits)
)

// Pack encodes re+im·i into a lane value. Parts are rounded to the nearest
// 1/128 and clamped to [MinValue, MaxValue]; NaN encodes as 0.
func Pack(re, im float64) uint32 {
	var v uint32
	hwio.SetField32(&v, reShift, FieldBits, toQ(re))
	hwio.SetField32(&v, imShift, FieldBits, toQ(im))
	return v
}

// Unpack decodes a lane value. Bits above bit 23 are ignored.
func Unpack(v uint32) (re, im float64) {
	re = fromQ(hwio.Field32(v, reShift, FieldBits))
	im = fromQ(hwio.Field32(v, imShift, FieldBits))
	return re, im
}

func toQ(x float64) uint32 {
	if math.IsNaN(x) {
		return 0
	}
	q := math.Round(x * (1 << FracBits))
	q = max(q, qmin)
	q = min(q, qmax)
	return uint32(int32(q))
}

func fromQ(field uint32) float64 {
	return float64(hwio.SignExtend32(field, FieldBits)) / (1 << FracBits)
}
