package hwio

// 32-bit operations
func GetBit32(v uint32, n uint) bool {
	return GetBiti32(v, n) != 0
}

func GetBiti32(v uint32, n uint) uint32 {
	return v >> (n) & 0x01
}

func SetBit32(v *uint32, n uint) {
	*v |= (1 << n)
}

func ClearBit32(v *uint32, n uint) {
	*v &= ^(1 << n)
}

func ClearBits32(v *uint32, mask uint32) {
	*v &= ^mask
}

// Field32 extracts the width-bit field of v starting at bit lsb.
func Field32(v uint32, lsb, width uint) uint32 {
	return v >> lsb & (1<<width - 1)
}

// SetField32 replaces the width-bit field of v starting at bit lsb with the
// low width bits of field.
func SetField32(v *uint32, lsb, width uint, field uint32) {
	mask := uint32(1<<width-1) << lsb
	*v = *v&^mask | field<<lsb&mask
}

// SignExtend32 interprets the low width bits of v as a two's complement
// number.
func SignExtend32(v uint32, width uint) int32 {
	shift := 32 - width
	return int32(v<<shift) >> shift
}
