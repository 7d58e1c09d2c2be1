package secp256k1

// wnafBits is the length of the half-scalars produced by the endomorphism
// split. Scalars are negated into this range before fixed encoding.
const wnafBits = 128

// wnafSize returns the number of w-bit windows needed to cover bits bits.
func wnafSize(bits, w int) int {
	return (bits + w - 1) / w
}

// wnafVar converts a to windowed non-adjacent form with window w, filling
// wnaf with len(wnaf) digits. Every non-zero digit is odd and below 2^(w-1)
// in absolute value, and any w consecutive digits contain at most one
// non-zero value. It returns one past the index of the highest non-zero
// digit. Scalars with bit 255 set are negated first and the digits are
// flipped, so a half-scalar and its negation encode equally short.
//
// The running time depends on a.
func wnafVar(wnaf []int, a *Scalar, w int) int {
	if w < 2 || w > 31 {
		panic("invalid wnaf window")
	}
	n := len(wnaf)
	for i := range wnaf {
		wnaf[i] = 0
	}

	s := *a
	sign := 1
	if s.getBitsLimb32(255, 1) == 1 {
		s.negate(&s)
		sign = -1
	}

	lastSetBit := -1
	carry := 0
	for bit := 0; bit < n; {
		if int(s.getBitsLimb32(uint(bit), 1)) == carry {
			bit++
			continue
		}
		now := w
		if now > n-bit {
			now = n - bit
		}
		word := int(s.getBitsVar(uint(bit), uint(now))) + carry
		carry = (word >> (w - 1)) & 1
		word -= carry << w

		wnaf[bit] = sign * word
		lastSetBit = bit
		bit += now
	}
	if carry != 0 {
		panic("wnaf encoding left a carry")
	}
	return lastSetBit + 1
}

// wnafConst encodes a scalar of at most size bits into wnafSize(size, w)+1
// digits with window w, in constant time. Every digit is odd and non-zero
// so the digits can drive a lookup into a table of odd multiples without
// branching. To force the scalar odd, 1 or 2 is added first and the
// return value is that skew, which the caller must subtract afterwards.
func wnafConst(wnaf []int, scalar *Scalar, w, size int) int {
	if w <= 0 || size <= 0 {
		panic("invalid wnaf parameters")
	}
	if len(wnaf) < wnafSize(size, w)+1 {
		panic("wnaf buffer too small")
	}

	s := *scalar

	// Negation flips parity, so a high scalar that is even becomes odd
	// once negated and needs 2 added rather than 1.
	flip := boolToInt(s.isHigh())
	bit := flip ^ boolToInt(!s.isEven())

	// Adding 2 to -1 would overflow. -1 negated is 1, which only needs the
	// skew of 2 that the flip already implies.
	var negS Scalar
	negS.negate(&s)
	notNegOne := boolToInt(!negS.isOne())
	s.caddBit(uint(bit), notNegOne)

	globalSign := s.condNegate(flip)
	globalSign *= notNegOne*2 - 1
	skew := 1 << bit

	uLast := int(s.shrInt(uint(w)))
	var u int
	word := 0
	for {
		u = int(s.shrInt(uint(w)))
		even := (u & 1) ^ 1
		// sign = +1 if uLast > 0, -1 otherwise.
		pos := int(uint64(-int64(uLast)) >> 63)
		sign := 2*pos - 1
		u += sign * even
		uLast -= sign * even * (1 << w)

		wnaf[word] = uLast * globalSign
		word++
		uLast = u

		if word*w >= size {
			break
		}
	}
	wnaf[word] = u * globalSign

	if !s.isZero() {
		panic("wnafConst input exceeds size bits")
	}
	return skew
}

// wnafFixed encodes s, which must be below 2^wnafBits, into
// wnafSize(wnafBits, w) digits of window w used by Pippenger's bucket
// method. Every digit is odd or zero. Even scalars are encoded as s+1 and
// the returned skew of 1 tells the caller to subtract the point once.
func wnafFixed(wnaf []int, s *Scalar, w int) int {
	size := wnafSize(wnafBits, w)
	if len(wnaf) < size {
		panic("wnaf buffer too small")
	}
	if s.isZero() {
		for i := 0; i < size; i++ {
			wnaf[i] = 0
		}
		return 0
	}

	skew := 0
	if s.isEven() {
		skew = 1
	}

	wnaf[0] = int(s.getBitsVar(0, uint(w))) + skew
	lastW := wnafBits - (size-1)*w
	windowWidth := func(pos int) uint {
		if pos == size-1 {
			return uint(lastW)
		}
		return uint(w)
	}

	// Find the most significant non-zero window so leading zeros can be
	// skipped.
	pos := size - 1
	for ; pos > 0; pos-- {
		if s.getBitsVar(uint(pos*w), windowWidth(pos)) != 0 {
			break
		}
		wnaf[pos] = 0
	}
	maxPos := pos

	for pos = 1; pos <= maxPos; pos++ {
		val := int(s.getBitsVar(uint(pos*w), windowWidth(pos)))
		if val&1 == 0 {
			wnaf[pos-1] -= 1 << w
			wnaf[pos] = val + 1
		} else {
			wnaf[pos] = val
		}
		// A 1 or -1 following a digit of the opposite sign can be folded
		// into the previous window to save an addition.
		if pos >= 2 && ((wnaf[pos-1] == 1 && wnaf[pos-2] < 0) || (wnaf[pos-1] == -1 && wnaf[pos-2] > 0)) {
			if wnaf[pos-1] == 1 {
				wnaf[pos-2] += 1 << w
			} else {
				wnaf[pos-2] -= 1 << w
			}
			wnaf[pos-1] = 0
		}
	}
	return skew
}
