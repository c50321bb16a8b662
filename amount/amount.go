// Copyright (C) 2019-2026, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package amount implements the two-field signed fixed-point arithmetic
// used for every currency amount in the store (§4.B): a signed integer
// part and an 18-decimal-digit fractional part, the same base-10^18
// fixed-point scaling convention this corpus already uses for ratio and
// rate math (see dex/interest_rate.go's RAY = 10^18 scaling) — repurposed
// here from ratios to signed currency amounts, so negative values need
// the sign-and-magnitude-complement handling this package adds on top.
package amount

import (
	"strconv"
	"strings"
)

// MaxFraction is the largest legal fractional value: f must satisfy
// 0 <= f <= MaxFraction, i.e. f/1e18 < 1.
const MaxFraction uint64 = 1e18 - 1

const fractionDigits = 18

// Amount is the (integer, fraction) pair representing i + f/1e18.
// Negative amounts set I < 0 and keep F as a non-negative complement:
// -0.01 is {I: -1, F: 99e16}; a pure integer -2 is {I: -2, F: 0}.
type Amount struct {
	I int32
	F uint64
}

func clamp(f uint64) uint64 {
	if f > MaxFraction {
		return MaxFraction
	}
	return f
}

// Add returns d + s. Operands with F > MaxFraction are clamped first, per
// §4.B's defensive normalization.
func Add(d, s Amount) Amount {
	fd, fs := clamp(d.F), clamp(s.F)
	id := d.I + s.I
	fd += fs
	if fd > MaxFraction {
		fd -= MaxFraction + 1
		id++
	}
	return Amount{I: id, F: fd}
}

// Sub returns d - s. Operands with F > MaxFraction are clamped first.
func Sub(d, s Amount) Amount {
	fd, fs := clamp(d.F), clamp(s.F)
	id := d.I - s.I
	if fs > fd {
		fd += MaxFraction + 1
		id--
	}
	fd -= fs
	return Amount{I: id, F: fd}
}

// String renders the canonical decimal form with no minimum fraction
// digits: trailing zero digits are trimmed entirely, and a zero fraction
// with a zero minimum produces no decimal point at all.
func (a Amount) String() string {
	return ToString(a.I, a.F, 0)
}

// ToString renders (i, f) as a decimal string. minDigits is the smallest
// number of fractional digits to keep after trimming trailing zeros
// (§4.B step 3); it does not add precision beyond the 18 digits f holds.
func ToString(i int32, f uint64, minDigits int) string {
	f = clamp(f)

	neg := false
	if i < 0 && f != 0 {
		neg = true
		i = -(i + 1)
		f = MaxFraction + 1 - f
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(strconv.FormatInt(int64(i), 10))

	if f != 0 || minDigits > 0 {
		sb.WriteByte('.')
		frac := zeroPad18(f)
		end := len(frac)
		for end > minDigits && frac[end-1] == '0' {
			end--
		}
		sb.WriteString(frac[:end])
	}
	return sb.String()
}

func zeroPad18(f uint64) string {
	s := strconv.FormatUint(f, 10)
	if len(s) >= fractionDigits {
		return s
	}
	return strings.Repeat("0", fractionDigits-len(s)) + s
}
