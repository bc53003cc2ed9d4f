// Copyright 2026 The veil Authors
// This file is part of the veil library.
//
// The veil library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The veil library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the veil library. If not, see <http://www.gnu.org/licenses/>.

package vm

import "math"

// Gas is a non-negative quantity of computational work. Its arithmetic is
// saturating: consensus code must never wrap around.
type Gas uint64

// MaxGas is the largest representable gas amount.
const MaxGas = Gas(math.MaxUint64)

// Plus returns g + other, saturating at MaxGas.
func (g Gas) Plus(other Gas) Gas {
	if g > MaxGas-other {
		return MaxGas
	}
	return g + other
}

// Minus returns g - other, flooring at zero.
func (g Gas) Minus(other Gas) Gas {
	if other > g {
		return 0
	}
	return g - other
}

// Times returns g * other, saturating at MaxGas.
func (g Gas) Times(other Gas) Gas {
	if g == 0 || other == 0 {
		return 0
	}
	if g > MaxGas/other {
		return MaxGas
	}
	return g * other
}

// DividedBy returns g / divisor with floor semantics. Integer truncation
// takes care of the floor needed after the divide.
func (g Gas) DividedBy(divisor Gas) Gas {
	return g / divisor
}

// Min returns the smaller of g and other.
func (g Gas) Min(other Gas) Gas {
	if g < other {
		return g
	}
	return other
}

// Uint64 returns the gas amount as a plain uint64.
func (g Gas) Uint64() uint64 {
	return uint64(g)
}
