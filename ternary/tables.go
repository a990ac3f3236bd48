package ternary

// The tables below are the "trit² → {AND, OR, tcmp, product}" and
// "trit³ → (sum, carry)" lookup tables the design notes call for (spec.md
// §9: "Build the four primary tables once ... larger operations are linear
// passes over these"). Rather than transcribing the original's literal
// lookup-table constants by hand, each table is computed once at package
// init time directly from the balanced-ternary definition of the
// corresponding operation, indexed by the concatenated packed bit patterns
// of its operands (so a lookup is just two shifts and an array read, same
// as the original's hand-built tables).

const (
	trit2TableSize = 16 // 4-bit index: two 2-bit trit patterns
	trit3TableSize = 64 // 6-bit index: three 2-bit trit patterns
)

var (
	trit2And     [trit2TableSize]uint8
	trit2Or      [trit2TableSize]uint8
	trit2Cmp     [trit2TableSize]uint8
	trit2Product [trit2TableSize]uint8
)

type sumCarry struct {
	sum, carry uint8
}

var trit3SumCarry [trit3TableSize]sumCarry

var allTrits = [3]Trit{Neg, Zero, Pos}

func init() {
	for i := range trit2And {
		trit2And[i] = bitsInvalid
		trit2Or[i] = bitsInvalid
		trit2Cmp[i] = bitsInvalid
		trit2Product[i] = bitsInvalid
	}
	for i := range trit3SumCarry {
		trit3SumCarry[i] = sumCarry{bitsInvalid, bitsInvalid}
	}

	for _, a := range allTrits {
		for _, b := range allTrits {
			idx := trit2(a, b)

			and := Zero
			if a == Pos && b == Pos {
				and = Pos
			} else if a == Neg || b == Neg {
				and = Neg
			}
			trit2And[idx] = and.Bits()

			or := Zero
			if a == Neg && b == Neg {
				or = Neg
			} else if a == Pos || b == Pos {
				or = Pos
			}
			trit2Or[idx] = or.Bits()

			diff := int(a) - int(b)
			cmp := Zero
			if diff > 0 {
				cmp = Pos
			} else if diff < 0 {
				cmp = Neg
			}
			trit2Cmp[idx] = cmp.Bits()

			product := Trit(int(a) * int(b))
			trit2Product[idx] = product.Bits()

			for _, c := range allTrits {
				total := int(a) + int(b) + int(c)
				// Reduce total (range −3..+3) to a balanced digit in
				// {−1,0,+1} plus a carry in {−1,0,+1} such that
				// total == sum + 3*carry.
				carry := 0
				sum := total
				for sum > 1 {
					sum -= 3
					carry++
				}
				for sum < -1 {
					sum += 3
					carry--
				}
				sci := idx<<2 | c.Bits()
				trit3SumCarry[sci] = sumCarry{Trit(sum).Bits(), Trit(carry).Bits()}
			}
		}
	}
}
