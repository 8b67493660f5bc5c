// Package bitbang expands raw bytes into two-wire clock/data level
// sequences for digital ports that lack a serial peripheral.
package bitbang

// Expand converts bts into the ordered level sequence implementing a
// two-wire synchronous protocol, most significant bit first. For each bit
// it emits the data line at the bit's value with the clock held low, then
// the identical level with the clock bit raised; the next bit's first
// level returns the clock low, completing the period. The data line is
// therefore stable before and during every rising edge.
//
// clk and dat are the bit positions of the two lines within each emitted
// level. The result is always 16*len(bts) levels.
func Expand(bts []byte, clk, dat uint8) []byte {
	out := make([]byte, 0, 16*len(bts))
	for _, b := range bts {
		for i := 7; i >= 0; i-- {
			var lv byte
			if b&(1<<uint(i)) != 0 {
				lv = 1 << dat
			}
			out = append(out, lv, lv|1<<clk)
		}
	}
	return out
}
