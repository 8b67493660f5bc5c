// Package gpio provides the output port the LED string writes its
// serialized bus levels to.
package gpio

// Port accepts ordered digital level bitmasks, one bus clock step per
// call. Implementations must apply writes in call order; a failed write
// may leave the lines in the last applied state.
type Port interface {
	Write(level byte) error
}
