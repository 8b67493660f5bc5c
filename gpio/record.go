package gpio

// Record is an in-memory Port for tests and headless runs. It stores every
// accepted level in write order.
type Record struct {
	Levels []byte
	// Err, when non-nil, is returned by Write once FailAt levels have been
	// accepted; the failing level is not recorded.
	Err    error
	FailAt int
}

var _ Port = &Record{}

func (r *Record) Write(level byte) error {
	if r.Err != nil && len(r.Levels) >= r.FailAt {
		return r.Err
	}
	r.Levels = append(r.Levels, level)
	return nil
}

// Reset drops the recorded levels.
func (r *Record) Reset() {
	r.Levels = r.Levels[:0]
}
