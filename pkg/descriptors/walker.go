package descriptors

// Walker splits a raw associated-descriptor chain into its length-prefixed
// records. It is a single forward pass; the walk cannot be restarted.
type Walker struct {
	buf []byte
}

func NewWalker(buf []byte) *Walker {
	return &Walker{buf: buf}
}

// Next returns the next record, including its length and type bytes. A
// record whose declared length runs past the buffer, or is shorter than the
// two header bytes, terminates the walk.
func (w *Walker) Next() ([]byte, bool) {
	if len(w.buf) < 2 {
		w.buf = nil
		return nil, false
	}
	n := int(w.buf[0])
	if n < 2 || n > len(w.buf) {
		w.buf = nil
		return nil, false
	}
	block := w.buf[:n:n]
	w.buf = w.buf[n:]
	return block, true
}
