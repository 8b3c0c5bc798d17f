package noun

// Copy returns a copy of n, a noun in src, allocated in dst.
// The value crosses as its jam encoding, which is the only form in
// which nouns move between arenas.
func Copy(dst, src *Arena, n Noun) (Noun, error) {
	if n.IsDirect() {
		return n, nil
	}
	return dst.Cue(src.Jam(n))
}
