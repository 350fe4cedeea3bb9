package chip8

// Keys is an input snapshot: which of the 16 logical keys are held.
type Keys [KeyCount]bool

// Held reports whether key k is held. Only the low nibble of k is used.
func (k Keys) Held(key uint8) bool {
	return k[key&0x0f]
}

// First returns the lowest held key.
func (k Keys) First() (uint8, bool) {
	for i, v := range k {
		if v {
			return uint8(i), true
		}
	}
	return 0, false
}
