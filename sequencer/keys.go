package sequencer

// NumKeys is the size of a piano keyboard
const NumKeys = 88

// DefaultKeyOffset maps MIDI note 33 to key 0
const DefaultKeyOffset = 33

// KeyTable holds the pressed state of each piano key, lowest key first
type KeyTable [NumKeys]bool

// KeyIndex maps a MIDI note number to a table index.
// ok is false when the note falls outside the keyboard.
func KeyIndex(key uint8, offset int) (idx int, ok bool) {
	idx = int(key) - offset
	if idx < 0 || idx >= NumKeys {
		return idx, false
	}
	return idx, true
}

// Set writes a key state; out-of-range indices are ignored
func (k *KeyTable) Set(idx int, pressed bool) bool {
	if idx < 0 || idx >= NumKeys {
		return false
	}
	k[idx] = pressed
	return true
}

// Pressed returns the indices of all held keys
func (k *KeyTable) Pressed() []int {
	var held []int
	for i, on := range k {
		if on {
			held = append(held, i)
		}
	}
	return held
}

// Clear releases every key
func (k *KeyTable) Clear() {
	*k = KeyTable{}
}
