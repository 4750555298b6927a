package processor

// Decide picks the bytes to keep. In auto mode a re-encode that is not
// smaller than the original is discarded in favour of the original bytes;
// explicit formats always keep the encoded payload.
func Decide(original, encoded []byte, format Format) ([]byte, bool) {
	if format.IsAuto() && len(encoded) >= len(original) {
		return original, true
	}
	return encoded, false
}
