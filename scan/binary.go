package scan

// isBinaryContent checks whether a content prefix looks like binary data.
// A null byte anywhere in the sniffed prefix is a reliable signal.
func isBinaryContent(data []byte) bool {
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return false
}
