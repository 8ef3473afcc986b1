package jpegdec

// JPEG marker bytes relevant to encoding detection.
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF0 = 0xC0 // baseline
	markerSOF1 = 0xC1 // extended sequential
	markerSOF2 = 0xC2 // progressive
	markerSOS  = 0xDA
)

// sniffProgressive walks the marker segments and reports whether the
// image uses progressive encoding. Returns false for anything it cannot
// parse; the decoder proper produces the real error later.
func sniffProgressive(data []byte) bool {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return false
	}
	pos := 2
	for pos+1 < len(data) {
		if data[pos] != 0xFF {
			return false
		}
		marker := data[pos+1]
		pos += 2

		// Standalone markers carry no length field.
		if marker == markerSOI || marker == markerEOI || (marker >= 0xD0 && marker <= 0xD7) {
			continue
		}

		switch marker {
		case markerSOF2:
			return true
		case markerSOF0, markerSOF1, markerSOS:
			return false
		}

		if pos+1 >= len(data) {
			return false
		}
		length := int(data[pos])<<8 | int(data[pos+1])
		if length < 2 {
			return false
		}
		pos += length
	}
	return false
}
