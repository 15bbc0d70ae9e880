package message

// MLLP block framing bytes
const (
	mllpStart     = 0x0B
	mllpEnd       = 0x1C
	mllpTrailerCR = 0x0D
)

// StripMLLP removes a leading start block and a trailing end block
// (optionally followed by a carriage return). Unframed input is returned
// unchanged.
func StripMLLP(text string) string {
	if len(text) > 0 && text[0] == mllpStart {
		text = text[1:]
	}
	n := len(text)
	if n >= 2 && text[n-2] == mllpEnd && text[n-1] == mllpTrailerCR {
		return text[:n-2]
	}
	if n >= 1 && text[n-1] == mllpEnd {
		return text[:n-1]
	}
	return text
}
