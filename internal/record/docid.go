package record

// EncodeDocID converts s to one code per Unicode code point.
func EncodeDocID(s string) []int64 {
	out := make([]int64, 0, len(s))
	for _, r := range s {
		out = append(out, int64(r))
	}
	return out
}

// DecodeDocID reverses EncodeDocID, dropping trailing zero padding.
// A docid that itself ends in U+0000 cannot be told apart from padding.
func DecodeDocID(codes []int64) string {
	end := len(codes)
	for end > 0 && codes[end-1] == 0 {
		end--
	}
	runes := make([]rune, end)
	for i, c := range codes[:end] {
		runes[i] = rune(c)
	}
	return string(runes)
}
