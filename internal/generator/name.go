package generator

import (
	"strconv"
	"strings"
)

// Fragment filenames carry a kind tag before the extension so a flat
// directory can hold all three catalogs.
const (
	SuffixBody  = "_b.png"
	SuffixMouth = "_m.png"
	SuffixEyes  = "_e.png"
)

// Name derives the display name for a fragment combination: a prefix of the
// body stem, three-character windows near the ends of the mouth and eyes
// stems, and two hash-derived letters. The letters come from cyrb53 of the
// code (which is guaranteed unique), so code uniqueness carries over to the
// name with very high probability. Deterministic, no I/O.
func Name(p Parts) string {
	bodyStr := strings.ReplaceAll(p.Body, SuffixBody, "")
	mouthStr := strings.ReplaceAll(p.Mouth, SuffixMouth, "")
	eyesStr := strings.ReplaceAll(p.Eyes, SuffixEyes, "")

	bodyEnd := min(3, len(bodyStr))

	salt := strconv.FormatUint(Cyrb53(p.Code, 0), 10)
	half := len(salt) / 2
	chr1 := byte('a' + decimal(salt[:half])%24)
	chr2 := byte('a' + decimal(salt[half:])%24)

	return bodyStr[:bodyEnd] +
		window(mouthStr, 3) +
		window(eyesStr, 6) +
		string([]byte{chr1, chr2})
}

// window returns the three characters starting at min(maxStart, len-3),
// clamped so short stems shrink the window instead of indexing out of range.
func window(s string, maxStart int) string {
	start := min(maxStart, len(s)-3)
	if start < 0 {
		start = 0
	}
	end := min(start+3, len(s))
	return s[start:end]
}

func decimal(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Cyrb53 is a 53-bit non-cryptographic mixing hash. The constants and the
// 32-bit multiply-and-truncate steps must stay exactly as they are: every
// persisted name depends on them.
func Cyrb53(s string, seed uint64) uint64 {
	h1 := uint32(0xdeadbeef) ^ uint32(seed)
	h2 := uint32(0x41c6ce57) ^ uint32(seed)

	for _, ch := range s {
		c := uint32(ch)
		h1 = (h1 ^ c) * 2654435761
		h2 = (h2 ^ c) * 1597334677
	}

	h1 = (h1^(h1>>16))*2246822507 ^ (h2^(h2>>13))*3266489909
	h2 = (h2^(h2>>16))*2246822507 ^ (h1^(h1>>13))*3266489909

	return uint64(h2&2097151)<<32 + uint64(h1)
}
