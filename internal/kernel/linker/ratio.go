package linker

// Ratio computes a normalized sequence-similarity ratio between two strings:
// 2*M / (len(a)+len(b)), where M is the total length of matched runs found
// by recursively taking the longest common substring. Identical strings
// score 1.0 and fully distinct strings score 0.0.
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matched := matchedLength([]byte(a), []byte(b))
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

// matchedLength sums matched run lengths: the longest common substring plus,
// recursively, the matches in the unmatched regions on either side of it.
func matchedLength(a, b []byte) int {
	aStart, bStart, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchedLength(a[:aStart], b[:bStart])
	total += matchedLength(a[aStart+size:], b[bStart+size:])
	return total
}

func longestCommonSubstring(a, b []byte) (aStart, bStart, size int) {
	// lengths[j] is the length of the common suffix ending at a[i-1], b[j-1]
	// for the current row i.
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			current := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > size {
					size = lengths[j]
					aStart = i - size
					bStart = j - size
				}
			} else {
				lengths[j] = 0
			}
			prev = current
		}
	}
	return aStart, bStart, size
}
