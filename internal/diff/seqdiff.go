package diff

// Entry is one aligned element from a sequence comparison.
type Entry[T any] struct {
	Status EntryStatus
	Value  T
}

// diffSequence aligns two sequences by key, longest-common-subsequence
// style. Elements whose key appears in a common subsequence come out as
// UNCHANGED runs in their shared order; everything else is REMOVED (only
// in a) or ADDED (only in b), interleaved where the alignment places it.
// This keeps an inserted element isolated instead of cascading a
// "changed" flag down every later index.
func diffSequence[T any](a, b []T, key func(T) string) []Entry[T] {
	ka := make([]string, len(a))
	for i, v := range a {
		ka[i] = key(v)
	}
	kb := make([]string, len(b))
	for j, v := range b {
		kb[j] = key(v)
	}

	// dp[i][j] is the LCS length of a[:i] and b[:j]. Inputs are small
	// (tens of weapons or rules), so the full table is fine.
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if ka[i-1] == kb[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	// Walk back from the corner emitting entries in reverse.
	var rev []Entry[T]
	i, j := len(a), len(b)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ka[i-1] == kb[j-1] && dp[i][j] == dp[i-1][j-1]+1:
			rev = append(rev, Entry[T]{Status: EntryUnchanged, Value: b[j-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			rev = append(rev, Entry[T]{Status: EntryAdded, Value: b[j-1]})
			j--
		default:
			rev = append(rev, Entry[T]{Status: EntryRemoved, Value: a[i-1]})
			i--
		}
	}

	out := make([]Entry[T], 0, len(rev))
	for k := len(rev) - 1; k >= 0; k-- {
		out = append(out, rev[k])
	}
	return out
}
