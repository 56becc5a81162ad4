package filename

import "github.com/hbollon/go-edlib"

// Ratio returns a 0-100 similarity score between two titles, computed as a
// normalized Levenshtein ratio over Clean-ed input. All matching thresholds
// in this codebase (80/85/95/100) assume this exact algorithm; the tie-break
// cascade depends on relative ordering staying consistent.
func Ratio(a, b string) int {
	ca, cb := Clean(a), Clean(b)
	if ca == "" && cb == "" {
		return 100
	}
	sim, err := edlib.StringsSimilarity(ca, cb, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return int(sim*100 + 0.5)
}
