package charset

// candidateDelimiters in tie-break order.
var candidateDelimiters = []rune{';', ',', '\t', '|'}

// DetectDelimiter picks the field separator of a header line by counting the
// candidate characters outside quoted sections. The highest count wins; ties
// resolve in the order ';' ',' '\t' '|'. A line with none of them is treated
// as comma separated.
func DetectDelimiter(headerLine string) rune {
	counts := make(map[rune]int, len(candidateDelimiters))
	inQuotes := false
	for _, r := range headerLine {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		counts[r]++
	}

	best := ','
	bestCount := 0
	for _, d := range candidateDelimiters {
		if counts[d] > bestCount {
			best = d
			bestCount = counts[d]
		}
	}
	return best
}
