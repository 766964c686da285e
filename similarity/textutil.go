package similarity

import (
	"math"
	"strings"
)

// tokenSet splits text on whitespace, lowercased.
func tokenSet(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(fields))
	for _, field := range fields {
		set[field] = true
	}
	return set
}

// jaccard computes token-set Jaccard overlap. Empty sets score 0.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// splitList splits a comma-separated field into trimmed, non-empty items.
func splitList(text string) []string {
	parts := strings.Split(text, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// chunkWords splits text into chunks of at most chunkSize characters,
// breaking on word boundaries. Text at or under the limit is a single
// chunk.
func chunkWords(text string, chunkSize int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	var current []string
	length := 0
	for _, word := range strings.Fields(text) {
		joined := length + len(word)
		if length > 0 {
			joined++ // separating space
		}
		if joined > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			length = len(word)
		} else {
			current = append(current, word)
			length = joined
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// tfidfCosine computes the TF-IDF cosine similarity between two texts
// treated as a two-document corpus: raw term counts weighted by
// smoothed idf (ln((1+n)/(1+df))+1), L2-normalized per document.
func tfidfCosine(text1, text2 string) float64 {
	counts1 := termCounts(text1)
	counts2 := termCounts(text2)
	if len(counts1) == 0 || len(counts2) == 0 {
		return 0.0
	}

	vocab := make(map[string]int)
	for term := range counts1 {
		vocab[term] = 1
	}
	for term := range counts2 {
		vocab[term]++
	}

	const n = 2.0
	var dot, norm1, norm2 float64
	for term, df := range vocab {
		idf := math.Log((1+n)/(1+float64(df))) + 1
		w1 := float64(counts1[term]) * idf
		w2 := float64(counts2[term]) * idf
		dot += w1 * w2
		norm1 += w1 * w1
		norm2 += w2 * w2
	}
	if norm1 == 0 || norm2 == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(norm1) * math.Sqrt(norm2))
}

func termCounts(text string) map[string]int {
	fields := strings.Fields(strings.ToLower(text))
	counts := make(map[string]int, len(fields))
	for _, field := range fields {
		counts[strings.Trim(field, ".,!?;:'\"-()[]{}")]++
	}
	delete(counts, "")
	return counts
}
