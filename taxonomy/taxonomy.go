// Package taxonomy scores topical overlap between a query and candidate
// text using a fixed category to term-variant dictionary. It is the
// cheap, deterministic counterweight to embedding similarity: a
// confident taxonomy match indicates shared research domain even when
// the lexical signal is weak.
package taxonomy

import "strings"

// Category maps a research domain to its term variants and a weight
// bounding how much a match in this category can contribute.
type Category struct {
	Name     string
	Variants []string
	Weight   float64
}

// Matcher matches query and candidate text against a category
// dictionary. A Matcher is immutable after construction and safe for
// concurrent use.
type Matcher struct {
	categories []Category
}

// NewMatcher creates a matcher over the given categories. With no
// categories it falls back to the default dictionary.
func NewMatcher(categories ...Category) *Matcher {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}
	return &Matcher{categories: categories}
}

// matchRatioBoost compensates for large categories: matching 1 of 9
// variants is already a real domain signal, so the raw ratio is tripled
// before capping at 1.0.
const matchRatioBoost = 3.0

// Match scores topical overlap between query and candidate text.
//
// For each category with at least one variant in the query, the
// candidate side is scored as min(ratio*3, 1.0) * weight where ratio is
// the fraction of the category's variants found in the candidate. The
// final score is the mean over categories that matched on both sides;
// 0.0 when no category matched both.
func (m *Matcher) Match(query, candidate string) float64 {
	query = strings.ToLower(query)
	candidate = strings.ToLower(candidate)

	var sum float64
	matched := 0
	for _, category := range m.categories {
		if !containsAny(query, category.Variants) {
			continue
		}
		hits := 0
		for _, variant := range category.Variants {
			if strings.Contains(candidate, variant) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		ratio := float64(hits) / float64(len(category.Variants))
		score := ratio * matchRatioBoost
		if score > 1.0 {
			score = 1.0
		}
		sum += score * category.Weight
		matched++
	}

	if matched == 0 {
		return 0.0
	}
	return sum / float64(matched)
}

// Categories returns the names of all categories with at least one
// variant present in text. Used for negative-category filtering.
func (m *Matcher) Categories(text string) []string {
	text = strings.ToLower(text)
	var names []string
	for _, category := range m.categories {
		if containsAny(text, category.Variants) {
			names = append(names, category.Name)
		}
	}
	return names
}

func containsAny(text string, variants []string) bool {
	for _, variant := range variants {
		if strings.Contains(text, variant) {
			return true
		}
	}
	return false
}

// Disjoint reports whether two category sets share no element. Empty
// sets are never disjoint for filtering purposes: filtering only
// applies when both sides expressed a domain.
func Disjoint(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, name := range a {
		set[name] = true
	}
	for _, name := range b {
		if set[name] {
			return false
		}
	}
	return true
}

// DefaultCategories is the built-in research-domain dictionary with
// English and Korean term variants. Variants are lowercase; matching is
// substring-based so "computer vision" also hits "computer vision lab".
func DefaultCategories() []Category {
	return []Category{
		{
			Name:   "computer_vision",
			Weight: 1.0,
			Variants: []string{
				"computer vision", "image recognition", "object detection",
				"image classification", "image segmentation",
				"컴퓨터 비전", "영상처리", "이미지 인식", "객체 탐지",
			},
		},
		{
			Name:   "machine_learning",
			Weight: 0.9,
			Variants: []string{
				"machine learning", "deep learning", "neural network",
				"artificial intelligence", "reinforcement learning",
				"머신러닝", "딥러닝", "인공지능", "강화학습", "신경망",
			},
		},
		{
			Name:   "natural_language",
			Weight: 1.0,
			Variants: []string{
				"natural language", "nlp", "language model", "machine translation",
				"conversational ai", "text mining", "chatbot",
				"자연어처리", "자연어", "언어 모델", "기계 번역", "대화형",
			},
		},
		{
			Name:   "robotics",
			Weight: 1.0,
			Variants: []string{
				"robotics", "robot control", "autonomous driving", "autonomous vehicle",
				"manipulation", "slam", "motion planning",
				"로봇", "자율주행", "제어", "모션 플래닝",
			},
		},
		{
			Name:   "power_systems",
			Weight: 1.0,
			Variants: []string{
				"power system", "smart grid", "energy storage", "renewable energy",
				"power electronics", "microgrid",
				"전력", "스마트 그리드", "에너지 저장", "신재생", "전력전자",
			},
		},
		{
			Name:   "communications",
			Weight: 1.0,
			Variants: []string{
				"wireless communication", "5g", "6g", "signal processing",
				"network protocol", "antenna", "mimo",
				"무선 통신", "통신", "신호처리", "네트워크",
			},
		},
		{
			Name:   "biomedical",
			Weight: 1.0,
			Variants: []string{
				"biomedical", "bioinformatics", "medical imaging", "drug discovery",
				"genomics", "healthcare",
				"바이오", "의료 영상", "유전체", "헬스케어",
			},
		},
		{
			Name:   "semiconductors",
			Weight: 1.0,
			Variants: []string{
				"semiconductor", "vlsi", "circuit design", "chip design",
				"fabrication", "mems",
				"반도체", "회로 설계", "집적회로", "공정",
			},
		},
		{
			Name:   "data_systems",
			Weight: 0.9,
			Variants: []string{
				"data mining", "database", "big data", "distributed system",
				"data science", "recommendation system",
				"데이터 마이닝", "데이터베이스", "빅데이터", "분산 시스템", "추천 시스템",
			},
		},
	}
}
