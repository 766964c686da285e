package similarity

import (
	"context"
	"sort"
	"strings"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/core"
)

// disciplineGroups maps each discipline group to its member major names,
// in both English and Korean. Two majors in the same group score 0.8.
var disciplineGroups = map[string][]string{
	"computer": {
		"computer science", "computer engineering", "software engineering",
		"artificial intelligence", "data science", "information systems",
		"컴퓨터공학", "컴퓨터과학", "소프트웨어공학", "소프트웨어학과",
		"인공지능학과", "데이터사이언스", "정보시스템",
	},
	"electrical": {
		"electrical engineering", "electronic engineering", "electronics",
		"semiconductor engineering", "communications engineering",
		"전기공학", "전자공학", "전기전자공학", "반도체공학", "통신공학",
	},
	"mechanical": {
		"mechanical engineering", "aerospace engineering",
		"mechatronics", "robotics engineering",
		"기계공학", "항공우주공학", "메카트로닉스", "로봇공학",
	},
	"chembio": {
		"chemical engineering", "biological engineering", "biotechnology",
		"materials science", "biomedical engineering",
		"화학공학", "생명공학", "신소재공학", "의공학", "바이오메디컬공학",
	},
	"business": {
		"business administration", "economics", "industrial engineering",
		"management",
		"경영학", "경제학", "산업공학",
	},
}

// engineeringGroups lists the discipline groups that share the broad
// engineering supergroup; majors across two of these score 0.5.
var engineeringGroups = []string{"computer", "electrical", "mechanical", "chembio"}

// MajorSimilarity scores two major names by a rule ladder:
// exact match 1.0, same discipline group 0.8, substring containment
// 0.6, both within the engineering supergroup 0.5, otherwise 0.0.
type MajorSimilarity struct{}

// NewMajorSimilarity returns the rule-based major measure.
func NewMajorSimilarity() *MajorSimilarity {
	return &MajorSimilarity{}
}

func (m *MajorSimilarity) Calculate(_ context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.ToLower(strings.TrimSpace(subject))
	reference = strings.ToLower(strings.TrimSpace(reference))
	if subject == "" || reference == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	if subject == reference {
		return core.NewCriterionScore(1.0, "exact_match", nil)
	}

	subjectGroup := disciplineGroup(subject)
	referenceGroup := disciplineGroup(reference)
	if subjectGroup != "" && subjectGroup == referenceGroup {
		return core.NewCriterionScore(0.8, "same_group", map[string]any{
			"group": subjectGroup,
		})
	}

	if strings.Contains(subject, reference) || strings.Contains(reference, subject) {
		return core.NewCriterionScore(0.6, "substring", nil)
	}

	if isEngineering(subjectGroup) && isEngineering(referenceGroup) {
		return core.NewCriterionScore(0.5, "engineering_family", map[string]any{
			"subject_group":   subjectGroup,
			"reference_group": referenceGroup,
		})
	}

	return core.NewCriterionScore(0.0, "no_match", nil)
}

func disciplineGroup(major string) string {
	for group, members := range disciplineGroups {
		for _, member := range members {
			if major == member || strings.Contains(major, member) || strings.Contains(member, major) {
				return group
			}
		}
	}
	return ""
}

func isEngineering(group string) bool {
	for _, g := range engineeringGroups {
		if group == g {
			return true
		}
	}
	return false
}

// certificationTiers weights certifications by their tier keyword.
// Keys are matched longest-first so that a broader keyword never
// shadows a more specific one it is a substring of.
var certificationTiers = map[string]float64{
	"기사":                  1.0,
	"산업기사":                0.7,
	"기능사":                 0.5,
	"민간자격":                0.3,
	"professional":        1.0,
	"engineer":            1.0,
	"industrial engineer": 0.7,
	"technician":          0.5,
	"associate":           0.5,
	"certificate":         0.3,
}

const defaultCertificationTier = 0.3

// CertificationSimilarity scores comma-separated certification lists
// against the subjects a lab asks for. Each held certification gets its
// best match across the requested subjects (exact 1.0, substring 0.7,
// token-overlap ratio otherwise), weighted by the held certification's
// tier; the final score is the mean over held certifications, so
// irrelevant extras dilute the score rather than inflate it.
type CertificationSimilarity struct{}

// NewCertificationSimilarity returns the certification measure.
func NewCertificationSimilarity() *CertificationSimilarity {
	return &CertificationSimilarity{}
}

func (c *CertificationSimilarity) Calculate(_ context.Context, subject, reference string) (core.CriterionScore, error) {
	held := splitList(strings.ToLower(subject))
	wanted := splitList(strings.ToLower(reference))
	if len(held) == 0 || len(wanted) == 0 {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	var total float64
	for _, have := range held {
		tier := certificationTier(have)
		best := 0.0
		for _, want := range wanted {
			match := certificationMatch(have, want) * tier
			if match > best {
				best = match
			}
		}
		total += best
	}
	score := clampUnit(total / float64(len(held)))

	return core.NewCriterionScore(score, "tiered_match", map[string]any{
		"held":      len(held),
		"requested": len(wanted),
	})
}

func certificationMatch(have, want string) float64 {
	if have == want {
		return 1.0
	}
	if strings.Contains(have, want) || strings.Contains(want, have) {
		return 0.7
	}
	haveTokens := tokenSet(have)
	wantTokens := tokenSet(want)
	if len(wantTokens) == 0 {
		return 0.0
	}
	overlap := 0
	for token := range wantTokens {
		if haveTokens[token] {
			overlap++
		}
	}
	return float64(overlap) / float64(len(wantTokens))
}

// certificationTier finds the tier weight for a certification name,
// checking longer tier keywords before shorter ones.
func certificationTier(name string) float64 {
	keywords := make([]string, 0, len(certificationTiers))
	for keyword := range certificationTiers {
		keywords = append(keywords, keyword)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return certificationTiers[keyword]
		}
	}
	return defaultCertificationTier
}

// awardTFIDFThreshold switches the award measure from token overlap to
// TF-IDF cosine when both texts average more than this many characters.
const awardTFIDFThreshold = 20

// AwardSimilarity scores award descriptions. Long descriptions use a
// two-document TF-IDF cosine; short ones fall back to token Jaccard,
// where sparse term statistics make TF-IDF unstable.
type AwardSimilarity struct{}

// NewAwardSimilarity returns the award measure.
func NewAwardSimilarity() *AwardSimilarity {
	return &AwardSimilarity{}
}

func (a *AwardSimilarity) Calculate(_ context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	reference = strings.TrimSpace(reference)
	if subject == "" || reference == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	avgLen := float64(len(subject)+len(reference)) / 2
	if avgLen > awardTFIDFThreshold {
		score := clampUnit(tfidfCosine(subject, reference))
		return core.NewCriterionScore(score, "tfidf_cosine", map[string]any{
			"avg_length": avgLen,
		})
	}

	score := jaccard(tokenSet(subject), tokenSet(reference))
	return core.NewCriterionScore(score, "token_overlap", map[string]any{
		"avg_length": avgLen,
	})
}

// Blend weights for the tech-stack measure.
const (
	techStackJaccardWeight   = 0.6
	techStackEmbeddingWeight = 0.4
)

// TechStackSimilarity scores comma-separated technology lists by
// blending exact item overlap with the cosine between mean item
// embeddings. The overlap term rewards using the same tools; the
// embedding term credits related ones (e.g. PyTorch against
// TensorFlow).
type TechStackSimilarity struct {
	embedder ai.Embedder
}

// NewTechStackSimilarity returns the hybrid tech-stack measure.
func NewTechStackSimilarity(embedder ai.Embedder) (*TechStackSimilarity, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &TechStackSimilarity{embedder: embedder}, nil
}

func (t *TechStackSimilarity) Calculate(ctx context.Context, subject, reference string) (core.CriterionScore, error) {
	subjectItems := splitList(strings.ToLower(subject))
	referenceItems := splitList(strings.ToLower(reference))
	if len(subjectItems) == 0 || len(referenceItems) == 0 {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	overlap := jaccard(itemSet(subjectItems), itemSet(referenceItems))

	subjectVecs, err := t.embedder.EmbedTexts(ctx, subjectItems, ai.RoleQuery)
	if err != nil {
		return core.CriterionScore{}, err
	}
	referenceVecs, err := t.embedder.EmbedTexts(ctx, referenceItems, ai.RolePassage)
	if err != nil {
		return core.CriterionScore{}, err
	}
	cos := ai.Dot(ai.MeanPool(subjectVecs), ai.MeanPool(referenceVecs))

	score := techStackJaccardWeight*overlap + techStackEmbeddingWeight*clampUnit(cos)
	return core.NewCriterionScore(score, "jaccard_embedding_blend", map[string]any{
		"overlap": overlap,
		"cosine":  cos,
	})
}

func itemSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
