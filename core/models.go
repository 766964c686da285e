package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from content so that reloading the same corpus
// produces the same identifiers.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Section names for the derived text sections of a lab profile.
// A profile may carry any subset; absent sections are empty strings.
const (
	SectionResearch     = "research"
	SectionAbout        = "about"
	SectionMethods      = "methods"
	SectionProjects     = "projects"
	SectionVision       = "vision"
	SectionAchievements = "achievements"
	SectionTechnologies = "technologies"
	SectionRequirements = "requirements"
)

// SectionNames lists all known section names in a fixed order.
// The order matters: text concatenation must be deterministic so that
// repeated runs over the same snapshot score identically.
var SectionNames = []string{
	SectionResearch,
	SectionAbout,
	SectionMethods,
	SectionProjects,
	SectionVision,
	SectionAchievements,
	SectionTechnologies,
	SectionRequirements,
}

// LabProfile is one corpus entity: a laboratory profile assembled from
// crawled documents. Profiles are loaded once per snapshot and are
// immutable while a snapshot is in service.
type LabProfile struct {
	Id          ID
	Name        string
	Professor   string
	Department  string
	Description string
	Homepage    string
	Location    string
	Sections    map[string]string
}

// Section returns the text of the named section, or "" when absent.
func (l *LabProfile) Section(name string) string {
	if l.Sections == nil {
		return ""
	}
	return l.Sections[name]
}

// SearchText returns the text used for stage-1 retrieval: the free-text
// description plus the research, about and projects sections.
func (l *LabProfile) SearchText() string {
	parts := make([]string, 0, 4)
	if l.Description != "" {
		parts = append(parts, l.Description)
	}
	for _, name := range []string{SectionResearch, SectionAbout, SectionProjects} {
		if text := l.Section(name); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// FullText returns every non-empty section joined in the fixed section
// order, used for long-form (portfolio) comparison.
func (l *LabProfile) FullText() string {
	parts := make([]string, 0, len(SectionNames))
	for _, name := range SectionNames {
		if text := l.Section(name); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Query is a single free-text research-interest statement.
type Query struct {
	Interests string
}

// StudentProfile holds the structured profile used for stage-2 reranking.
// Narrative fields are free text; list fields are comma-separated;
// numeric/ordinal fields are kept as strings and parsed by the
// similarity measures (unparseable values score 0.0, not an error).
type StudentProfile struct {
	// Narrative
	Interests  string // research interests and topics
	Experience string // technical experience and approach
	Goals      string // research goals and growth direction
	Portfolio  string // long-form portfolio text

	// Categorical
	Major          string
	Certifications string // comma-separated
	Awards         string
	TechStack      string // comma-separated

	// Numeric / ordinal
	LanguageScore string // standardized test score or grade (e.g. "850", "IM2")
	Proficiency   string // spoken proficiency level
	GPA           string
}

// CandidateScore is the per-lab stage-1 breakdown: every raw and
// normalized signal that contributed to the combined score.
type CandidateScore struct {
	LabId   ID
	LabName string

	LexicalRaw    float64 // raw BM25 score
	LexicalScore  float64 // log-damped, min-max normalized
	SemanticRaw   float64 // raw cosine similarity
	SemanticScore float64 // floored and rescaled
	DomainScore   float64 // taxonomy match score

	MatchedCategories []string // taxonomy categories matched on both sides
	Sources           []string // signal provenance: "lexical", "semantic", "domain"

	Combined float64
}

// Field-level detail blocks of a FinalScore. The JSON field names are
// part of the serving contract and must not change independently of it.

type SentenceDetail struct {
	Interest   float64 `json:"intro1"`
	Experience float64 `json:"intro2"`
	Goal       float64 `json:"intro3"`
	Portfolio  float64 `json:"portfolio"`
}

type KeywordDetail struct {
	Major         float64 `json:"major"`
	Certification float64 `json:"certification"`
	Award         float64 `json:"award"`
	TechStack     float64 `json:"tech_stack"`
}

type NumericDetail struct {
	Language    float64 `json:"language"`
	Proficiency float64 `json:"proficiency"`
	GPA         float64 `json:"gpa"`
}

// FinalScore is the per-candidate stage-2 aggregate: three tier scores,
// twelve field sub-scores and the weighted final score.
type FinalScore struct {
	LabId   ID     `json:"lab_id"`
	LabName string `json:"lab_name"`

	FinalScore    float64 `json:"final_score"`
	SentenceScore float64 `json:"sentence_score"`
	KeywordScore  float64 `json:"keyword_score"`
	NumericScore  float64 `json:"numeric_score"`

	Sentence SentenceDetail `json:"sentence_details"`
	Keyword  KeywordDetail  `json:"keyword_details"`
	Numeric  NumericDetail  `json:"numeric_details"`
}
