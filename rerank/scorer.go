package rerank

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/core"
	"github.com/sjlee-dev/labmatch/similarity"
)

// Scorer reranks a candidate shortlist against a structured student
// profile. All measures are constructed up front; a Scorer is immutable
// after construction and safe for concurrent use.
type Scorer struct {
	config ScorerConfig
	logger *slog.Logger

	sentence   *similarity.SentenceSimilarity
	experience *similarity.SentenceWithKeyword
	portfolio  *similarity.PortfolioSimilarity

	major         *similarity.MajorSimilarity
	certification *similarity.CertificationSimilarity
	award         *similarity.AwardSimilarity
	techStack     *similarity.TechStackSimilarity

	language    *similarity.LanguageScoreSimilarity
	proficiency *similarity.ProficiencySimilarity
	gpa         *similarity.GPASimilarity
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithConfig replaces the default weight configuration.
func WithConfig(config ScorerConfig) Option {
	return func(s *Scorer) error {
		if err := config.Validate(); err != nil {
			return err
		}
		s.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScorer builds a scorer over the given embedder and weight
// configuration.
func NewScorer(embedder ai.Embedder, opts ...Option) (*Scorer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Scorer{
		config: DefaultScorerConfig(),
		logger: slog.Default().With("component", "reranking-scorer"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	var err error
	if s.sentence, err = similarity.NewSentenceSimilarity(embedder); err != nil {
		return nil, err
	}
	if s.experience, err = similarity.NewSentenceWithKeyword(embedder, s.config.KeywordOverlapWeight); err != nil {
		return nil, err
	}
	if s.portfolio, err = similarity.NewPortfolioSimilarity(embedder, s.config.PortfolioChunkSize); err != nil {
		return nil, err
	}
	if s.techStack, err = similarity.NewTechStackSimilarity(embedder); err != nil {
		return nil, err
	}
	s.major = similarity.NewMajorSimilarity()
	s.certification = similarity.NewCertificationSimilarity()
	s.award = similarity.NewAwardSimilarity()
	s.language = similarity.NewLanguageScoreSimilarity()
	s.proficiency = similarity.NewProficiencySimilarity()
	s.gpa = similarity.NewGPASimilarity()

	return s, nil
}

// Config returns the active weight configuration.
func (s *Scorer) Config() ScorerConfig {
	return s.config
}

// Rerank scores every shortlisted lab against the profile, drops
// candidates below the final-score threshold, and returns the remainder
// sorted by final score descending. Ties keep input order. A topK of
// zero or less returns all survivors.
func (s *Scorer) Rerank(ctx context.Context, profile core.StudentProfile, labs []*core.LabProfile, topK int) ([]core.FinalScore, error) {
	results := make([]core.FinalScore, 0, len(labs))
	for _, lab := range labs {
		score, err := s.ScoreLab(ctx, profile, lab)
		if err != nil {
			return nil, err
		}
		if score.FinalScore < s.config.MinScoreThreshold {
			continue
		}
		results = append(results, score)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	s.logger.Debug("reranked candidates",
		"preset", s.config.Name, "in", len(labs), "out", len(results))
	return results, nil
}

// ScoreLab computes the full three-tier score breakdown for one lab.
func (s *Scorer) ScoreLab(ctx context.Context, profile core.StudentProfile, lab *core.LabProfile) (core.FinalScore, error) {
	var out core.FinalScore
	out.LabId = lab.Id
	out.LabName = lab.Name

	// Sentence tier: narrative fields against their profile sections.
	interest, err := s.scoreField(ctx, s.sentence, profile.Interests,
		joinSections(lab, core.SectionResearch, core.SectionAbout), false)
	if err != nil {
		return out, err
	}
	experience, err := s.scoreField(ctx, s.experience, profile.Experience,
		joinSections(lab, core.SectionMethods, core.SectionProjects), false)
	if err != nil {
		return out, err
	}
	goal, err := s.scoreField(ctx, s.sentence, profile.Goals,
		firstSection(lab, core.SectionVision, core.SectionAbout), false)
	if err != nil {
		return out, err
	}
	portfolio, err := s.scoreField(ctx, s.portfolio, profile.Portfolio, lab.FullText(), false)
	if err != nil {
		return out, err
	}
	out.Sentence = core.SentenceDetail{
		Interest:   interest.Score,
		Experience: experience.Score,
		Goal:       goal.Score,
		Portfolio:  portfolio.Score,
	}
	out.SentenceScore = s.config.Sentence.Interest*interest.Score +
		s.config.Sentence.Experience*experience.Score +
		s.config.Sentence.Goal*goal.Score +
		s.config.Sentence.Portfolio*portfolio.Score

	// Keyword tier: categorical fields. A lab that states no
	// requirement neither rewards nor penalizes a candidate who has
	// something to show, hence the neutral midpoint on a missing
	// reference.
	major, err := s.scoreField(ctx, s.major, profile.Major, lab.Department, false)
	if err != nil {
		return out, err
	}
	certification, err := s.scoreField(ctx, s.certification, profile.Certifications,
		lab.Section(core.SectionRequirements), true)
	if err != nil {
		return out, err
	}
	award, err := s.scoreField(ctx, s.award, profile.Awards,
		lab.Section(core.SectionAchievements), true)
	if err != nil {
		return out, err
	}
	techStack, err := s.scoreField(ctx, s.techStack, profile.TechStack,
		firstSection(lab, core.SectionTechnologies, core.SectionMethods), true)
	if err != nil {
		return out, err
	}
	out.Keyword = core.KeywordDetail{
		Major:         major.Score,
		Certification: certification.Score,
		Award:         award.Score,
		TechStack:     techStack.Score,
	}
	out.KeywordScore = s.config.Keyword.Major*major.Score +
		s.config.Keyword.Certification*certification.Score +
		s.config.Keyword.Award*award.Score +
		s.config.Keyword.TechStack*techStack.Score

	// Numeric tier: requirements come from the configuration, so the
	// reference side is never empty. Unparseable profile values score
	// zero inside the measures.
	language, err := s.language.Calculate(ctx, profile.LanguageScore, s.config.RequiredLanguageScore)
	if err != nil {
		return out, err
	}
	proficiency, err := s.proficiency.Calculate(ctx, profile.Proficiency, s.config.RequiredProficiency)
	if err != nil {
		return out, err
	}
	gpa, err := s.gpa.Calculate(ctx, profile.GPA, s.config.ExpectedGPA)
	if err != nil {
		return out, err
	}
	out.Numeric = core.NumericDetail{
		Language:    language.Score,
		Proficiency: proficiency.Score,
		GPA:         gpa.Score,
	}
	out.NumericScore = s.config.Numeric.Language*language.Score +
		s.config.Numeric.Proficiency*proficiency.Score +
		s.config.Numeric.GPA*gpa.Score

	out.FinalScore = s.config.Tiers.Sentence*out.SentenceScore +
		s.config.Tiers.Keyword*out.KeywordScore +
		s.config.Tiers.Numeric*out.NumericScore
	return out, nil
}

// scoreField applies the missing-field rules around a measure: both
// sides empty is a neutral midpoint, an empty profile side scores zero,
// and an empty reference side is neutral only for fields where the lab
// simply stated no requirement.
func (s *Scorer) scoreField(ctx context.Context, measure similarity.Measure, subject, reference string, neutralOnMissingReference bool) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	reference = strings.TrimSpace(reference)
	if subject == "" && reference == "" {
		return core.NewCriterionScore(0.5, core.MethodNeutralDefault, nil)
	}
	if subject == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}
	if reference == "" && neutralOnMissingReference {
		return core.NewCriterionScore(0.5, core.MethodNeutralDefault, nil)
	}
	return measure.Calculate(ctx, subject, reference)
}

func joinSections(lab *core.LabProfile, names ...string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if text := lab.Section(name); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func firstSection(lab *core.LabProfile, names ...string) string {
	for _, name := range names {
		if text := lab.Section(name); text != "" {
			return text
		}
	}
	return ""
}
