// Copyright 2025 Labmatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/sjlee-dev/labmatch"
	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/ai/openai"
	"github.com/sjlee-dev/labmatch/core"
	"github.com/sjlee-dev/labmatch/rerank"
	"github.com/sjlee-dev/labmatch/storage/badger"
)

func main() {
	// A missing .env file is not an error; the flags below have
	// environment fallbacks for deployments that use one.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "labmatch",
		Usage: "Two-stage student-to-lab matching over a lab-profile corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load lab profiles from a JSON file into the corpus database",
				Action: seedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "src",
						Usage:    "Path to a JSON file with an array of lab profiles",
						Required: true,
					},
				},
			},
			{
				Name:   "candidates",
				Usage:  "Run stage-1 retrieval for a free-text interest query",
				Action: candidatesCommand,
				Flags: []cli.Flag{
					dbFlag(),
					embeddingHostFlag(),
					embeddingModelFlag(),
				},
			},
			{
				Name:   "match",
				Usage:  "Run the full two-stage pipeline for a student profile",
				Action: matchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					embeddingHostFlag(),
					embeddingModelFlag(),
					&cli.StringFlag{
						Name:     "profile",
						Aliases:  []string{"p"},
						Usage:    "Path to a student profile YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "preset",
						Usage: "Weight preset (default, research, skill, academic)",
						Value: "default",
					},
					&cli.StringFlag{
						Name:  "weights",
						Usage: "Path to a custom weight configuration YAML file (overrides preset)",
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "Maximum number of results",
						Value: 10,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show corpus statistics",
				Action: statsCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB corpus directory",
		Value:   "./labmatch_db",
		EnvVars: []string{"LABMATCH_DB"},
	}
}

func embeddingHostFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "embedding-host",
		Usage:   "Embedding service host URL",
		Value:   "http://localhost:11434/v1",
		EnvVars: []string{"LABMATCH_EMBEDDING_HOST"},
	}
}

func embeddingModelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "embedding-model",
		Usage:   "Embedding model name",
		Value:   "multilingual-e5-large",
		EnvVars: []string{"LABMATCH_EMBEDDING_MODEL"},
	}
}

// labInput mirrors the seed file schema.
type labInput struct {
	Name        string            `json:"name"`
	Professor   string            `json:"professor"`
	Department  string            `json:"department"`
	Description string            `json:"description"`
	Homepage    string            `json:"homepage"`
	Location    string            `json:"location"`
	Sections    map[string]string `json:"sections"`
}

func seedCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("src"))
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var inputs []labInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()
	repo := badger.NewCorpusRepository(backend)

	labs := make([]*core.LabProfile, len(inputs))
	for i, in := range inputs {
		labs[i] = &core.LabProfile{
			Name:        in.Name,
			Professor:   in.Professor,
			Department:  in.Department,
			Description: in.Description,
			Homepage:    in.Homepage,
			Location:    in.Location,
			Sections:    in.Sections,
		}
	}
	if _, err := repo.PutLabs(c.Context, labs...); err != nil {
		return fmt.Errorf("failed to store profiles: %w", err)
	}

	fmt.Printf("Stored %d lab profiles\n", len(labs))
	return nil
}

func candidatesCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("usage: labmatch candidates <interest query>")
	}
	query := strings.Join(c.Args().Slice(), " ")

	engine, backend, err := openEngine(c.Context, c)
	if err != nil {
		return err
	}
	defer backend.Close()
	defer engine.Close()

	results, err := engine.Candidates(c.Context, core.Query{Interests: query})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d candidates\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s (%d) combined=%.3f lexical=%.3f semantic=%.3f domain=%.3f [%s]\n",
			i+1, hit.LabName, hit.LabId, hit.Combined,
			hit.LexicalScore, hit.SemanticScore, hit.DomainScore,
			strings.Join(hit.Sources, ","))
	}
	return nil
}

// profileInput mirrors the student profile YAML schema.
type profileInput struct {
	Interests      string `yaml:"interests"`
	Experience     string `yaml:"experience"`
	Goals          string `yaml:"goals"`
	Portfolio      string `yaml:"portfolio"`
	Major          string `yaml:"major"`
	Certifications string `yaml:"certifications"`
	Awards         string `yaml:"awards"`
	TechStack      string `yaml:"tech_stack"`
	LanguageScore  string `yaml:"language_score"`
	Proficiency    string `yaml:"proficiency"`
	GPA            string `yaml:"gpa"`
}

func matchCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("profile"))
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	var in profileInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}
	profile := core.StudentProfile{
		Interests:      in.Interests,
		Experience:     in.Experience,
		Goals:          in.Goals,
		Portfolio:      in.Portfolio,
		Major:          in.Major,
		Certifications: in.Certifications,
		Awards:         in.Awards,
		TechStack:      in.TechStack,
		LanguageScore:  in.LanguageScore,
		Proficiency:    in.Proficiency,
		GPA:            in.GPA,
	}

	config, err := rerank.ScorerConfigByName(c.String("preset"))
	if err != nil {
		return err
	}
	if weightsPath := c.String("weights"); weightsPath != "" {
		data, err := os.ReadFile(weightsPath)
		if err != nil {
			return fmt.Errorf("failed to read weights: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("failed to parse weights: %w", err)
		}
		if err := config.Validate(); err != nil {
			return err
		}
	}

	engine, backend, err := openEngine(c.Context, c)
	if err != nil {
		return err
	}
	defer backend.Close()
	defer engine.Close()

	results, err := engine.MatchWithConfig(c.Context, profile, config, c.Int("top"))
	if err != nil {
		return err
	}

	fmt.Printf("Matched %d labs (config: %s)\n", len(results), config.Name)
	for i, hit := range results {
		fmt.Printf("%d: %s (%d) final=%.3f sentence=%.3f keyword=%.3f numeric=%.3f\n",
			i+1, hit.LabName, hit.LabId, hit.FinalScore,
			hit.SentenceScore, hit.KeywordScore, hit.NumericScore)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()
	repo := badger.NewCorpusRepository(backend)

	labs, err := repo.ListLabs(c.Context)
	if err != nil {
		return err
	}

	sections := make(map[string]int)
	for _, lab := range labs {
		for _, name := range core.SectionNames {
			if lab.Section(name) != "" {
				sections[name]++
			}
		}
	}

	fmt.Printf("Corpus: %d lab profiles\n", len(labs))
	for _, name := range core.SectionNames {
		fmt.Printf("  %s: %d\n", name, sections[name])
	}
	return nil
}

// openEngine builds an engine over the flag-configured database and
// embedding service. The caller closes both the engine and the backend.
func openEngine(ctx context.Context, c *cli.Context) (*labmatch.Engine, *badger.Backend, error) {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	engine, err := labmatch.NewEngine(ctx, badger.NewCorpusRepository(backend), embedder)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return engine, backend, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
