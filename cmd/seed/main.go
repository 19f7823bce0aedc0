package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/rondagdag/audience-survey/internal/adapter/repository"
	"github.com/rondagdag/audience-survey/internal/domain/entities"
	"github.com/rondagdag/audience-survey/internal/usecase/keywords"
	"github.com/rondagdag/audience-survey/internal/usecase/survey"
	"github.com/rondagdag/audience-survey/pkg/config"
	pkgjwt "github.com/rondagdag/audience-survey/pkg/jwt"
)

type sampleAnswer struct {
	Role        string
	Level       string
	UsedAzureAI string
	Ratings     [5]int64
	Recommend   int64
	BestPart    string
	Improve     string
	Future      string
}

var sampleAnswers = []sampleAnswer{
	{"Developer", "Intermediate", "Yes", [5]int64{5, 4, 5, 4, 5}, 9,
		"The live demos of document extraction", "More time for questions", "Agents and tool calling"},
	{"Researcher", "Advanced", "Planning to", [5]int64{4, 4, 3, 3, 4}, 7,
		"Architecture diagrams and live demos", "Deeper dive on cost control", "Vector search at scale"},
	{"Student", "Beginner", "No", [5]int64{5, 5, 5, 4, 5}, 10,
		"Seeing paper surveys turn into charts", "Slower pace on the setup", "Getting started with prompt engineering"},
	{"Manager", "Intermediate", "Yes", [5]int64{3, 4, 4, 5, 3}, 6,
		"Keyword extraction from feedback", "Share the slides before the talk", "Responsible AI governance"},
	{"Hobbyist", "Expert", "Yes", [5]int64{4, 3, 4, 3, 4}, 8,
		"Confidence scores on extracted fields", "Compare with other document models", "Fine tuning and evaluation"},
}

func main() {
	name := flag.String("name", "Demo Session", "name of the seeded session")
	flag.Parse()

	log.Println("🚀 Seeding demo survey data...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Persistence.Backend == config.PersistenceMinIO || cfg.Persistence.Backend == config.PersistenceNone {
		log.Fatalf("❌ Seeding needs a file, postgres or sqlite backend, got %q", cfg.Persistence.Backend)
	}

	log.Printf("📦 Opening %s snapshot store...", cfg.Persistence.Backend)
	snapshots, closeSnapshots, err := repository.OpenSnapshotRepository(cfg, nil, logger)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer closeSnapshots()

	extractor, err := keywords.NewExtractor(&cfg.Keywords)
	if err != nil {
		log.Fatalf("Failed to initialize keyword extractor: %v", err)
	}
	store := survey.NewStore(extractor)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := snapshots.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load existing snapshot: %v", err)
	}
	store.Restore(snap)

	session := store.CreateSession(*name)
	mapper := survey.NewMapper(cfg.Extraction.MinConfidence)
	for _, a := range sampleAnswers {
		store.AddRecord(mapper.MapRecord(a.payload(), session.ID, ""))
	}

	if err := snapshots.Save(ctx, store.Snapshot()); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	log.Printf("✅ Created session %q (%s) with %d responses", session.Name, session.ID, len(sampleAnswers))

	jwtManager := pkgjwt.NewManager(cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)
	token, expiresAt, err := jwtManager.GenerateAdminToken()
	if err != nil {
		log.Fatalf("Failed to generate admin token: %v", err)
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("🔑 ADMIN TOKEN")
	fmt.Println("============================================================")
	fmt.Printf("Expires: %s\n", expiresAt.Format(time.RFC3339))
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println("============================================================")
}

func (a sampleAnswer) payload() entities.ExtractionPayload {
	return entities.ExtractionPayload{
		entities.FieldRole:                      entities.StringField(a.Role),
		entities.FieldAIKnowledgeLevel:          entities.StringField(a.Level),
		entities.FieldUsedAzureAI:               entities.StringField(a.UsedAzureAI),
		entities.FieldTopicEngagement:           entities.IntegerField(a.Ratings[0]),
		entities.FieldConceptClarity:            entities.IntegerField(a.Ratings[1]),
		entities.FieldDemoUsefulness:            entities.IntegerField(a.Ratings[2]),
		entities.FieldSkillLevelAppropriateness: entities.IntegerField(a.Ratings[3]),
		entities.FieldLearningOutcome:           entities.IntegerField(a.Ratings[4]),
		entities.FieldRecommendScore:            entities.IntegerField(a.Recommend),
		entities.FieldBestPart:                  entities.StringField(a.BestPart),
		entities.FieldImprovementSuggestions:    entities.StringField(a.Improve),
		entities.FieldFutureTopics:              entities.StringField(a.Future),
	}
}
