package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/internal/config"
	"github.com/Ayash-Bera/mentor/backend/internal/database"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/repository"
	"github.com/Ayash-Bera/mentor/backend/internal/services"
	"github.com/Ayash-Bera/mentor/backend/internal/tutor"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// demoStudent is a user with one questionnaire letter for every question
// and a short history of rated exchanges.
type demoStudent struct {
	Email     string
	Answer    string
	Exchanges []demoExchange
}

type demoExchange struct {
	Message       string
	Response      string
	Complexity    int
	Helpful       bool
	Understanding int
}

var (
	dryRun  = flag.Bool("dry-run", false, "Print what would be seeded without writing")
	verbose = flag.Bool("verbose", false, "Enable debug logging")

	demoStudents = []demoStudent{
		{
			Email:  "estructurado@example.com",
			Answer: "A",
			Exchanges: []demoExchange{
				{"¿Qué es una derivada?", "La derivada mide la tasa de cambio instantánea de una función.", 2, true, 4},
				{"¿Cómo se deriva un producto de funciones?", "Se aplica la regla del producto: (fg)' = f'g + fg'.", 3, true, 5},
			},
		},
		{
			Email:  "explorador@example.com",
			Answer: "B",
			Exchanges: []demoExchange{
				{"¿Por qué el cielo es azul?", "Por la dispersión de Rayleigh de la luz solar en la atmósfera.", 1, true, 3},
				{"¿Qué es la fotosíntesis?", "Es el proceso por el que las plantas convierten luz en energía química.", 2, false, 2},
			},
		},
		{
			Email:  "intensivo@example.com",
			Answer: "C",
			Exchanges: []demoExchange{
				{"no entiendo las fracciones", "Una fracción indica en cuántas partes divides algo y cuántas tomas.", 1, true, 2},
				{"¿Cómo sumo fracciones con el mismo denominador?", "Sumas los numeradores y mantienes el denominador.", 1, true, 4},
			},
		},
	}
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *dryRun {
		for _, s := range demoStudents {
			logger.WithFields(logrus.Fields{
				"email":     s.Email,
				"answer":    s.Answer,
				"exchanges": len(s.Exchanges),
			}).Info("Would seed student")
		}
		return
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		LogLevel:    cfg.Database.LogLevel,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	seeder := &studentSeeder{
		repos:   repository.NewRepositoryManager(dbManager.DB),
		topics:  tutor.NewTopicExtractor(),
		logger:  logger,
		started: time.Now().Add(-time.Duration(len(demoStudents)) * time.Hour),
	}
	seeder.profiles = services.NewProfileService(seeder.repos.User, seeder.repos.Questionnaire, logger)

	ctx := context.Background()
	for _, s := range demoStudents {
		if err := seeder.seed(ctx, s); err != nil {
			logger.WithError(err).WithField("email", s.Email).Fatal("Seeding failed")
		}
	}

	logger.Info("Demo data seeded successfully")
}

type studentSeeder struct {
	repos    *repository.RepositoryManager
	profiles *services.ProfileService
	topics   *tutor.TopicExtractor
	logger   *logrus.Logger
	started  time.Time
}

// seed is idempotent per email: an existing user is left untouched.
func (ss *studentSeeder) seed(ctx context.Context, s demoStudent) error {
	log := ss.logger.WithField("email", s.Email)

	if _, err := ss.repos.User.GetByEmail(ctx, s.Email); err == nil {
		log.Info("Student already exists, skipping")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := &models.User{Email: s.Email}
	if err := ss.repos.User.Create(ctx, user); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	result, err := ss.profiles.SubmitQuestionnaire(ctx, user.ID, uniformAnswers(s.Answer))
	if err != nil && !apperr.Is(err, apperr.KindConflict) {
		return fmt.Errorf("submitting questionnaire: %w", err)
	}

	for i, ex := range s.Exchanges {
		helpful := ex.Helpful
		understanding := ex.Understanding
		interaction := &models.Interaction{
			UserID:             user.ID,
			Message:            ex.Message,
			Response:           ex.Response,
			Topic:              ss.topics.MainTopic(ex.Message),
			ComplexityLevel:    ex.Complexity,
			Helpful:            &helpful,
			Understanding:      &understanding,
			InteractionQuality: services.InteractionQuality(&helpful, &understanding),
			Model:              "seed",
		}
		interaction.CreatedAt = ss.started.Add(time.Duration(i) * time.Minute)
		if err := ss.repos.Interaction.Record(ctx, interaction); err != nil {
			return fmt.Errorf("recording interaction: %w", err)
		}
	}

	fields := logrus.Fields{"exchanges": len(s.Exchanges)}
	if result != nil {
		fields["profile"] = result.Profile
	}
	log.WithFields(fields).Info("Seeded student")
	return nil
}

func uniformAnswers(letter string) models.QuestionnaireRequest {
	return models.QuestionnaireRequest{
		StudyTime: letter, SessionDuration: letter, LearningPace: letter,
		LearningStyle: letter, ContentFormat: letter, FeedbackPreference: letter,
		LearningGoals: letter, Motivators: letter, Challenges: letter,
		InterestAreas: letter, ExperienceLevel: letter, LearningTools: letter,
	}
}
