package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smart-resume-match/internal/config"
	"smart-resume-match/internal/database"
	"smart-resume-match/internal/database/migration"
	dbpostgres "smart-resume-match/internal/database/postgres"
	"smart-resume-match/internal/domain/matching"
	"smart-resume-match/internal/events"
	"smart-resume-match/internal/infrastructure/cache"
	"smart-resume-match/internal/infrastructure/document"
	"smart-resume-match/internal/infrastructure/fetch"
	"smart-resume-match/internal/infrastructure/mail"
	"smart-resume-match/internal/infrastructure/messaging"
	"smart-resume-match/internal/repository"
	"smart-resume-match/internal/usecase"
	"smart-resume-match/internal/ws"
)

// Container owns every long-lived dependency. Optional backends stay nil
// when they are not configured.
type Container struct {
	Config config.Config
	Logger *log.Logger

	Engine *matching.Engine
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	AMQP   *messaging.AMQPPublisher
	Mailer *mail.SMTPNotifier

	Analyze       usecase.AnalyzeUsecase
	Batches       usecase.BatchUsecase
	Analyses      usecase.AnalysisUsecase
	Notifications usecase.NotificationUsecase
}

// LoadVocabulary reads the configured vocabulary file, or falls back to the
// built-in skill list.
func LoadVocabulary(cfg config.SkillsConfig) (*matching.Vocabulary, error) {
	path := strings.TrimSpace(cfg.VocabularyFile)
	if path == "" {
		return matching.NewVocabulary(matching.DefaultSkills)
	}
	return matching.LoadVocabularyFile(path)
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	vocab, err := LoadVocabulary(cfg.Skills)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	logger.Printf("vocabulary status=loaded phrases=%d fingerprint=%s", vocab.Len(), vocab.Fingerprint())

	c := &Container{
		Config: cfg,
		Logger: logger,
		Engine: matching.NewEngine(vocab),
		Hub:    ws.NewHub(logger),
	}

	if cfg.Database.Enabled() {
		if err := c.openDatabase(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	} else {
		logger.Printf("database status=disabled reason=not_configured")
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)

	if strings.TrimSpace(cfg.Messaging.RabbitMQURL) != "" {
		pub, err := messaging.NewAMQPPublisher(cfg.Messaging, logger)
		if err != nil {
			logger.Printf("messaging=amqp status=unavailable err=%v", err)
		} else {
			c.AMQP = pub
		}
	}

	mailer, err := mail.NewSMTPNotifier(cfg.Mail, logger)
	if err != nil {
		logger.Printf("mail status=disabled err=%v", err)
	} else {
		c.Mailer = mailer
	}

	c.wireUsecases()
	return c, nil
}

func (c *Container) openDatabase(ctx context.Context) error {
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connCtx, c.Config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	migCtx, migCancel := context.WithTimeout(ctx, 2*time.Minute)
	defer migCancel()
	r := migration.Runner{Dir: c.Config.Database.MigrationsDir, Logger: c.Logger}
	if err := r.Run(migCtx, db.SQLDB()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (c *Container) publisher() events.Publisher {
	fan := events.Fanout{c.Hub}
	if c.AMQP != nil {
		fan = append(fan, c.AMQP)
	}
	return fan
}

func (c *Container) wireUsecases() {
	pub := c.publisher()

	var (
		batches  repository.BatchRepository
		analyses repository.AnalysisRepository
	)
	if c.DB != nil {
		batches = repository.NewPostgresBatchRepository(c.DB)
		analyses = repository.NewPostgresAnalysisRepository(c.DB)
	}

	var skillCache usecase.SkillCache
	if c.Cache.Available() {
		skillCache = c.Cache
	}

	var notifier usecase.Notifier
	if c.Mailer != nil {
		notifier = c.Mailer
	}

	c.Analyze = usecase.NewAnalyzeUsecase(c.Engine, c.Logger)
	c.Batches = usecase.NewBatchUsecase(usecase.BatchDeps{
		Engine:    c.Engine,
		Documents: document.NewExtractor(),
		Fetcher:   fetch.NewJobDescriptionFetcher(c.Config.Fetch, c.Logger),
		Batches:   batches,
		Cache:     skillCache,
		CacheTTL:  c.Cache.TTL(),
		Publisher: pub,
		Logger:    c.Logger,
	})
	c.Analyses = usecase.NewAnalysisUsecase(analyses, pub, c.Logger)
	c.Notifications = usecase.NewNotificationUsecase(notifier, c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.AMQP != nil {
		errs = append(errs, c.AMQP.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
