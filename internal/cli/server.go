package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/config"
	"classquiz-service/internal/domain"
	"classquiz-service/internal/identity"
	"classquiz-service/internal/infra/memory"
	pgstore "classquiz-service/internal/infra/postgres"
	redisinfra "classquiz-service/internal/infra/redis"
	"classquiz-service/internal/notify"
	"classquiz-service/internal/play"
	transport "classquiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var quizRepo app.QuizRepository
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		quizRepo = pgstore.NewQuizStore(pool)
	} else {
		quizRepo = seededRepository(ctx)
	}

	if redisClient != nil {
		quizRepo = redisinfra.NewQuestionCache(redisClient, quizRepo, quizTTL)
	} else {
		quizRepo = memory.NewQuestionCache(quizRepo, quizTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	notifier := notify.NewNotifier()
	grader := app.NewLocalGrader(quizRepo)
	service := app.NewQuizService(quizRepo, grader, sessions, notifier)
	service.SetFeedbackDelay(config.TTLDuration(cfg.Play.Feedback, play.FeedbackDuration))
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/play", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting classquiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seededRepository provides a demo quiz when no Postgres is configured.
func seededRepository(ctx context.Context) *memory.QuizRepository {
	repo := memory.NewQuizRepository()
	teacher := identity.Session{UserID: "teacher-1", Role: identity.RoleTeacher}
	quiz, err := repo.CreateQuiz(ctx, domain.Quiz{
		Title:     "Arithmetic basics",
		ClassName: "Math 101",
		Theme:     "arithmetic",
		CreatedBy: teacher.UserID,
	})
	if err != nil {
		return repo
	}
	_ = repo.SaveQuestions(ctx, quiz.ID, []domain.Question{
		{
			Statement: "What is 2 + 2?",
			Points:    10,
			Alternatives: []domain.Alternative{
				{Text: "3"},
				{Text: "4", IsCorrect: true},
				{Text: "5"},
			},
		},
		{
			Statement: "What is 3 x 3?",
			Points:    10,
			Penalty:   2,
			Alternatives: []domain.Alternative{
				{Text: "6"},
				{Text: "9", IsCorrect: true},
				{Text: "12"},
			},
		},
		{
			Statement: "What is 10 / 2?",
			Points:    10,
			Alternatives: []domain.Alternative{
				{Text: "5", IsCorrect: true},
				{Text: "2"},
			},
		},
	})
	return repo
}
