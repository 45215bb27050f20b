package cli

import (
	"context"
	"fmt"
	"log/slog"

	"decor-funnel/internal/app"
	"decor-funnel/internal/config"
	"decor-funnel/internal/infra/content"
	pgloader "decor-funnel/internal/infra/postgres"
	"decor-funnel/internal/quiz"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd copies the quiz and catalog from the content directory into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load quiz and catalog content into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	files := content.NewProvider(cfg.Content.Dir)
	quizID := cfg.Quiz.ID
	if quizID == "" {
		quizID = app.DefaultQuizID
	}
	doc, err := files.LoadQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	// refuse to seed a quiz the engine would reject at request time
	if _, err := quiz.NewGraph(quizID, doc); err != nil {
		return err
	}
	catalog, err := files.Catalog(ctx)
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pgloader.NewQuizLoader(pool).SaveQuiz(ctx, quizID, doc); err != nil {
		return err
	}
	if err := pgloader.NewCatalogLoader(pool, cfg.Postgres.CatalogID).SaveCatalog(ctx, catalog); err != nil {
		return err
	}
	slog.Info("content seeded", "quiz", quizID, "questions", len(doc.Questions), "items", len(catalog.Items))
	return nil
}
