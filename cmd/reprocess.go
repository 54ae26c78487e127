package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"infosight-worker/config"
	"infosight-worker/pkg/llm"
	"infosight-worker/repository"
	"infosight-worker/service"
)

func reprocess(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess",
		Short: "re-run insight extraction over completed submissions",
		Run: func(cmd *cobra.Command, args []string) {
			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			ctx := logger.WithContext(context.Background())

			repo := repository.NewRepo(cfg.DB)
			llmClient := llm.NewClient(cfg.LLM)
			reprocessService := service.NewReprocessService(repo, llmClient, cfg)

			summary, err := reprocessService.ReprocessAll(ctx)
			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("reprocess run failed")
				os.Exit(1)
			}
			zerolog.Ctx(ctx).Info().
				Int("processed", summary.Processed).
				Int("updated", summary.Updated).
				Int("skipped", summary.Skipped).
				Int("failed", summary.Failed).
				Msg("reprocess run finished")
		},
	}
}
