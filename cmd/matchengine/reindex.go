package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
)

func newReindexCmd() *cobra.Command {
	var (
		kind         string
		limit        int
		rebuildIndex bool
	)

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Recompute embeddings for the most recently updated entities of a kind",
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := domain.ParseKind(kind)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runReindex(ctx, k, limit, rebuildIndex)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "entity kind: profile or posting")
	cmd.Flags().IntVar(&limit, "limit", 0, "max entities to process (0 = default)")
	cmd.Flags().BoolVar(&rebuildIndex, "rebuild-index", false,
		"drop and recreate the kind's index first (after changing dimensions or algorithm)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func runReindex(ctx context.Context, kind domain.Kind, limit int, rebuildIndex bool) error {
	a, err := bootstrap(ctx, "reindex")
	if err != nil {
		return err
	}
	defer a.Close()

	if rebuildIndex {
		if err := a.entities.RebuildIndex(ctx, kind); err != nil {
			return fmt.Errorf("rebuild index: %w", err)
		}
		a.logger.Info("Index rebuilt", zap.String("kind", string(kind)))
	}

	sum, err := a.indexer.Reindex(ctx, kind, limit)
	if err != nil {
		a.logger.Error("Reindex failed", zap.String("kind", string(kind)), zap.Error(err))
		return fmt.Errorf("reindex %s: %w", kind, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
