package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/deribit-gex/internal/cache"
	"github.com/dgnsrekt/deribit-gex/internal/deribit"
	"github.com/dgnsrekt/deribit-gex/internal/gex"
)

func computeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compute SYMBOL",
		Short: "Run the GEX pipeline once and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(args[0])

			if !cfg.AllowedSymbol(symbol) {
				return fmt.Errorf("invalid symbol %q (valid: %s)", symbol, strings.Join(cfg.Symbols, ", "))
			}

			client := deribit.NewClient(
				cfg.Deribit.BaseURL,
				cfg.Deribit.RatePerSecond,
				time.Duration(cfg.Deribit.TimeoutSec)*time.Second,
				logger,
			)

			service := gex.NewService(client, cache.New[*gex.Result](), gex.Options{
				Concurrency: cfg.Batch.Concurrency,
				BatchDelay:  cfg.BatchDelay(),
				TTL:         cfg.CacheTTL(),
			}, logger)

			start := time.Now()
			result, err := service.Compute(cmd.Context(), symbol)
			if err != nil {
				return fmt.Errorf("computing gex: %w", err)
			}

			logger.Info("computation finished",
				zap.String("symbol", symbol),
				zap.Int("strikes", len(result.Strikes)),
				zap.Duration("duration", time.Since(start)),
			)

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}

			if output != "" {
				if err := os.WriteFile(output, encoded, 0644); err != nil {
					return fmt.Errorf("writing output: %w", err)
				}
				logger.Info("result written", zap.String("path", output))
				return nil
			}

			fmt.Println(string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to a file instead of stdout")

	return cmd
}
