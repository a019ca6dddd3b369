package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/miosync-masa/digit-consonance/internal/cli"
	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/config"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/miosync-masa/digit-consonance/internal/service"
	"github.com/miosync-masa/digit-consonance/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage opens the zero-table cache and applies migrations.
func initStorage(ctx context.Context) (service.ZeroStore, error) {
	dbPath := config.ExpandPath(viper.GetString(config.KeyDBPath))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStore(store service.ZeroStore) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// bindFlags binds the running command's flags to config keys. Commands share
// keys, so binding happens at run time rather than at construction.
func bindFlags(cmd *cobra.Command, bindings map[string]string) error {
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// enumerateOptions builds enumerator options from configuration.
func enumerateOptions() ([]consonance.EnumerateOption, error) {
	mode, err := consonance.ParseRangeMode(viper.GetString(config.KeyRange))
	if err != nil {
		return nil, err
	}
	threshold := viper.GetInt(config.KeyThreshold)
	if threshold < 1 {
		return nil, fmt.Errorf("%w: consonance threshold %d must be at least 1", common.ErrInvalidConfig, threshold)
	}
	return []consonance.EnumerateOption{
		consonance.WithRangeMode(mode),
		consonance.WithThreshold(threshold),
	}, nil
}

func newFormatter() *cli.Formatter {
	return cli.NewFormatter(viper.GetInt(config.KeyMaxDisplay))
}

// parseIntList parses "3,4,5" or repeated arguments into integers.
func parseIntList(values []string) ([]int, error) {
	var out []int
	for _, v := range values {
		for _, field := range strings.Split(v, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, common.NewUserError(fmt.Sprintf("%q is not an integer", field), err)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

func render(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}
