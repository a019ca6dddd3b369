package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miosync-masa/digit-consonance/internal/cli"
	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/config"
	"github.com/miosync-masa/digit-consonance/internal/zeta"
	"github.com/spf13/cobra"
)

func zerosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zeros",
		Short: "Manage cached zeta zero tables",
		Long: `Import zeta zero tables from JSON into the local database so resonance
scans can reuse them by name.`,
	}

	cmd.AddCommand(zerosImportCmd())
	cmd.AddCommand(zerosListCmd())
	cmd.AddCommand(zerosShowCmd())
	cmd.AddCommand(zerosDeleteCmd())

	return cmd
}

func zerosImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a zero table from JSON",
		Long: `Import a zero table. The table is stored under --name, or under the file
name without its extension. Importing the same name again replaces it.

Example:
  consonance zeros import data/zeta_zeros_10000.json --name odlyzko-10k`,
		Args: cobra.ExactArgs(1),
		RunE: runZerosImport,
	}

	cmd.Flags().String("name", "", "Table name (default: file name)")
	cmd.Flags().Int("max", 0, "Import only the first N zeros (0 = all)")

	return cmd
}

func runZerosImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := config.ExpandPath(args[0])

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	maxZeros, _ := cmd.Flags().GetInt("max")

	table, err := zeta.Load(path, zeta.WithMaxZeros(maxZeros))
	if err != nil {
		return zeroFileError(path, err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStore(store)

	if err := store.SaveZeroTable(ctx, name, table); err != nil {
		return fmt.Errorf("failed to save zero table: %w", err)
	}

	common.LogInfo("Imported zero table", common.Fields{
		"name":   name,
		"zeros":  table.Len(),
		"source": table.Metadata.Source,
	})
	return render(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d zeros as %q", table.Len(), name)))
}

func zerosListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached zero tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStore(store)

			infos, err := store.ListZeroTables(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), newFormatter().FormatZeroTables(infos))
		},
	}
}

func zerosShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a cached zero table",
		Args:  cobra.ExactArgs(1),
		RunE:  runZerosShow,
	}

	cmd.Flags().Int("max-display", 10, "Zeros to list (0 = all)")

	return cmd
}

func runZerosShow(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{config.KeyMaxDisplay: "max-display"}); err != nil {
		return err
	}

	store, err := initStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStore(store)

	table, err := store.LoadZeroTable(cmd.Context(), args[0], 0)
	if err != nil {
		return tableError(args[0], err)
	}
	return render(cmd.OutOrStdout(), newFormatter().FormatZeroTable(args[0], table))
}

func zerosDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a cached zero table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStore(store)

			if err := store.DeleteZeroTable(cmd.Context(), args[0]); err != nil {
				return tableError(args[0], err)
			}
			return render(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted zero table %q", args[0])))
		},
	}
}

func tableError(name string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf("zero table %q not found; see 'consonance zeros list'", name), err)
	}
	return err
}

func zeroFileError(path string, err error) error {
	switch {
	case errors.Is(err, common.ErrMalformedZeroFile):
		return common.NewUserError(fmt.Sprintf("%s is not a valid zero table", path), err)
	case errors.Is(err, common.ErrEmptyZeroSet):
		return common.NewUserError(fmt.Sprintf("%s contains no zeros", path), err)
	case errors.Is(err, os.ErrNotExist):
		return common.NewUserError(fmt.Sprintf("zero file %s does not exist", path), err)
	default:
		return fmt.Errorf("failed to load zeros: %w", err)
	}
}
