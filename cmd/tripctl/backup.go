package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"familytrips/internal/logging"
	"familytrips/internal/repository"
	"familytrips/internal/service"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the itinerary catalog to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				output = fmt.Sprintf("catalog_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			backups := service.NewBackupService(repository.NewItineraryRepository(db))
			n, err := backups.ExportFile(cmd.Context(), output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d itineraries to %s\n", n, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default catalog_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		input        string
		clearCatalog bool
		yes          bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an itinerary catalog from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file %s: %w", input, err)
			}

			if clearCatalog && !yes {
				ok, err := confirm(cmd, "This will delete the existing catalog. Type 'yes' to confirm: ")
				if err != nil {
					return err
				}
				if !ok {
					logging.Info().Msg("import cancelled")
					return nil
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if cfg.Database.AutoMigrate {
				if err := db.MigrateUp(); err != nil {
					return err
				}
			}

			backups := service.NewBackupService(repository.NewItineraryRepository(db))
			n, err := backups.ImportFile(cmd.Context(), input, clearCatalog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d itineraries from %s\n", n, input)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file (required)")
	cmd.Flags().BoolVar(&clearCatalog, "clear", false, "delete the existing catalog before importing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt for --clear")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "yes", nil
}
