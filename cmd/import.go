package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"data-importer/core/config"
	"data-importer/core/job"
	"data-importer/core/logger"
	"data-importer/core/reconcile"
	"data-importer/core/session"
	"data-importer/feature/product"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	applyImport    bool
	dryRunImport   bool
	yesConfirm     bool
	statusFilter   []string
	settingsPath   string
	migrateImport  bool
	maxShowEntries int
)

// importCmd parses one file, reconciles it and optionally applies it.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Reconcile a delimited file against the catalogue (report + optionally apply)",
	Long: `Parse a delimited file, reconcile it against the products table and
report NEW, MODIFIED, DELETED and FAULTY entries.

Examples:
  # Report only
  import catalogue.csv

  # Only show the changes
  import catalogue.csv --status NEW,MODIFIED

  # Apply NEW, MODIFIED and DELETED entries (interactive confirmation)
  import catalogue.csv --apply

  # Apply only new entries without prompting
  import catalogue.csv --apply --status NEW --yes

  # Walk through the apply without writing
  import catalogue.csv --apply --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&applyImport, "apply", false, "Apply the selected entries to the database")
	importCmd.Flags().BoolVar(&dryRunImport, "dry-run", false, "Run the apply job without writing")
	importCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the apply (non-interactive)")
	importCmd.Flags().StringSliceVar(&statusFilter, "status", nil, "Statuses to show and apply (NEW, MODIFIED, DELETED, ...)")
	importCmd.Flags().StringVar(&settingsPath, "settings", "", "Settings blob overlaid on the default mappings")
	importCmd.Flags().BoolVar(&migrateImport, "migrate", false, "Create or extend the products table first")
	importCmd.Flags().IntVar(&maxShowEntries, "show", 20, "Maximum number of entries printed (0 for all)")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if settingsPath != "" {
		cfg.Import.SettingsFile = settingsPath
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	statuses, err := parseStatuses(statusFilter)
	if err != nil {
		return err
	}

	svc, err := buildService(ctx, cfg, l, migrateImport)
	if err != nil {
		return err
	}

	file := args[0]
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	l.Info("Reconciling import", zap.String("file", file))
	summary, err := svc.Upload(ctx, filepath.Base(file), data)
	if err != nil {
		return err
	}
	printImportSummary(l, summary)

	filter := session.ShowAll()
	if len(statuses) > 0 {
		filter = session.FilterOf(statuses...)
	}
	entries, err := svc.Entries(summary.ID, filter)
	if err != nil {
		return err
	}
	printEntries(l, entries, maxShowEntries)

	if !applyImport {
		l.Info("No actions requested. Use --apply to write the changes.")
		return nil
	}

	if !dryRunImport && !confirmApply() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	jobID, err := svc.StartJob(ctx, summary.ID, product.JobRequest{Statuses: statuses, DryRun: dryRunImport})
	if err != nil {
		return fmt.Errorf("failed to start job: %w", err)
	}
	res, err := svc.WaitJob(ctx, jobID)
	if err != nil {
		return err
	}

	fmt.Println(res.Markdown())
	if res.State != job.StateCompleted {
		return fmt.Errorf("job %s ended %s", res.ID, res.State)
	}
	if len(res.Errors) > 0 {
		l.Warn("Job finished with errors", zap.Int("errors", len(res.Errors)))
	}
	return nil
}

func parseStatuses(names []string) ([]reconcile.Status, error) {
	var out []reconcile.Status
	for _, name := range names {
		s, ok := reconcile.ParseStatus(strings.ToUpper(strings.TrimSpace(name)))
		if !ok {
			return nil, fmt.Errorf("unknown status %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func printImportSummary(l *zap.Logger, s *product.Summary) {
	l.Info("Import report",
		zap.String("id", s.ID),
		zap.String("encoding", s.Stats.Encoding),
		zap.String("delimiter", s.Stats.Delimiter),
		zap.Int("rows", s.Stats.Rows),
		zap.Int("new", s.Counts[reconcile.StatusNew]),
		zap.Int("modified", s.Counts[reconcile.StatusModified]),
		zap.Int("deleted", s.Counts[reconcile.StatusDeleted]),
		zap.Int("unmodified", s.Counts[reconcile.StatusUnmodified]),
		zap.Int("faulty", s.Counts[reconcile.StatusFaulty]),
		zap.Int("unknown", s.Counts[reconcile.StatusUnknown]+s.Counts[reconcile.StatusUnknownModification]),
	)
	if len(s.Unknown) > 0 {
		l.Warn("Unmapped columns ignored", zap.Strings("columns", s.Unknown))
	}
	for _, w := range s.Warnings {
		l.Warn("Parse warning", zap.String("warning", w))
	}
}

func printEntries(l *zap.Logger, entries []session.Entry, maxShow int) {
	shown := len(entries)
	if maxShow > 0 && shown > maxShow {
		shown = maxShow
	}
	for _, e := range entries[:shown] {
		fields := []zap.Field{
			zap.Int("id", e.ID),
			zap.String("key", e.Key),
			zap.String("status", string(e.Status)),
		}
		if e.Line > 0 {
			fields = append(fields, zap.Int("line", e.Line))
		}
		if len(e.Diff) > 0 {
			fields = append(fields, zap.Any("was", e.Diff))
		}
		if len(e.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", e.Errors))
		}
		l.Info("Entry", fields...)
	}
	if len(entries) > shown {
		l.Info("Additional entries not shown", zap.Int("count", len(entries)-shown))
	}
}

// confirmApply prompts the user for confirmation or uses --yes flag.
func confirmApply() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to write the changes: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
