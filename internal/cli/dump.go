package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/qntx/userdb/internal/dump"
	"github.com/qntx/userdb/internal/ui"
)

// ----------------------------------------------------------------------------
// Commands
// ----------------------------------------------------------------------------

var (
	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write all users as TOML",
		Long: `Write every user as a [[user]] table. Output goes to stdout unless -o is
given; a file name ending in .xz is compressed.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: runExport,
	}

	importCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Add users from a TOML dump",
		Long: `Add every user in a file written by export. Ids in the file are ignored;
each record gets a fresh id. Files ending in .xz are decompressed.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: runImport,
	}
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd, importCmd)
}

// ----------------------------------------------------------------------------
// Handlers
// ----------------------------------------------------------------------------

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.store.All(cmd.Context())
	if err != nil {
		return err
	}

	if exportOutput == "" || exportOutput == "-" {
		return dump.Export(cmd.OutOrStdout(), users)
	}

	w, err := dump.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := dump.Export(w, users); err != nil {
		_ = w.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	a.printer.Success("Exported %d user(s) to %s", len(users), exportOutput)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	r, err := dump.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	users, err := dump.Import(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var (
		progress *ui.Progress
		bar      *ui.Bar
	)
	if !a.printer.Plain() && len(users) > 0 {
		progress = ui.NewProgress(cmd.ErrOrStderr())
		bar = progress.AddBar(filepath.Base(path), int64(len(users)))
	}

	start := time.Now()
	for _, u := range users {
		if _, err := a.store.Create(cmd.Context(), u.Name, u.Age, u.Address); err != nil {
			if bar != nil {
				bar.Abort(false)
				progress.Wait()
			}
			return err
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if progress != nil {
		progress.Wait()
	}

	elapsed := time.Since(start)

	total, err := a.store.Count(cmd.Context())
	if err != nil {
		return err
	}
	a.printer.Success("Imported %d user(s) in %s, %d in total", len(users), ui.FormatDuration(elapsed), total)
	return nil
}
