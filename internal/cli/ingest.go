package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/spf13/cobra"
)

func (a *app) setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the vector collection and its payload indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.pipelines(cmd.Context())
			if err != nil {
				return err
			}
			if err = svc.Setup(cmd.Context()); err != nil {
				return fmt.Errorf("setup failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Vector collection ready.")
			return nil
		},
	}
}

func (a *app) ingestCmd() *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Extract, chunk, embed and index a PDF, DOCX, EML or MSG file",
		Long: `Runs the full ingestion pipeline on a local file. On failure the partially
stored document is removed again and the original error is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}
			if info.IsDir() {
				return errors.New("ingest expects a file, got a directory")
			}
			d, err := docModel.ParseDomain(domain)
			if err != nil {
				return err
			}
			if d == "" {
				return errors.New("--domain is required")
			}

			svc, err := a.pipelines(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := svc.IngestDocument(cmd.Context(), docModel.IngestRequest{
				Path:      path,
				Filename:  filepath.Base(path),
				Domain:    d,
				SizeBytes: info.Size(),
			})
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}

			if a.jsonOutput {
				return a.printJSON(cmd, doc)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s\n  document id: %s\n  domain:      %s\n", doc.Filename, doc.ID, doc.Domain)
			return nil
		},
	}
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "insurance, legal, hr, compliance or generic")
	return cmd
}
