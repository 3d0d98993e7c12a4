package cli

import (
	"fmt"

	"github.com/akolanti/intelliquery/internal/mcpServer"
	"github.com/spf13/cobra"
)

func (a *app) documentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Inspect or delete ingested documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get [doc-id]",
		Short: "Show document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.pipelines(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := svc.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(cmd, doc)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:        %s\n", doc.ID)
			fmt.Fprintf(out, "Filename:  %s\n", doc.Filename)
			fmt.Fprintf(out, "Type:      %s\n", doc.Kind)
			fmt.Fprintf(out, "Domain:    %s\n", doc.Domain)
			fmt.Fprintf(out, "Uploaded:  %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Size:      %d bytes\n", doc.SizeBytes)
			if doc.PageCount != nil {
				fmt.Fprintf(out, "Pages:     %d\n", *doc.PageCount)
			}
			fmt.Fprintf(out, "Processed: %v\n", doc.Processed)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "chunks [doc-id]",
		Short: "List the stored chunks in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.pipelines(cmd.Context())
			if err != nil {
				return err
			}
			chunks, err := svc.GetDocumentChunks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(cmd, chunks)
			}
			for _, c := range chunks {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n    %s\n", c.Index, c.ID, snippet(c.Content, 120))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d chunks\n", len(chunks))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [doc-id]",
		Short: "Delete a document with its chunks and vectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.pipelines(cmd.Context())
			if err != nil {
				return err
			}
			if err = svc.DeleteDocument(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	})
	return cmd
}

func (a *app) serveMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the query tools over MCP on stdio",
		Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
query_documents and get_document tools. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.pipelines(cmd.Context())
			if err != nil {
				return err
			}
			server, err := mcpServer.NewServer(svc)
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}
}
