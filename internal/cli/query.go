package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/spf13/cobra"
)

func (a *app) queryCmd() *cobra.Command {
	var (
		domain        string
		documentIDs   []string
		maxResults    int
		noExplanation bool
	)

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Ask a question over the ingested documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := docModel.ParseDomain(domain)
			if err != nil {
				return err
			}
			req := docModel.QueryRequest{
				Query:              strings.Join(args, " "),
				Domain:             d,
				DocumentIDs:        documentIDs,
				MaxResults:         maxResults,
				IncludeExplanation: !noExplanation,
			}
			if err = rag.NormalizeQuery(&req); err != nil {
				return err
			}

			svc, err := a.pipelines(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := svc.Query(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("query failed: %w", err)
			}
			if a.jsonOutput {
				return a.printJSON(cmd, resp)
			}
			printAnswer(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "restrict to one domain")
	cmd.Flags().StringSliceVar(&documentIDs, "document-id", nil, "restrict to these documents (repeatable)")
	cmd.Flags().IntVarP(&maxResults, "max-results", "n", config.DefaultMaxResults, "chunks to retrieve (1-20)")
	cmd.Flags().BoolVar(&noExplanation, "no-explanation", false, "skip the model and only list the retrieved chunks")
	return cmd
}

func printAnswer(w io.Writer, resp docModel.QueryResponse) {
	fmt.Fprintf(w, "Answer: %s\n", resp.Answer)
	r := resp.DecisionRationale
	if r.Reasoning != "" {
		fmt.Fprintf(w, "\nReasoning (confidence %.2f):\n  %s\n", r.ConfidenceScore, r.Reasoning)
	}
	printList(w, "Supporting evidence", r.SupportingEvidence)
	printList(w, "Conditions", r.Conditions)
	printList(w, "Limitations", r.Limitations)
	if resp.AdditionalConsiderations != "" {
		fmt.Fprintf(w, "\nAdditional considerations:\n  %s\n", resp.AdditionalConsiderations)
	}

	if len(resp.RetrievedChunks) == 0 {
		fmt.Fprintln(w, "\nNo matching chunks.")
		return
	}
	fmt.Fprintln(w, "\nSources:")
	for i, c := range resp.RetrievedChunks {
		name := c.Filename()
		if name == "" {
			name = c.DocumentID
		}
		fmt.Fprintf(w, "  [%d] %s (%.3f)\n", i+1, name, c.Score)
		fmt.Fprintf(w, "      %s\n", snippet(c.Content, 160))
	}
	fmt.Fprintf(w, "\n%.2fs\n", resp.ProcessingTime)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
