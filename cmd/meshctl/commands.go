package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lumina/internal/domain/models/mesh"
	"lumina/internal/service/search"
	"lumina/internal/service/session"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		types  string
		bucket string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search documents",
		Long: `Search documents by title, snippet, content and tags.

Examples:
  meshctl search orion
  meshctl search --type PDF,SHEET
  meshctl search api --time "Past 24 hours"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.services.Search.Search(cmd.Context(), &mesh.SearchOptions{
				Query: strings.Join(args, " "),
				Facets: mesh.Facets{
					Types: search.ParseTypes(types),
					Time:  mesh.TimeBucket(bucket),
				},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, res)
			}
			if res.Total == 0 {
				fmt.Fprintln(out, "No nodes found. Try clearing the filters.")
				return nil
			}
			fmt.Fprintf(out, "Found %d nodes:\n", res.Total)
			for i, d := range res.Results {
				fmt.Fprintf(out, "%2d. [%s] %s (%s, %s)\n", i+1, d.Type, d.Title, d.Author, d.UpdatedAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&types, "type", "t", "", "comma separated document types")
	cmd.Flags().StringVar(&bucket, "time", "", `recency bucket ("Past 24 hours", "Past week", "Past month")`)
	return cmd
}

func newAskCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the mesh assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.services.Sessions.Create()
			if _, err := s.ClearChat(); err != nil {
				return err
			}
			asked, err := s.Ask(strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asked.Ignored {
				fmt.Fprintln(out, "Nothing to ask.")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			tr, err := waitForReply(ctx, s)
			if err != nil {
				return err
			}

			if a.asJSON {
				return printJSON(out, tr.Messages)
			}
			if len(tr.Messages) == 0 {
				return nil
			}
			reply := tr.Messages[len(tr.Messages)-1]
			fmt.Fprintln(out, reply.Content)
			for _, src := range reply.Sources {
				fmt.Fprintf(out, "  source: %s (%s)\n", src.Title, src.ID)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for the reply")
	return cmd
}

// waitForReply polls the transcript until the assistant has answered
func waitForReply(ctx context.Context, s *session.Session) (*session.Transcript, error) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		tr, err := s.Transcript()
		if err != nil {
			return nil, err
		}
		if !tr.Typing {
			return tr, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for reply: %w", ctx.Err())
		}
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		query     string
		eventType string
		live      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List audit history",
		Long: `List audit history events, optionally running the live feed first.

Examples:
  meshctl history --type edit
  meshctl history --live 10s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.services.Sessions.Create()

			if live > 0 {
				if _, err := s.StartLive(); err != nil {
					return err
				}
				select {
				case <-time.After(live):
				case <-cmd.Context().Done():
				}
				if _, err := s.StopLive(); err != nil {
					return err
				}
			}

			page, err := s.History(cmd.Context(), query, eventType)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, page)
			}
			for _, e := range page.Events {
				fmt.Fprintf(out, "%-10s %-12s %-20s %s: %s\n", e.Type, e.Timestamp, e.User, e.Target, e.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by user, target or description")
	cmd.Flags().StringVarP(&eventType, "type", "t", "all", "event type (edit, access, provision, rollback)")
	cmd.Flags().DurationVar(&live, "live", 0, "run the live feed for this long before listing")
	return cmd
}

func newInsightsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insights <document-id>",
		Short: "Summarize a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.services.Catalog.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			panel, err := a.services.Insights.Analyze(cmd.Context(), doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, panel)
			}
			fmt.Fprintf(out, "%s\n\n%s\n\n", doc.Title, panel.Summary)
			for _, p := range panel.KeyPoints {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			fmt.Fprintf(out, "\nKey terms: %s\n", strings.Join(panel.KeyTerms, ", "))
			return nil
		},
	}
}
