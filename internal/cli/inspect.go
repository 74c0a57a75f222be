package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexiflow/translation-platform/internal/domain"
	"github.com/lexiflow/translation-platform/internal/storage"
	"github.com/lexiflow/translation-platform/internal/submit"
)

func newStatusCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			if cfg.APIEndpoint == "" {
				fmt.Fprintln(deps.Out, "Not configured; run 'translate-cli configure' first.")
				return nil
			}

			fmt.Fprintf(deps.Out, "Endpoint:      %s\n", cfg.APIEndpoint)
			fmt.Fprintf(deps.Out, "API key:       %s\n", maskKey(cfg.APIKey))
			if cfg.OutputBucket != "" {
				fmt.Fprintf(deps.Out, "Output bucket: %s (%s)\n", cfg.OutputBucket, cfg.AWSRegion)
			}
			if !cfg.ConfiguredAt.IsZero() {
				fmt.Fprintf(deps.Out, "Configured at: %s\n", cfg.ConfiguredAt.Format("2006-01-02 15:04:05 MST"))
			}

			client := submit.NewClient(cfg.APIEndpoint, cfg.APIKey, deps.Log)
			if client.TestConnection(cmd.Context()) {
				fmt.Fprintln(deps.Out, "Connectivity:  OK")
			} else {
				fmt.Fprintln(deps.Out, "Connectivity:  UNREACHABLE")
			}

			if recent := deps.Ledger.List(1); len(recent) > 0 {
				last := recent[0]
				fmt.Fprintf(deps.Out, "Last activity: %s (%s, %d sentence(s))\n",
					last.Timestamp.Format("2006-01-02 15:04:05 MST"), last.TranslationID, last.SentenceCount)
			}
			fmt.Fprintf(deps.Out, "History:       %d record(s)\n", deps.Ledger.Len())
			return nil
		},
	}
}

func newGetStatusCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get-status <translation-id>",
		Short: "Check whether a translation's result document exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, ok := deps.Ledger.Find(args[0])
			if !ok {
				return fmt.Errorf("no history record matches %q", args[0])
			}

			fmt.Fprintf(deps.Out, "Translation:  %s\n", record.TranslationID)
			fmt.Fprintf(deps.Out, "Submitted:    %s\n", record.Timestamp.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(deps.Out, "Languages:    %s → %s\n", record.SourceLang, strings.Join(record.TargetLangs, ", "))
			fmt.Fprintf(deps.Out, "Sentences:    %d\n", record.SentenceCount)
			fmt.Fprintf(deps.Out, "Location:     %s\n", record.OutputLocation)

			reader, bucket, err := resultReader(cmd.Context(), deps)
			if err != nil {
				fmt.Fprintf(deps.Out, "Status:       recorded locally (storage not checked: %v)\n", err)
				return nil
			}
			if err := reader.Head(cmd.Context(), bucket, record.S3Key); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					fmt.Fprintln(deps.Out, "Status:       processing (result document not present yet)")
					return nil
				}
				return fmt.Errorf("check result document: %w", err)
			}
			fmt.Fprintln(deps.Out, "Status:       completed (result document present)")
			return nil
		},
	}
}

func newListCommand(deps *Deps) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := deps.Ledger.List(limit)
			if len(records) == 0 {
				fmt.Fprintln(deps.Out, "No translations yet.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(deps.Out, "%s  %s  %s → %s  %d sentence(s)\n",
					shortID(r.TranslationID),
					r.Timestamp.Format("2006-01-02 15:04"),
					r.SourceLang,
					strings.Join(r.TargetLangs, ","),
					r.SentenceCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of records to show")
	return cmd
}

func newShowCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <translation-id>",
		Short: "Fetch and display a stored translation result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, ok := deps.Ledger.Find(args[0])
			if !ok {
				return fmt.Errorf("no history record matches %q", args[0])
			}

			reader, bucket, err := resultReader(cmd.Context(), deps)
			if err != nil {
				return err
			}

			body, err := reader.Get(cmd.Context(), bucket, record.S3Key)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("result for %s is not available yet", record.TranslationID)
				}
				return fmt.Errorf("fetch result document: %w", err)
			}

			var doc domain.ResultDocument
			if err := json.Unmarshal(body, &doc); err != nil {
				return fmt.Errorf("decode result document: %w", err)
			}

			fmt.Fprintf(deps.Out, "Translation %s (%s)\n", doc.TranslationID, doc.Timestamp)
			for _, lang := range doc.RequestInfo.TargetLanguages {
				translations, ok := doc.Translations[lang]
				if !ok {
					continue
				}
				fmt.Fprintf(deps.Out, "\n%s → %s:\n", doc.SourceLanguage, lang)
				for i, t := range translations {
					fmt.Fprintf(deps.Out, "  %d. %s\n", i+1, t)
				}
			}
			return nil
		},
	}
}

// resultReader builds the storage client for reading result documents, or
// explains why it cannot.
func resultReader(ctx context.Context, deps *Deps) (*storage.S3Store, string, error) {
	cfg, err := deps.Config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("load configuration: %w", err)
	}
	if cfg.OutputBucket == "" {
		return nil, "", fmt.Errorf("no output bucket configured")
	}
	store, err := storage.NewS3(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, "", fmt.Errorf("storage client: %w", err)
	}
	return store, cfg.OutputBucket, nil
}

// maskKey hides all but the tail of a credential.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

// shortID abbreviates a UUID for list output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
