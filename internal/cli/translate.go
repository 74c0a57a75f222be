package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexiflow/translation-platform/internal/batch"
	"github.com/lexiflow/translation-platform/internal/domain"
	"github.com/lexiflow/translation-platform/internal/poll"
	"github.com/lexiflow/translation-platform/internal/storage"
	"github.com/lexiflow/translation-platform/internal/submit"
	"github.com/lexiflow/translation-platform/internal/validate"
)

func newTranslateCommand(deps *Deps) *cobra.Command {
	var (
		text         []string
		file         string
		sourceLang   string
		targetLangs  []string
		batchSize    int
		outputPath   string
		pollAttempts int
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Submit sentences for translation",
		Long: `Submit sentences for translation. Sentences come from repeated --text
flags or from --file (a JSON array, a JSON object with a "sentences" array,
or plain text with one sentence per line). Large inputs are split into
batches and submitted sequentially.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if cfg.APIEndpoint == "" {
				return fmt.Errorf("not configured; run 'translate-cli configure' first")
			}

			sentences := text
			if file != "" {
				if len(text) > 0 {
					return fmt.Errorf("--text and --file are mutually exclusive")
				}
				if sentences, err = readSentences(file); err != nil {
					return err
				}
			}

			req := domain.TranslationRequest{
				SourceLanguage:  strings.ToLower(strings.TrimSpace(sourceLang)),
				TargetLanguages: normalizeLangs(targetLangs),
				Sentences:       sentences,
			}
			// Batches are validated server-side too; checking the whole job
			// here fails fast before any chunk is sent. The per-request
			// sentence cap applies to a single batch, not the job.
			if err := validate.Request(capped(req, batchSize)); err != nil {
				return err
			}

			opts := []submit.Option{submit.WithProgress(progressPrinter())}
			if cfg.OutputBucket != "" {
				reader, err := storage.NewS3(cmd.Context(), cfg.AWSRegion)
				if err != nil {
					deps.Log.Warn().Err(err).Msg("storage unavailable, polling disabled")
				} else {
					pollOpts := []poll.Option{}
					if pollAttempts > 0 {
						pollOpts = append(pollOpts, poll.WithAttempts(pollAttempts))
					}
					opts = append(opts, submit.WithPoller(poll.New(reader, deps.Log, pollOpts...)))
				}
			}

			client := submit.NewClient(cfg.APIEndpoint, cfg.APIKey, deps.Log, opts...)
			result, err := client.SubmitJob(cmd.Context(), req, batchSize)
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			printJob(deps, req, result)

			if outputPath != "" {
				if err := writeOutput(outputPath, req, result); err != nil {
					return err
				}
				fmt.Fprintf(deps.Out, "\nResults written to %s\n", outputPath)
			}

			// History is written only once every batch has been accepted, so
			// an aborted job leaves no record.
			for _, resp := range result.Responses {
				record := domain.HistoryRecord{
					TranslationID:  resp.TranslationID,
					Timestamp:      time.Now().UTC(),
					SourceLang:     req.SourceLanguage,
					TargetLangs:    req.TargetLanguages,
					SentenceCount:  resp.Summary.SentencesProcessed,
					OutputLocation: resp.OutputLocation.URL,
					S3Key:          resp.OutputLocation.Key,
				}
				if err := deps.Ledger.Append(record); err != nil {
					deps.Log.Warn().Err(err).Str("translation_id", resp.TranslationID).Msg("failed to record history")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&text, "text", nil, "Sentence to translate (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "File with sentences to translate")
	cmd.Flags().StringVar(&sourceLang, "source-lang", "", "Source language code, e.g. en")
	cmd.Flags().StringSliceVar(&targetLangs, "target-langs", nil, "Target language codes, e.g. es,fr")
	cmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultSize, "Sentences per request")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write results as JSON to this file")
	cmd.Flags().IntVar(&pollAttempts, "poll-attempts", 0, "Retrieval attempts for deferred results (default 30)")

	return cmd
}

// normalizeLangs lowercases and trims codes, dropping empty entries left by
// trailing commas.
func normalizeLangs(langs []string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// capped narrows a job-sized request to one batch for validation purposes.
func capped(req domain.TranslationRequest, batchSize int) domain.TranslationRequest {
	if batchSize <= 0 {
		batchSize = batch.DefaultSize
	}
	if len(req.Sentences) > batchSize {
		narrowed := req
		narrowed.Sentences = req.Sentences[:batchSize]
		return narrowed
	}
	return req
}

// progressPrinter renders percentage updates in place on stderr.
func progressPrinter() func(float64) {
	return func(pct float64) {
		fmt.Fprintf(os.Stderr, "\rProgress: %3.0f%%", pct)
	}
}

func printJob(deps *Deps, req domain.TranslationRequest, result *submit.JobResult) {
	fmt.Fprintf(deps.Out, "Submitted %d sentence(s) in %d batch(es) (%.1fs)\n",
		len(req.Sentences), len(result.Responses), result.Elapsed.Seconds())

	for _, lang := range req.TargetLanguages {
		if _, ok := result.Translations[lang]; !ok && len(result.Pending) == 0 {
			continue
		}
		// Positioned keeps every translation at its original sentence
		// index even when an earlier batch is still pending.
		fmt.Fprintf(deps.Out, "\n%s → %s:\n", req.SourceLanguage, lang)
		for i, t := range result.Positioned(lang, len(req.Sentences)) {
			if t == "" {
				fmt.Fprintf(deps.Out, "  %d. (pending)\n", i+1)
				continue
			}
			fmt.Fprintf(deps.Out, "  %d. %s\n", i+1, t)
		}
	}

	if len(result.Pending) > 0 {
		fmt.Fprintf(deps.Out, "\n%d batch(es) not ready yet; results will appear at:\n", len(result.Pending))
		for _, p := range result.Pending {
			fmt.Fprintf(deps.Out, "  %s (sentences %d-%d)\n", p.Location.URL, p.Offset+1, p.Offset+p.Count)
		}
		fmt.Fprintln(deps.Out, "Use 'translate-cli show <id>' once processing completes.")
	}
}

func writeOutput(path string, req domain.TranslationRequest, result *submit.JobResult) error {
	ids := make([]string, 0, len(result.Responses))
	for _, resp := range result.Responses {
		ids = append(ids, resp.TranslationID)
	}
	// The dump keeps one entry per submitted sentence per language, with
	// pending positions empty, so indices match the input even when a
	// batch's result is still outstanding.
	positioned := make(domain.TranslationResult, len(req.TargetLanguages))
	for _, lang := range req.TargetLanguages {
		positioned[lang] = result.Positioned(lang, len(req.Sentences))
	}
	doc := struct {
		TranslationIDs  []string                 `json:"translation_ids"`
		SourceLanguage  string                   `json:"source_language"`
		TargetLanguages []string                 `json:"target_languages"`
		Translations    domain.TranslationResult `json:"translations"`
		Pending         []submit.PendingChunk    `json:"pending,omitempty"`
	}{ids, req.SourceLanguage, req.TargetLanguages, positioned, result.Pending}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
