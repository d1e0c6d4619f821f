package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kapu/mendy-translator-go/internal/domain"
	"github.com/kapu/mendy-translator-go/internal/service/assist"
	"github.com/kapu/mendy-translator-go/internal/util"
	"github.com/spf13/cobra"
)

func newTranslateCmd(opts *rootOptions) *cobra.Command {
	var (
		langs       []string
		asJSON      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "translate [flags] <phrase>",
		Short: "Translate an English hospital phrase",
		Long: `Translate an English hospital phrase and explain the situation.

Pass --lang more than once (or "all") to translate the same phrase into
several languages at once.

Examples:
  mendy translate "Please fill out this form"
  mendy translate --lang urdu --lang twi "Do you have any allergies?"
  mendy translate --lang all --json "Take a seat in the waiting room"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, logger, err := bootstrap(opts, "warn")
			if err != nil {
				return err
			}
			defer logger.Sync()

			text := strings.Join(args, " ")
			targets := expandLanguages(langs, container.Languages.IDs(), container.Languages.Default().ID)

			results, err := container.Assistant.TranslateAll(cmd.Context(), text, targets, concurrency)
			if err != nil {
				return err
			}
			return printTranslations(cmd.OutOrStdout(), results, asJSON)
		},
	}

	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, `target language id or tag (repeatable, "all" for every profile)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().IntVar(&concurrency, "concurrency", 3, "maximum concurrent requests when translating into several languages")
	return cmd
}

func newAdviseCmd(opts *rootOptions) *cobra.Command {
	var (
		lang   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "advise [flags] <symptom description>",
		Short: "Explain what kind of hospital care to seek",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, logger, err := bootstrap(opts, "warn")
			if err != nil {
				return err
			}
			defer logger.Sync()

			result, err := container.Assistant.Advise(cmd.Context(), domain.AdviceRequest{
				Symptom:  strings.Join(args, " "),
				Language: lang,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeIndentedJSON(out, result.ParsedAdvice)
			}
			_, err = fmt.Fprintln(out, result.Advice)
			return err
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "target language id or tag")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newLanguagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the configured target languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, logger, err := bootstrap(opts, "warn")
			if err != nil {
				return err
			}
			defer logger.Sync()

			out := cmd.OutOrStdout()
			def := container.Languages.Default().ID
			for _, p := range container.Languages.List() {
				marker := " "
				if p.ID == def {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-10s %-6s %s (%s)\n", marker, p.ID, p.Tag, p.EnglishName, p.Name)
			}
			return nil
		},
	}
}

// expandLanguages replaces every "all" with the configured profile IDs and
// drops repeats, keeping first-seen order. No selection means the default.
func expandLanguages(requested, available []string, defaultID string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, id := range requested {
		id = util.Normalize(id)
		if id == "all" {
			for _, a := range available {
				add(a)
			}
			continue
		}
		add(id)
	}
	if len(out) == 0 {
		out = []string{defaultID}
	}
	return out
}

type translationJSON struct {
	Language string `json:"language"`
	domain.ParsedTranslation
	Outcome string `json:"outcome,omitempty"`
	Error   string `json:"error,omitempty"`
}

func printTranslations(out io.Writer, results []assist.LanguageTranslation, asJSON bool) error {
	var failed int
	rows := make([]translationJSON, 0, len(results))
	for _, r := range results {
		row := translationJSON{Language: r.Language}
		if r.Err != nil {
			failed++
			row.Error = r.Err.Error()
		} else {
			row.Language = r.Result.Language
			row.ParsedTranslation = r.Result.ParsedTranslation
			row.Outcome = r.Result.Outcome.String()
		}
		rows = append(rows, row)
	}

	if asJSON {
		if err := writeIndentedJSON(out, rows); err != nil {
			return err
		}
	} else {
		for i, row := range rows {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", row.Language)
			if row.Error != "" {
				fmt.Fprintf(out, "error: %s\n", row.Error)
				continue
			}
			fmt.Fprintf(out, "%s\n%s\n\n%s\n%s\n\n%s\n%s\n",
				domain.MarkerTranslation, row.Translation,
				domain.MarkerContext, row.Context,
				domain.MarkerResponses, row.Responses)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d translations failed", failed, len(rows))
	}
	return nil
}

func writeIndentedJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
