package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	prose "github.com/jdkato/prose/v2"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"yashubustudio/entitylinker/entitylinker"
	"yashubustudio/entitylinker/wikidata"
)

var version = "0.1.0"

type linkOptions struct {
	configPath   string
	textPath     string
	mentionsPath string
	outputPath   string
	resultCount  int
	window       int
	lang         string
	quiet        bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "entitylinker",
		Short: "Link named-entity mentions to knowledge-base records",
		Long: `entitylinker resolves person, organization and location mentions
found in free text to canonical Wikidata records, using the surrounding
context to pick among same-named candidates.`,
		Version: version,
	}
	rootCmd.AddCommand(linkCmd())
	rootCmd.AddCommand(initConfigCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func linkCmd() *cobra.Command {
	var opts linkOptions
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Resolve the mentions of a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config.json (default: ./config.json)")
	cmd.Flags().StringVar(&opts.textPath, "text", "", "file containing the document text (required)")
	cmd.Flags().StringVar(&opts.mentionsPath, "mentions", "", "CSV/TSV/JSON file with label,start,type mentions; omit to auto-tag")
	cmd.Flags().StringVar(&opts.outputPath, "output", "", "file for JSON results (default: stdout)")
	cmd.Flags().IntVar(&opts.resultCount, "results", 0, "override the configured search result count")
	cmd.Flags().IntVar(&opts.window, "window", -1, "override the configured context window (words each side)")
	cmd.Flags().StringVar(&opts.lang, "lang", "", "override the configured language code")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "suppress the progress bar")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func initConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a config.json populated with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg entitylinker.Config
			cfg.ApplyDefaults()
			if err := entitylinker.SaveConfig(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", configPathOrDefault(path))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "destination path (default: ./config.json)")
	return cmd
}

func configPathOrDefault(path string) string {
	if path == "" {
		return "config.json"
	}
	return path
}

func runLink(ctx context.Context, opts linkOptions) error {
	cfg, err := entitylinker.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.lang != "" {
		cfg.Lang = opts.lang
	}
	if opts.resultCount > 0 {
		cfg.ResultCount = opts.resultCount
	}
	if opts.window >= 0 {
		cfg.ContextWindow = opts.window
	}

	raw, err := os.ReadFile(opts.textPath)
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}
	text := string(raw)

	mentions, err := loadMentions(opts.mentionsPath, text)
	if err != nil {
		return err
	}
	if len(mentions) == 0 {
		return errors.New("no mentions to resolve")
	}

	embedder, err := entitylinker.NewOrtEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	defer embedder.Close()

	kb := wikidata.NewClient(wikidata.Config{
		UserAgent: cfg.KnowledgeBase.UserAgent,
		RateLimit: time.Duration(cfg.KnowledgeBase.RateLimitMillis) * time.Millisecond,
		CacheTTL:  time.Duration(cfg.KnowledgeBase.CacheTTLMinutes) * time.Minute,
	})

	logger := log.New(os.Stderr, "", log.LstdFlags)
	dispatcher := entitylinker.BuildDispatcher(kb, embedder, entitylinker.NewProseTokenizer(), cfg, logger)
	if !opts.quiet {
		bar := progressbar.New(len(mentions))
		dispatcher.OnProgress = func(done, total int) {
			_ = bar.Add(1)
		}
	}

	started := time.Now()
	results := dispatcher.LinkAll(ctx, text, mentions, entitylinker.ResolveOptions{
		ResultCount:   cfg.ResultCount,
		ContextWindow: cfg.ContextWindow,
	})
	if !opts.quiet {
		fmt.Fprintln(os.Stderr)
	}
	logger.Printf("resolved %d/%d mentions in %s", resolvedCount(results), len(mentions), time.Since(started).Round(time.Millisecond))

	return writeResults(opts.outputPath, results)
}

// loadMentions reads the mention file, or auto-tags the document with prose
// when no file was given. prose reports no offsets, so tagged mentions are
// located by scanning forward through the text.
func loadMentions(path, text string) ([]entitylinker.Mention, error) {
	if path != "" {
		mentions, err := entitylinker.ParseMentionFile(path, entitylinker.MentionParseOptions{})
		if err != nil {
			return nil, fmt.Errorf("read mentions: %w", err)
		}
		return mentions, nil
	}
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("tag document: %w", err)
	}
	var mentions []entitylinker.Mention
	cursor := 0
	for _, ent := range doc.Entities() {
		typ, ok := mentionType(ent.Label)
		if !ok {
			continue
		}
		at := strings.Index(text[cursor:], ent.Text)
		if at < 0 {
			continue
		}
		mentions = append(mentions, entitylinker.Mention{
			Label:       ent.Text,
			StartOffset: cursor + at,
			Type:        typ,
		})
		cursor += at + len(ent.Text)
	}
	return mentions, nil
}

func mentionType(proseLabel string) (entitylinker.MentionType, bool) {
	switch proseLabel {
	case "PERSON":
		return entitylinker.MentionPerson, true
	case "ORG", "ORGANIZATION":
		return entitylinker.MentionOrganization, true
	case "GPE":
		return entitylinker.MentionGeopolitical, true
	case "LOC", "LOCATION":
		return entitylinker.MentionLocation, true
	default:
		return "", false
	}
}

func resolvedCount(results []entitylinker.LinkResult) int {
	n := 0
	for _, r := range results {
		if r.Record != nil {
			n++
		}
	}
	return n
}

func writeResults(path string, results []entitylinker.LinkResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
