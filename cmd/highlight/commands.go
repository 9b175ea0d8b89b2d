package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dgallion1/coursesearch/internal/catalog"
	"github.com/dgallion1/coursesearch/internal/highlight"
	"github.com/dgallion1/coursesearch/internal/parser"
	"github.com/spf13/cobra"
)

var catalogPath string

var rootCmd = &cobra.Command{
	Use:           "highlight",
	Short:         "Search and highlight course pages offline",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var markCmd = &cobra.Command{
	Use:   "mark FILE|GLOB...",
	Short: "Render files as HTML with every match of --query highlighted",
	Long: `Render files as HTML with every match of --query highlighted.

A single file is written to stdout. Several files, or a ** pattern, need
--out; each result is written there as <name>.html, keeping its path
below the pattern's base directory. Two inputs that map to the same
output name are an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		pdftotext, _ := cmd.Flags().GetBool("pdftotext")
		outDir, _ := cmd.Flags().GetString("out")

		files, err := expandPatterns(args)
		if err != nil {
			return err
		}
		if outDir == "" {
			if len(files) != 1 {
				return fmt.Errorf("%d files matched, use --out to write them", len(files))
			}
			return runMark(cmd.OutOrStdout(), cmd.ErrOrStderr(), files[0].path, query, pdftotext)
		}
		names, err := outputNames(files)
		if err != nil {
			return err
		}
		for i, f := range files {
			if err := markToFile(filepath.Join(outDir, names[i]), cmd.ErrOrStderr(), f.path, query, pdftotext); err != nil {
				return err
			}
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest QUERY",
	Short: "List catalog suggestions for QUERY",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		suggestions := catalog.Suggest(cat.Courses, args[0], limit)
		if len(suggestions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matches found")
			return nil
		}
		for _, s := range suggestions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, s.Category)
		}
		return nil
	},
}

var cardsCmd = &cobra.Command{
	Use:   "cards [QUERY]",
	Short: "Show which catalog cards QUERY keeps visible",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, c := range catalog.FilterCards(cat.Courses, query) {
			state := "hidden"
			if c.Visible {
				state = "shown"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", state, c.Name, c.Category)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "catalog.yaml", "catalog file path")

	markCmd.Flags().StringP("query", "q", "", "text to highlight")
	markCmd.Flags().Bool("pdftotext", false, "fall back to pdftotext for PDF input")
	markCmd.Flags().StringP("out", "o", "", "directory for highlighted output")
	suggestCmd.Flags().Int("limit", catalog.DefaultSuggestionLimit, "maximum suggestions")

	rootCmd.AddCommand(markCmd, suggestCmd, cardsCmd)
}

// markTarget is an input file and its path relative to the base of the
// pattern that matched it.
type markTarget struct {
	path string
	rel  string
}

// expandPatterns resolves each argument as a doublestar glob. Arguments
// without glob syntax pass through unchanged so missing files still error
// at open time. Only supported file types are kept from glob matches.
func expandPatterns(args []string) ([]markTarget, error) {
	var files []markTarget
	seen := map[string]bool{}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			if !seen[arg] {
				seen[arg] = true
				files = append(files, markTarget{path: arg, rel: filepath.Base(arg)})
			}
			continue
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(arg))
		base = filepath.FromSlash(base)
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			if !parser.IsSupportedExtension(m) || seen[m] {
				continue
			}
			seen[m] = true
			rel, err := filepath.Rel(base, m)
			if err != nil {
				rel = filepath.Base(m)
			}
			files = append(files, markTarget{path: m, rel: rel})
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files matched")
	}
	return files, nil
}

// outputNames maps each target to <rel without extension>.html and fails
// if two targets would be written to the same file.
func outputNames(files []markTarget) ([]string, error) {
	names := make([]string, len(files))
	owner := make(map[string]string, len(files))
	for i, f := range files {
		name := strings.TrimSuffix(f.rel, filepath.Ext(f.rel)) + ".html"
		if prev, ok := owner[name]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, f.path, name)
		}
		owner[name] = f.path
		names[i] = name
	}
	return names, nil
}

func markToFile(dest string, errOut io.Writer, path, query string, pdftotext bool) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(errOut, "%s: ", path)
	if err := runMark(f, errOut, path, query, pdftotext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runMark(out, errOut io.Writer, path, query string, pdftotext bool) error {
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: pdftotext})
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := p.Parse(f, path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	n := highlight.Apply(doc.Body(), query)
	fmt.Fprintf(errOut, "%d matches\n", n)
	return doc.Render(out)
}
