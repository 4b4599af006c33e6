// Package cli implements the lexflow command line: scan a document for
// placeholders, fill them interactively, or render them from a values file.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lexflow/backend/internal/dialogue"
	"lexflow/backend/internal/extraction"
	"lexflow/backend/internal/logging"
	"lexflow/backend/internal/render"
	"lexflow/backend/internal/repository"
	"lexflow/backend/internal/services"
	"lexflow/backend/pkg/models"
)

const localOwner = "local"

// Options configures the command tree.
type Options struct {
	// Driver answers prompts. Nil selects the survey terminal driver.
	Driver    PromptDriver
	Extractor *extraction.Extractor
	Logger    *logging.Logger
	Version   string
}

// NewRootCommand builds the lexflow command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Extractor == nil {
		opts.Extractor = extraction.NewExtractor(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	root := &cobra.Command{
		Use:   "lexflow",
		Short: "Fill legal document templates from the terminal",
		Long: `lexflow finds the placeholders of a plain-text legal document, classifies
them into fields and helps you fill them in.

Placeholders are written as [Name], {Name}, __Name__ or a run of three or
more underscores.`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTemplatesCmd(),
		newScanCmd(opts),
		newFillCmd(opts),
		newRenderCmd(opts),
	)
	return root
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List workflow templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tDOCUMENTS")
			for _, t := range models.Templates {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.EstimatedTime, strings.Join(t.Documents, ", "))
			}
			return w.Flush()
		},
	}
}

type scanReport struct {
	DocumentType string      `yaml:"document_type"`
	Jurisdiction string      `yaml:"jurisdiction"`
	Fields       []scanField `yaml:"fields"`
}

type scanField struct {
	ID          string  `yaml:"id"`
	Placeholder string  `yaml:"placeholder"`
	Label       string  `yaml:"label"`
	Type        string  `yaml:"type"`
	Confidence  float64 `yaml:"confidence"`
	Suggestion  string  `yaml:"suggestion,omitempty"`
	Note        string  `yaml:"note,omitempty"`
}

func newScanCmd(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan FILE",
		Short: "List the fields of a document as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			res, err := opts.Extractor.Extract(cmd.Context(), text)
			if err != nil {
				return err
			}

			report := scanReport{
				DocumentType: res.Analysis.DocumentType,
				Jurisdiction: res.Analysis.Jurisdiction,
				Fields:       make([]scanField, 0, len(res.Fields)),
			}
			for _, f := range res.Fields {
				report.Fields = append(report.Fields, scanField{
					ID:          f.ID,
					Placeholder: f.Placeholder,
					Label:       f.Label,
					Type:        string(f.Type),
					Confidence:  f.Confidence,
					Suggestion:  f.Suggestion,
					Note:        f.AdvisoryNote,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newFillCmd(opts Options) *cobra.Command {
	var (
		out        string
		valuesOut  string
		templateID string
	)
	cmd := &cobra.Command{
		Use:   "fill FILE",
		Short: "Fill a document's fields interactively",
		Long: `Walk through every field of FILE, validating each answer, then write the
completed document.

Examples:
  # Fill an NDA, writing nda_completed.txt
  lexflow fill nda.txt

  # Keep the answers for later re-rendering
  lexflow fill nda.txt --save-values answers.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			driver := opts.Driver
			if driver == nil {
				driver = NewSurveyDriver(cmd.OutOrStdout())
			}

			text, err := readDocument(args[0])
			if err != nil {
				return err
			}

			svc := services.NewWorkflowService(repository.NewMemoryStore(), opts.Extractor, opts.Logger)
			wf, err := svc.CreateWorkflow(ctx, localOwner, templateID)
			if err != nil {
				return err
			}
			if _, err := svc.UploadDocument(ctx, localOwner, wf.ID, filepath.Base(args[0]), text); err != nil {
				return err
			}

			wf, err = Fill(ctx, svc, driver, localOwner, wf.ID)
			if errors.Is(err, dialogue.ErrNoFields) {
				return driver.Info(ctx, "No placeholders found; nothing to fill.")
			}
			if err != nil {
				return err
			}

			doc, err := svc.RenderDocument(ctx, localOwner, wf.ID)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(filepath.Dir(args[0]), doc.Filename)
			}

			write, err := driver.Confirm(ctx, ConfirmConfig{Message: "Write " + out + "?", Default: true})
			if err != nil {
				return err
			}
			if !write {
				return nil
			}
			if err := os.WriteFile(out, []byte(doc.Text), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			if valuesOut != "" {
				if err := writeValues(valuesOut, wf.Fields); err != nil {
					return err
				}
			}
			return driver.Info(ctx, "Wrote "+out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <name>_completed.txt next to FILE)")
	cmd.Flags().StringVar(&valuesOut, "save-values", "", "also write the answers as a YAML values file")
	cmd.Flags().StringVar(&templateID, "template", "custom-doc", "workflow template id")
	return cmd
}

func newRenderCmd(opts Options) *cobra.Command {
	var (
		valuesPath   string
		out          string
		allowMissing bool
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Fill a document from a YAML values file",
		Long: `Substitute the values of a YAML file into FILE. Keys are placeholder names
(as printed by "lexflow scan") or field ids. Every value is validated
against its field type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}

			res, err := opts.Extractor.Extract(cmd.Context(), text)
			if err != nil {
				return err
			}
			if err := applyValues(res.Fields, values, allowMissing); err != nil {
				return err
			}

			doc := render.Render(text, res.Fields)
			for _, c := range doc.Conflicts {
				opts.Logger.Warn("overlapping placeholders", "placeholder", c.Placeholder, "contained_in", c.ContainedIn)
			}
			if out == "" || out == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), doc.Text)
				return err
			}
			return os.WriteFile(out, []byte(doc.Text), 0o644)
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML file of placeholder values")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default stdout)")
	cmd.Flags().BoolVar(&allowMissing, "allow-missing", false, "leave placeholders without a value untouched")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

// applyValues fills fields from values keyed by placeholder or id.
func applyValues(fields []models.Field, values map[string]string, allowMissing bool) error {
	var missing, invalid []string
	for i := range fields {
		f := &fields[i]
		v, ok := values[f.Placeholder]
		if !ok {
			v, ok = values[f.ID]
		}
		if !ok {
			missing = append(missing, f.Placeholder)
			continue
		}
		v = strings.TrimSpace(v)
		if err := dialogue.Validate(f.Type, v); err != nil {
			invalid = append(invalid, fmt.Sprintf("%s: %v", f.Placeholder, err))
			continue
		}
		f.Value = v
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid values:\n  %s", strings.Join(invalid, "\n  "))
	}
	if len(missing) > 0 && !allowMissing {
		return fmt.Errorf("missing values for: %s", strings.Join(missing, ", "))
	}
	return nil
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

func readValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse values %s: %w", path, err)
	}
	return values, nil
}

func writeValues(path string, fields []models.Field) error {
	node := &yaml.Node{Kind: yaml.MappingNode}
	sorted := append([]models.Field(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Placeholder < sorted[j].Placeholder })
	for _, f := range sorted {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Placeholder},
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, opts Options, args []string) error {
	root := NewRootCommand(opts)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
