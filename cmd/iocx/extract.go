package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/iocx/internal/extract"
	"github.com/fyrsmithlabs/iocx/internal/logging"
	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

func newExtractCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extract [file|-]...",
		Short: "Extract indicators from files or stdin",
		Long: `Extract indicators of compromise from one or more files, or from stdin.
Results from several files are merged into one record.

Examples:
  # Extract from a report
  iocx extract report.txt

  # Extract from stdin as YAML
  cat mail.eml | iocx extract - --format yaml

  # Human-readable listing
  iocx extract --format text a.log b.log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ctx := cmd.Context()
			tlds, _, err := tldSource(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			ex, err := newExtractor(a.cfg, a.logger, extractorDeps{tlds: tlds})
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"-"}
			}

			results := make([]*artifacts.Artifacts, 0, len(args))
			for _, path := range args {
				res, err := a.extractOne(ctx, ex, path)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			sum := artifacts.Sum(results...)
			if sum.IsEmpty() {
				sum = nil
			}
			return render(a.stdout, sum, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml or text")
	return cmd
}

// extractOne reads one input, enforcing extraction.max_input_bytes.
func (a *app) extractOne(ctx context.Context, ex *extract.Extractor, path string) (*artifacts.Artifacts, error) {
	limit := a.cfg.Extraction.MaxInputBytes

	if path != "-" {
		if info, err := os.Stat(path); err == nil && info.Size() > limit {
			return nil, fmt.Errorf("%w: %s: %d bytes exceeds limit of %d", extract.ErrRead, path, info.Size(), limit)
		}
		return ex.ExtractFile(ctx, path)
	}

	ctx = logging.WithSource(ctx, "stdin")
	data, err := io.ReadAll(io.LimitReader(a.stdin, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: stdin: %w", extract.ErrRead, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: stdin exceeds limit of %d bytes", extract.ErrRead, limit)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: stdin: content is not valid UTF-8", extract.ErrRead)
	}
	return ex.Scan(ctx, string(data))
}
