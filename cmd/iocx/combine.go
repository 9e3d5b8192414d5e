package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

func newCombineCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "combine <result>...",
		Short: "Merge saved extraction results",
		Long: `Merge results previously written by 'iocx extract' into one sorted,
de-duplicated record. Files ending in .yaml or .yml are read as YAML,
everything else as JSON.

Examples:
  iocx extract a.txt > a.json
  iocx extract b.txt > b.json
  iocx combine a.json b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			records := make([]*artifacts.Artifacts, 0, len(args))
			for _, path := range args {
				rec, err := readResult(path)
				if err != nil {
					return err
				}
				records = append(records, rec)
			}

			sum := artifacts.Sum(records...)
			if sum.IsEmpty() {
				sum = nil
			}
			return render(a.stdout, sum, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml or text")
	return cmd
}

// readResult decodes a saved record. An empty file or a JSON null is an
// empty record.
func readResult(path string) (*artifacts.Artifacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result %s: %w", path, err)
	}

	rec := artifacts.Empty()
	if len(bytes.TrimSpace(data)) == 0 {
		return rec, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, rec)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(rec)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding result %s: %w", path, err)
	}
	return rec, nil
}
