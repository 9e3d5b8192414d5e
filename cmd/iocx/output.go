package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/iocx/pkg/artifacts"
)

// Output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

var (
	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			PaddingLeft(2)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))
)

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatYAML, formatText:
		return nil
	}
	return fmt.Errorf("unknown format %q (want json, yaml or text)", format)
}

// render writes res in format. A nil res renders as an empty record.
func render(w io.Writer, res *artifacts.Artifacts, format string) error {
	if res == nil {
		res = artifacts.Empty()
	}

	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()

	case formatText:
		_, err := io.WriteString(w, renderText(res))
		return err

	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

// renderText lists each present category with its entries.
func renderText(res *artifacts.Artifacts) string {
	if res.IsEmpty() {
		return emptyStyle.Render("no indicators found") + "\n"
	}

	var b strings.Builder
	for _, c := range artifacts.Categories() {
		values := res.Get(c)
		if len(values) == 0 {
			continue
		}
		b.WriteString(categoryStyle.Render(c.String()))
		b.WriteString(" ")
		b.WriteString(countStyle.Render(fmt.Sprintf("(%d)", len(values))))
		b.WriteString("\n")
		for _, v := range values {
			b.WriteString(valueStyle.Render(v))
			b.WriteString("\n")
		}
	}
	return b.String()
}
