package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	// FormatText is human-readable text output
	FormatText OutputFormat = "text"
	// FormatJSON is structured JSON output
	FormatJSON OutputFormat = "json"
	// FormatYAML is structured YAML output
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates an output format string.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (use text, json, or yaml)", s)
	}
}

// Formatter defines methods for formatting command output.
type Formatter interface {
	// PrintSuccess prints a success message
	PrintSuccess(message string) error
	// PrintTable prints a table with headers and rows
	PrintTable(headers []string, rows [][]string) error
	// PrintData prints arbitrary structured data
	PrintData(data any) error
}

// NewFormatter returns the formatter for the given output format.
func NewFormatter(format OutputFormat, w io.Writer) Formatter {
	if w == nil {
		w = os.Stdout
	}
	switch format {
	case FormatJSON:
		return &jsonFormatter{writer: w}
	case FormatYAML:
		return &yamlFormatter{writer: w}
	default:
		return &textFormatter{writer: w}
	}
}

// textFormatter renders human-readable output with aligned tables.
type textFormatter struct {
	writer io.Writer
}

func (f *textFormatter) PrintSuccess(message string) error {
	_, err := fmt.Fprintf(f.writer, "✓ %s\n", message)
	return err
}

func (f *textFormatter) PrintTable(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	headerLine := make([]string, len(headers))
	separator := make([]string, len(headers))
	for i, h := range headers {
		headerLine[i] = strings.ToUpper(h)
		separator[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(headerLine, "\t")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(tw, strings.Join(separator, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func (f *textFormatter) PrintData(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// jsonFormatter renders everything as JSON documents.
type jsonFormatter struct {
	writer io.Writer
}

func (f *jsonFormatter) PrintSuccess(message string) error {
	return f.PrintData(map[string]any{"status": "success", "message": message})
}

func (f *jsonFormatter) PrintTable(headers []string, rows [][]string) error {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		entry := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				entry[strings.ToLower(h)] = row[i]
			}
		}
		out = append(out, entry)
	}
	return f.PrintData(out)
}

func (f *jsonFormatter) PrintData(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// yamlFormatter renders everything as YAML documents.
type yamlFormatter struct {
	writer io.Writer
}

func (f *yamlFormatter) PrintSuccess(message string) error {
	return f.PrintData(map[string]any{"status": "success", "message": message})
}

func (f *yamlFormatter) PrintTable(headers []string, rows [][]string) error {
	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		entry := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				entry[strings.ToLower(h)] = row[i]
			}
		}
		out = append(out, entry)
	}
	return f.PrintData(out)
}

func (f *yamlFormatter) PrintData(data any) error {
	encoder := yaml.NewEncoder(f.writer)
	defer encoder.Close()
	return encoder.Encode(data)
}
