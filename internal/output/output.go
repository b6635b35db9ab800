// Package output renders command results as text, json or yaml.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format is an output format name.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{Text, JSON, YAML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML:
		return f, nil
	case "":
		return Text, nil
	}
	return "", fmt.Errorf("unknown output format %q, want text, json or yaml", s)
}

// Printer writes results in one format.
type Printer struct {
	w      io.Writer
	format Format
}

func New(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the destination of the printer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Print encodes v as json or yaml, or calls text for the text format.
func (p *Printer) Print(v interface{}, text func(w io.Writer) error) error {
	switch p.format {
	case JSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(p.w)
	}
}

// Table returns a tabwriter aligning columns on w. Callers must Flush it.
func Table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Hex is an address rendered as 0x... in every format.
type Hex uint64

func (h Hex) String() string {
	return fmt.Sprintf("%#x", uint64(h))
}

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hex) UnmarshalText(b []byte) error {
	v, err := strconv.ParseUint(string(b), 0, 64)
	if err != nil {
		return fmt.Errorf("invalid address %q", b)
	}
	*h = Hex(v)
	return nil
}
