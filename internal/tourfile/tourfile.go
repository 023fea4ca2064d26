// Package tourfile reads and writes tour snapshot files.
//
// A snapshot file holds one tour in the JSON wire format, or the same
// document written as YAML. Every file is checked against an embedded CUE
// schema before it is decoded, so a malformed file is rejected with the path
// of the offending field instead of a half-filled tour.
package tourfile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

//go:embed schema.cue
var schemaCUE string

// Format is the encoding of a snapshot file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SchemaError reports the first schema violation in a snapshot file.
type SchemaError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Path, e.Message)
	}
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Decoder validates and decodes snapshot files.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewDecoder compiles the embedded schema.
func NewDecoder() (*Decoder, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile tour schema: %w", formatCUEError(err))
	}
	schema := v.LookupPath(cue.ParsePath("#Tour"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Tour: %w", formatCUEError(err))
	}
	return &Decoder{ctx: ctx, schema: schema}, nil
}

// DecodeFile reads the snapshot at path, choosing the format by extension.
func (d *Decoder) DecodeFile(path string) (*tour.Tour, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tour file: %w", err)
	}
	return d.Decode(filepath.Base(path), data, FormatFromPath(path))
}

// Decode validates data against the schema and decodes it into a tour.
// name is used in error positions only.
//
// A tour without a distance but with both coordinates gets the straight-line
// distance between them, rounded to 0.1 km.
//
// Validation failures are *tour.Error values with the Validation code; a
// schema violation additionally wraps a *SchemaError.
func (d *Decoder) Decode(name string, data []byte, format Format) (*tour.Tour, error) {
	doc := data
	if format == FormatYAML {
		var err error
		doc, err = yamlToJSON(data)
		if err != nil {
			return nil, &tour.Error{Code: tour.ErrCodeValidation, Op: "decode tour", Message: "invalid YAML", Err: err}
		}
	}

	v := d.ctx.CompileBytes(doc, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, &tour.Error{Code: tour.ErrCodeValidation, Op: "decode tour", Message: "invalid document", Err: formatCUEError(err)}
	}
	if err := d.schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return nil, &tour.Error{Code: tour.ErrCodeValidation, Op: "decode tour", Message: "schema violation", Err: formatCUEError(err)}
	}

	var t tour.Tour
	if err := json.Unmarshal(doc, &t); err != nil {
		return nil, &tour.Error{Code: tour.ErrCodeValidation, Op: "decode tour", Message: "invalid field value", Err: err}
	}

	if t.Distance == 0 {
		if km, ok := t.StraightLineKm(); ok {
			t.Distance = math.Round(km*10) / 10
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Export writes t as indented JSON in the wire format.
func Export(w io.Writer, t *tour.Tour) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("export tour %d: %w", t.ID, err)
	}
	return nil
}

// ExportFile writes t to path, replacing any existing file.
func ExportFile(path string, t *tour.Tour) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export tour %d: %w", t.ID, err)
	}
	if err := Export(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// yamlToJSON re-encodes a YAML document as JSON so both formats go through
// the same schema check and decoder.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	format, args := first.Msg()
	schemaErr := &SchemaError{
		Path:    strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		schemaErr.Pos = positions[0]
	}
	return schemaErr
}
