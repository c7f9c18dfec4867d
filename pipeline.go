package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cs-au-dk/attmap/attmap"
	"github.com/cs-au-dk/attmap/utils"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// pipeline loads input layers into a single map and writes it out.
type pipeline struct {
	variant attmap.Variant
	mopts   []attmap.Option
	logger  hclog.Logger
}

func newPipeline(logger hclog.Logger) pipeline {
	variant := attmap.Plain
	switch v := opts.Variant(); {
	case v.IsEcho():
		variant |= attmap.Echo
	case v.IsPathExpanding():
		variant |= attmap.PathExpanding
	}
	if opts.Variant().IsOrdered() {
		variant |= attmap.Ordered
	}

	return pipeline{
		variant: variant,
		mopts: []attmap.Option{
			attmap.WithLogger(logger.Named("map")),
			attmap.WithColor(!opts.NoColorize()),
		},
		logger: logger,
	}
}

// load merges the files into one map, in the given order. A file that fails
// to load is skipped and reported in the returned error; the others are
// still merged.
func (p pipeline) load(files []string) (*attmap.AttMap, error) {
	m := attmap.Empty(p.variant, p.mopts...)

	var result *multierror.Error
	for _, path := range files {
		layer, err := p.loadFile(path)
		if err == nil {
			_, err = m.AddEntries(layer)
		}
		if err != nil {
			result = multierror.Append(result, errors.Wrap(err, utils.FileString(path)))
			continue
		}
		p.logger.Debug("merged layer", "file", path, "keys", layer.Len())
	}

	return m, result.ErrorOrNil()
}

// loadFile reads JSON files by extension and everything else as YAML. The
// name "-" reads standard input.
func (p pipeline) loadFile(path string) (*attmap.AttMap, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return attmap.FromJSON(p.variant, data, p.mopts...)
	}
	return attmap.FromYAML(p.variant, data, p.mopts...)
}

// output writes m in the requested format.
func (p pipeline) output(m *attmap.AttMap) error {
	if opts.Expand() {
		expanded, err := attmap.New(p.variant, m.ToPlainMap(true), p.mopts...)
		if err != nil {
			return err
		}
		m = expanded
	}

	format := opts.Format()
	if format.IsImage() {
		p.logger.Debug("rendering image", "file", opts.OutFile(), "format", format.String())
		return m.Graph(m.Variant().String()).ToImage(opts.OutFile(), format.String())
	}

	var buf bytes.Buffer
	switch {
	case format.IsYAML():
		if err := m.WriteYAML(&buf); err != nil {
			return err
		}
	case format.IsJSON():
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case format.IsDot():
		if err := m.WriteDot(&buf); err != nil {
			return err
		}
	default:
		buf.WriteString(m.Render())
		buf.WriteByte('\n')
	}

	return p.write(buf.Bytes())
}

func (p pipeline) write(data []byte) error {
	if opts.OutFile() == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	p.logger.Debug("writing output", "file", opts.OutFile())
	return os.WriteFile(opts.OutFile(), data, 0o644)
}

// plainOutput writes a value that is not a map. Plain values have no
// rendering headed by a map type, so everything but JSON is written as YAML.
func (p pipeline) plainOutput(v attmap.Value) error {
	plain := attmap.ToPlain(v)
	if opts.Expand() {
		if t, ok := v.(attmap.Text); ok {
			plain = utils.ExpandPath(string(t))
		}
	}

	var (
		data []byte
		err  error
	)
	if opts.Format().IsJSON() {
		if data, err = json.Marshal(plain); err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(plain)
	}
	if err != nil {
		return err
	}
	return p.write(data)
}
