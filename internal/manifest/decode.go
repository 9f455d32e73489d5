package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"cool/internal/source"
)

// FormatOf picks the format by file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return 0, false
}

// Decode parses and validates f. Decoding problems stop at the first error;
// validation collects every problem and joins them.
func Decode(f *source.File) (*Manifest, error) {
	format, ok := FormatOf(f.Path)
	if !ok {
		return nil, &Error{Kind: ErrRead, Path: f.Path, Span: source.Span{File: f.ID}, Msg: "unsupported manifest extension (want .toml, .yaml or .yml)"}
	}
	m := &Manifest{File: f.ID, Path: f.Path, Format: format}
	var err error
	switch format {
	case FormatTOML:
		err = decodeTOML(f, m)
	case FormatYAML:
		err = decodeYAML(f, m)
	}
	if err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return m, err
	}
	return m, nil
}

func decodeTOML(f *source.File, m *Manifest) error {
	meta, err := toml.Decode(string(f.Content), m)
	if err != nil {
		span := source.Span{File: f.ID}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			span = f.LineSpan(perr.Position.Line)
		}
		return &Error{Kind: ErrDecode, Path: f.Path, Span: span, Msg: "failed to parse TOML", Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var errs []error
		for _, key := range undecoded {
			last := key[len(key)-1]
			errs = append(errs, &Error{
				Kind: ErrUnknownKey,
				Path: f.Path,
				Span: f.LineSpan(findKeyLine(f.Content, last)),
				Msg:  fmt.Sprintf("unknown key %q", key.String()),
			})
		}
		return errors.Join(errs...)
	}
	tomlSpans(f, m)
	return nil
}

// findKeyLine returns the first line assigning key, or 0.
func findKeyLine(content []byte, key string) int {
	for i, line := range bytes.Split(content, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if !bytes.HasPrefix(trimmed, []byte(key)) {
			continue
		}
		rest := bytes.TrimSpace(trimmed[len(key):])
		if len(rest) > 0 && rest[0] == '=' {
			return i + 1
		}
	}
	return 0
}

// tomlSpans points each declaration at its [[table]] header line.
// Declarations written as inline tables keep an empty span.
func tomlSpans(f *source.File, m *Manifest) {
	headers := make(map[string][]int)
	for i, line := range bytes.Split(f.Content, []byte("\n")) {
		trimmed := string(bytes.TrimSpace(line))
		switch {
		case strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]]"):
			name := strings.TrimSpace(trimmed[2 : len(trimmed)-2])
			headers[name] = append(headers[name], i+1)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			headers[name] = append(headers[name], i+1)
		}
	}
	at := func(table string, n int) source.Span {
		if lines := headers[table]; n < len(lines) {
			return f.LineSpan(lines[n])
		}
		return source.Span{File: f.ID}
	}
	m.Crate.Span = at("crate", 0)
	m.TargetSpan = f.LineSpan(findKeyLine(f.Content, "target"))
	for i := range m.Modules {
		m.Modules[i].Span = at("module", i)
	}
	for i := range m.Structs {
		m.Structs[i].Span = at("struct", i)
	}
	for i := range m.Aliases {
		m.Aliases[i].Span = at("alias", i)
	}
	for i := range m.Uses {
		m.Uses[i].Span = at("use", i)
	}
	for i := range m.Fns {
		m.Fns[i].Span = at("fn", i)
	}
	for i := range m.Statics {
		m.Statics[i].Span = at("static", i)
	}
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func yamlErrLine(msg string) int {
	if sub := yamlLineRe.FindStringSubmatch(msg); sub != nil {
		if n, err := strconv.Atoi(sub[1]); err == nil {
			return n
		}
	}
	return 0
}

func decodeYAML(f *source.File, m *Manifest) error {
	dec := yaml.NewDecoder(bytes.NewReader(f.Content))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil {
		var terr *yaml.TypeError
		if errors.As(err, &terr) {
			var errs []error
			for _, msg := range terr.Errors {
				kind := ErrDecode
				if strings.Contains(msg, "not found in type") {
					kind = ErrUnknownKey
				}
				errs = append(errs, &Error{Kind: kind, Path: f.Path, Span: f.LineSpan(yamlErrLine(msg)), Msg: msg})
			}
			return errors.Join(errs...)
		}
		return &Error{Kind: ErrDecode, Path: f.Path, Span: f.LineSpan(yamlErrLine(err.Error())), Msg: "failed to parse YAML", Err: err}
	}
	var root yaml.Node
	if err := yaml.Unmarshal(f.Content, &root); err == nil {
		yamlSpans(f, &root, m)
	}
	return nil
}

// yamlSpans points each declaration at the line of its sequence entry.
func yamlSpans(f *source.File, root *yaml.Node, m *Manifest) {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		lines := make([]source.Span, len(val.Content))
		for j, entry := range val.Content {
			lines[j] = f.LineSpan(entry.Line)
		}
		pick := func(n int) source.Span {
			if n < len(lines) {
				return lines[n]
			}
			return source.Span{File: f.ID}
		}
		switch key.Value {
		case "crate":
			m.Crate.Span = f.LineSpan(key.Line)
		case "target":
			m.TargetSpan = f.LineSpan(key.Line)
		case "module":
			for n := range m.Modules {
				m.Modules[n].Span = pick(n)
			}
		case "struct":
			for n := range m.Structs {
				m.Structs[n].Span = pick(n)
			}
		case "alias":
			for n := range m.Aliases {
				m.Aliases[n].Span = pick(n)
			}
		case "use":
			for n := range m.Uses {
				m.Uses[n].Span = pick(n)
			}
		case "fn":
			for n := range m.Fns {
				m.Fns[n].Span = pick(n)
			}
		case "static":
			for n := range m.Statics {
				m.Statics[n].Span = pick(n)
			}
		}
	}
}
