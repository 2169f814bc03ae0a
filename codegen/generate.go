package codegen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/c360studio/semschema/hierarchy"
	"github.com/c360studio/semschema/output"
)

// Header marks generated files. Files starting with it are removed before a
// new generation.
const Header = "// Code generated by semschema. DO NOT EDIT."

// RegistryFile holds the package doc, Version and the Classes map.
const RegistryFile = "classes.go"

// ErrBuildPath is returned when the target directory is not accessible.
var ErrBuildPath = errors.New("build path is not accessible")

var funcs = template.FuncMap{
	"quote": strconv.Quote,
	"list": func(items []string) string {
		quoted := make([]string, len(items))
		for i, s := range items {
			quoted[i] = strconv.Quote(s)
		}
		return "[]string{" + strings.Join(quoted, ", ") + "}"
	},
}

var classTemplate = template.Must(template.New("class").Funcs(funcs).Parse(Header + `

package {{.Package}}

// {{.Ident}}Properties lists the properties declared on {{.Label}}.
var {{.Ident}}Properties = {{list .Own}}

// {{.Ident}}AllProperties lists the properties of {{.Label}} and all of its ancestors.
var {{.Ident}}AllProperties = {{list .All}}

// {{.Ident}}Ancestors lists the ancestors of {{.Label}} whose own properties it inherits.
var {{.Ident}}Ancestors = {{list .Ancestors}}
`))

var registryTemplate = template.Must(template.New("registry").Funcs(funcs).Parse(Header + `

// Package {{.Package}} exposes the property sets of schema.org version {{.Version}}.
package {{.Package}}

// Version is the schema.org release this package was generated from.
const Version = {{quote .Version}}

// Class describes one schema.org class.
type Class struct {
	Label         string
	Parents       []string
	Properties    []string
	AllProperties []string
	Ancestors     []string
}

// Classes maps class labels to their property sets.
var Classes = map[string]Class{
{{- range .Classes}}
	{{quote .Label}}: {
		Label:         {{quote .Label}},
		Parents:       {{list .Parents}},
		Properties:    {{.Ident}}Properties,
		AllProperties: {{.Ident}}AllProperties,
		Ancestors:     {{.Ident}}Ancestors,
	},
{{- end}}
}
`))

type classData struct {
	Package   string
	Label     string
	Ident     string
	Parents   []string
	Own       []string
	All       []string
	Ancestors []string
}

type registryData struct {
	Package string
	Version string
	Classes []classData
}

// Generate writes one file per class of m, plus RegistryFile, into dir, which
// must already exist. Previously generated files in dir are removed first.
// It returns the written paths.
func Generate(dir, pkg, version string, m *hierarchy.Model) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrBuildPath, dir)
	}
	if !isPackageName(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}
	if err := removeGenerated(dir); err != nil {
		return nil, err
	}

	taken := map[string]bool{RegistryFile: true}
	registry := registryData{Package: pkg, Version: version}
	paths := make([]string, 0, len(m.Schemas)+1)

	for _, label := range m.Labels() {
		s := m.Schemas[label]
		data := classData{
			Package:   pkg,
			Label:     label,
			Ident:     Identifier(label),
			Parents:   s.Parents,
			Own:       s.Properties.Own,
			All:       s.Properties.All,
			Ancestors: s.Properties.AncestorLabels(),
		}
		registry.Classes = append(registry.Classes, data)

		path := filepath.Join(dir, fileName(label, taken))
		if err := render(path, classTemplate, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	path := filepath.Join(dir, RegistryFile)
	if err := render(path, registryTemplate, registry); err != nil {
		return paths, err
	}
	return append(paths, path), nil
}

func render(path string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format %s: %w", filepath.Base(path), err)
	}
	return output.WriteFileAtomic(path, src)
}

func removeGenerated(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		generated, err := isGenerated(path)
		if err != nil {
			return err
		}
		if generated {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove stale %s: %w", path, err)
			}
		}
	}
	return nil
}

func isGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	return strings.TrimSpace(line) == Header, nil
}

func isPackageName(name string) bool {
	return name != "" && Identifier(name) == name && !strings.HasPrefix(name, "_")
}
