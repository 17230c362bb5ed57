package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the manifest version range this build understands.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Scene loading errors.
var (
	ErrUnsupportedFormat  = errors.New("unsupported scene format")
	ErrUnsupportedVersion = errors.New("unsupported scene version")
	ErrDuplicateObject    = errors.New("duplicate object name")
	ErrInvalidComponent   = errors.New("invalid component")
)

type manifest struct {
	Version string           `yaml:"version" toml:"version"`
	Name    string           `yaml:"name"    toml:"name"`
	Objects []manifestObject `yaml:"objects" toml:"objects"`
}

type manifestObject struct {
	Name       string              `yaml:"name"       toml:"name"`
	Components []manifestComponent `yaml:"components" toml:"components"`
}

type manifestComponent struct {
	Type     string `yaml:"type"      toml:"type"`
	Mesh     string `yaml:"mesh"      toml:"mesh"`
	MeshName string `yaml:"mesh_name" toml:"mesh_name"`
}

// Load reads a scene manifest. The format is chosen by extension: .yaml and
// .yml are YAML, .toml is TOML.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene %s: %w", path, err)
	}

	var m manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("parsing scene %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err = dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("parsing scene %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	s, err := m.build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

func (m *manifest) build(baseDir string) (*Scene, error) {
	if err := checkVersion(m.Version); err != nil {
		return nil, err
	}

	s := &Scene{
		Version: m.Version,
		Name:    m.Name,
		Objects: make([]*Object, 0, len(m.Objects)),
	}
	seen := make(map[string]struct{}, len(m.Objects))

	for i, mo := range m.Objects {
		if mo.Name == "" {
			return nil, fmt.Errorf("object %d has no name", i)
		}
		if _, dup := seen[mo.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateObject, mo.Name)
		}
		seen[mo.Name] = struct{}{}

		obj := &Object{Name: mo.Name}
		for _, mc := range mo.Components {
			c, err := mc.build(baseDir)
			if err != nil {
				return nil, fmt.Errorf("object %q: %w", mo.Name, err)
			}
			obj.Components = append(obj.Components, c)
		}
		s.Objects = append(s.Objects, obj)
	}

	return s, nil
}

func (mc manifestComponent) build(baseDir string) (Component, error) {
	switch mc.Type {
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrInvalidComponent)
	case KindMeshFilter:
		// A mesh filter with no mesh assigned is legal in the editor; it simply
		// does not qualify for unwrapping.
		if mc.Mesh == "" {
			return MeshFilter{}, nil
		}
		path := mc.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		name := mc.MeshName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return MeshFilter{Mesh: &Mesh{Name: name, Path: path}}, nil
	default:
		if mc.Mesh != "" {
			return nil, fmt.Errorf("%w: %s component cannot reference a mesh", ErrInvalidComponent, mc.Type)
		}
		return Generic{Type: mc.Type}, nil
	}
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing version", ErrUnsupportedVersion)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedVersion, v, err)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s not in %s", ErrUnsupportedVersion, ver, SupportedVersions)
	}
	return nil
}
