package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/edp1096/toy-atp/pkg/convert"
	"github.com/edp1096/toy-atp/pkg/model"
)

var (
	ErrNoCases     = errors.New("no cases defined")
	ErrCaseUnknown = errors.New("case not found")
)

type Options struct {
	Type14Machines  bool `yaml:"use_type14_machines"`
	FieldSaturation bool `yaml:"field_saturation"`
}

// Case is one network export: which model, which solved operating
// point, and how to treat it.
type Case struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Network  string  `yaml:"network"`
	BusIC    string  `yaml:"bus_ic"`
	GenIC    string  `yaml:"gen_ic"`
	SwingBus string  `yaml:"swingbus"`
	LoadMult float64 `yaml:"load"`
	Options  Options `yaml:"options"`
}

type File struct {
	Cases []Case `yaml:"cases"`
	dir   string
}

// Decode reads and checks a case file. A case id must be a CIM mRID, a
// UUID optionally prefixed by an underscore.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, ErrNoCases
		}
		return nil, fmt.Errorf("decoding cases: %w", err)
	}
	if len(f.Cases) == 0 {
		return nil, ErrNoCases
	}

	for i := range f.Cases {
		c := &f.Cases[i]
		if _, err := uuid.Parse(strings.TrimPrefix(c.ID, "_")); err != nil {
			return nil, fmt.Errorf("case %d id %q: %w", i, c.ID, err)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("case %d: name is required", i)
		}
		if c.SwingBus == "" {
			return nil, fmt.Errorf("case %s: swingbus is required", c.Name)
		}
		if c.LoadMult == 0.0 {
			c.LoadMult = 1.0
		}
	}
	return &f, nil
}

// LoadFile reads a case file; relative paths in it are taken from the
// file's directory.
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	f, err := Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Find looks a case up by list index, name or id.
func (f *File) Find(key string) (Case, error) {
	if i, err := strconv.Atoi(key); err == nil {
		if i < 0 || i >= len(f.Cases) {
			return Case{}, fmt.Errorf("case %d of %d: %w", i, len(f.Cases), ErrCaseUnknown)
		}
		return f.Cases[i], nil
	}
	for _, c := range f.Cases {
		if strings.EqualFold(c.Name, key) || strings.EqualFold(strings.TrimPrefix(c.ID, "_"), strings.TrimPrefix(key, "_")) {
			return c, nil
		}
	}
	return Case{}, fmt.Errorf("case %q: %w", key, ErrCaseUnknown)
}

// Path resolves a path from the case file.
func (f *File) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}

// ConvertOptions maps the case to converter options.
func (c Case) ConvertOptions() convert.Options {
	return convert.Options{
		Name:            c.Name,
		SwingBus:        c.SwingBus,
		LoadMult:        c.LoadMult,
		Type14Machines:  c.Options.Type14Machines,
		FieldSaturation: c.Options.FieldSaturation,
	}
}

// InitialConditions reads the solved operating point of the case. Files
// that do not exist are skipped and reported in missing.
func (f *File) InitialConditions(c Case) (ic *model.InitialConditions, missing []string, err error) {
	busPath, genPath := f.Path(c.BusIC), f.Path(c.GenIC)
	if busPath != "" && !exists(busPath) {
		missing = append(missing, busPath)
		busPath = ""
	}
	if genPath != "" && !exists(genPath) {
		missing = append(missing, genPath)
		genPath = ""
	}
	ic, err = model.LoadInitialConditions(busPath, genPath)
	return ic, missing, err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
