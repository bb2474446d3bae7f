package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Generator types in the generator initial-condition table
const (
	GenSteam = 0
	GenSolar = 1
	GenWind  = 2
)

type Voltage struct {
	Vpu float64
	Deg float64
}

// GenIC is one solved generator injection, MW and MVAr.
type GenIC struct {
	Bus  string
	P    float64
	Q    float64
	Type int
}

// InitialConditions overlays a solved operating point on the nameplate
// data. Bus voltages are either positional (row k is ATP bus k) or keyed
// by the external bus id.
type InitialConditions struct {
	ByIndex []Voltage
	ByID    map[string]Voltage
	Gens    []GenIC
}

// BusVoltage looks the bus up by id first, then by its 1-based ATP number.
func (ic *InitialConditions) BusVoltage(id string, atpIndex int) (Voltage, bool) {
	if ic == nil {
		return Voltage{}, false
	}
	if v, ok := ic.ByID[id]; ok {
		return v, true
	}
	if atpIndex >= 1 && atpIndex <= len(ic.ByIndex) {
		return ic.ByIndex[atpIndex-1], true
	}
	return Voltage{}, false
}

// GensAt returns the injections of one type at one bus, in file order.
func (ic *InitialConditions) GensAt(bus string, genType int) []GenIC {
	if ic == nil {
		return nil
	}
	var out []GenIC
	for _, g := range ic.Gens {
		if g.Type == genType && g.Bus == bus {
			out = append(out, g)
		}
	}
	return out
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var recs [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseFloats(rec []string, row int) ([]float64, error) {
	out := make([]float64, len(rec))
	for i, field := range rec {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d field %d: %w", row, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// busKey normalizes "131", "131.0" and "1.31e+02" to the same id.
func busKey(field string) string {
	if v, err := strconv.ParseFloat(field, 64); err == nil && v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return field
}

// ReadBusIC parses rows of "vmag,vdeg" (positional) or "bus,vmag,vdeg".
func ReadBusIC(r io.Reader, ic *InitialConditions) error {
	recs, err := readRecords(r)
	if err != nil {
		return fmt.Errorf("bus initial conditions: %w", err)
	}
	for i, rec := range recs {
		switch len(rec) {
		case 2:
			v, err := parseFloats(rec, i+1)
			if err != nil {
				return fmt.Errorf("bus initial conditions: %w", err)
			}
			ic.ByIndex = append(ic.ByIndex, Voltage{Vpu: v[0], Deg: v[1]})
		case 3:
			v, err := parseFloats(rec[1:], i+1)
			if err != nil {
				return fmt.Errorf("bus initial conditions: %w", err)
			}
			if ic.ByID == nil {
				ic.ByID = make(map[string]Voltage)
			}
			ic.ByID[busKey(rec[0])] = Voltage{Vpu: v[0], Deg: v[1]}
		default:
			return fmt.Errorf("bus initial conditions row %d: want 2 or 3 columns, got %d", i+1, len(rec))
		}
	}
	return nil
}

// ReadGenIC parses rows of "bus,p,q,type".
func ReadGenIC(r io.Reader, ic *InitialConditions) error {
	recs, err := readRecords(r)
	if err != nil {
		return fmt.Errorf("generator initial conditions: %w", err)
	}
	for i, rec := range recs {
		if len(rec) < 4 {
			return fmt.Errorf("generator initial conditions row %d: want 4 columns, got %d", i+1, len(rec))
		}
		v, err := parseFloats(rec[1:4], i+1)
		if err != nil {
			return fmt.Errorf("generator initial conditions: %w", err)
		}
		ic.Gens = append(ic.Gens, GenIC{
			Bus:  busKey(rec[0]),
			P:    v[0],
			Q:    v[1],
			Type: int(v[2]),
		})
	}
	return nil
}

// LoadInitialConditions reads either file; an empty path is skipped.
func LoadInitialConditions(busPath, genPath string) (*InitialConditions, error) {
	ic := &InitialConditions{}
	if busPath != "" {
		f, err := os.Open(busPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := ReadBusIC(f, ic); err != nil {
			return nil, fmt.Errorf("%s: %w", busPath, err)
		}
	}
	if genPath != "" {
		f, err := os.Open(genPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := ReadGenIC(f, ic); err != nil {
			return nil, fmt.Errorf("%s: %w", genPath, err)
		}
	}
	return ic, nil
}
