package netlist

import (
	"fmt"

	"github.com/edp1096/toy-atp/pkg/util"
)

// fields renders numeric columns and keeps the first overflow, so a card
// can be built in one expression and checked once.
type fields struct {
	card string
	err  error
}

func (f *fields) keep(name string, s string, err error) string {
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("%s %s: %w", f.card, name, err)
	}
	return s
}

func (f *fields) n(name string, x float64) string {
	s, err := util.Fit6(x)
	return f.keep(name, s, err)
}

func (f *fields) w(name string, x float64) string {
	s, err := util.Fit10(x)
	return f.keep(name, s, err)
}

func (f *fields) fixed(name string, x float64) string {
	s, err := util.Fixed(x, 10, 3)
	return f.keep(name, s, err)
}

func (f *fields) e16(name string, x float64) string {
	s, err := util.E16(x)
	return f.keep(name, s, err)
}

func (f *fields) rxc(name string, r, x, c float64) string {
	s, err := util.RXC(r, x, c)
	return f.keep(name, s, err)
}

func (f *fields) rztl(name string, r, z, tau, length float64) string {
	s, err := util.RZTL(r, z, tau, length)
	return f.keep(name, s, err)
}

func (f *fields) lines(out ...string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return out, nil
}
