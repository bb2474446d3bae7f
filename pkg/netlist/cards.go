package netlist

import (
	"fmt"
	"strings"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/util"
)

const (
	Source = "/SOURCE"
	Branch = "/BRANCH"
	Switch = "/SWITCH"

	SourceHeader   = "C < n 1><>< Ampl.  >< Freq.  ><Phase/T0><   A1   ><   T1   >< TSTART >< TSTOP  >"
	BranchHeader   = "C < n1 >< n2 ><ref1><ref2>< R  >< X  >< C  >"
	SwitchHeader   = "C < n 1>< n 2>< Tclose ><Top/Tde ><   Ie   ><Vf/CLOP ><  type  >               1"
	RLCHeader      = "C < n 1>< n 2><ref1><ref2><       R      ><      X       ><      C       ><   >"
	BergeronHeader = "C < n 1>< n 2>            <   R/LEN  ><     Z    ><   TAU    ><   LEN    > 2 0 0"
	XfmrHeader     = "C TRANSFORMER             < Iss>< Fss><BusT><Rmag>"
	WindingHeader  = "C < n 1>< n 2><ref1><ref2><   R><   X><  KV>"
	XfmrEnd        = "            9999"
)

var Phases = []string{"A", "B", "C"}

func Comment(format string, args ...any) string {
	return "C " + fmt.Sprintf(format, args...)
}

func Banner() string {
	return "C " + strings.Repeat("=", 77)
}

func Vintage(v int) string {
	return fmt.Sprintf("$VINTAGE,%d", v)
}

// FileHeader opens the document.
func FileHeader(name string, loadMult float64) []string {
	return []string{fmt.Sprintf("C file: %s, Load Mult=%.3f", name, loadMult), Vintage(0)}
}

// Type14 writes one cosine source per phase of bus, lagging 120 degrees
// per phase from angle.
func Type14(bus string, amplitude, angle, tstart, tstop float64) ([]string, error) {
	f := fields{card: "type 14 source " + bus}
	out := make([]string, 0, len(Phases))
	for _, ph := range Phases {
		out = append(out, "14"+bus+ph+"  "+
			f.fixed("amplitude", amplitude)+f.fixed("frequency", consts.FREQ)+f.fixed("angle", angle)+
			util.PadBlanks(20)+f.fixed("tstart", tstart)+f.fixed("tstop", tstop))
		angle -= 120.0
	}
	return f.lines(out...)
}

// Coupled writes a 51/52/53 mutually coupled R-L branch from zero and
// positive sequence ohms.
func Coupled(bus1, bus2 string, r0, x0, r1, x1 float64) ([]string, error) {
	f := fields{card: "coupled branch " + bus1 + "-" + bus2}
	return f.lines(
		"51"+bus1+"A"+bus2+"A"+util.PadBlanks(12)+f.n("R0", r0)+f.n("X0", x0),
		"52"+bus1+"B"+bus2+"B"+util.PadBlanks(12)+f.n("R1", r1)+f.n("X1", x1),
		"53"+bus1+"C"+bus2+"C",
	)
}

// Measuring writes a switch that stays closed for the whole run and
// reports its current.
func Measuring(node1, node2 string) (string, error) {
	f := fields{card: "measuring switch " + node1}
	line := "  " + node1 + node2 + f.fixed("tclose", consts.TSTART) + f.fixed("topen", consts.TOPEN) +
		util.PadBlanks(20) + "MEASURING" + util.PadBlanks(16) + "1"
	if f.err != nil {
		return "", f.err
	}
	return line, nil
}

// TimedSwitch writes a time-controlled switch.
func TimedSwitch(node1, node2 string, tclose, topen float64) (string, error) {
	f := fields{card: "switch " + node1 + "-" + node2}
	line := "  " + node1 + node2 + f.fixed("tclose", tclose) + f.fixed("topen", topen) + util.PadBlanks(45) + "0"
	if f.err != nil {
		return "", f.err
	}
	return line, nil
}

// SeriesCapacitor writes one phase of a series capacitor in µF.
func SeriesCapacitor(node1, node2 string, cuf float64) (string, error) {
	f := fields{card: "series capacitor " + node1}
	line := "  " + node1 + node2 + util.PadBlanks(24) + f.n("C", cuf)
	if f.err != nil {
		return "", f.err
	}
	return line, nil
}

// RLC writes a single-phase branch with one of R, X (ohms) or C (µF)
// in its own 16-column field. A blank node2 is ground.
func RLC(node1, node2 string, r, x, c float64) ([]string, error) {
	if node2 == "" {
		node2 = util.PadBlanks(6)
	}
	f := fields{card: "branch " + node1}
	var out []string
	if r != 0 {
		out = append(out, "  "+node1+node2+util.PadBlanks(12)+f.e16("R", r))
	}
	if x != 0 {
		out = append(out, "  "+node1+node2+util.PadBlanks(28)+f.e16("X", x))
	}
	if c != 0 {
		out = append(out, "  "+node1+node2+util.PadBlanks(44)+f.e16("C", c))
	}
	return f.lines(out...)
}

// Bergeron writes a transposed three-phase traveling-wave line from zero
// and positive sequence (R/km, Z, tau).
func Bergeron(bus1, bus2 string, r0, z0, tau0, r1, z1, tau1, km float64) ([]string, error) {
	f := fields{card: "bergeron line " + bus1 + "-" + bus2}
	return f.lines(
		Vintage(1),
		BergeronHeader,
		"-1"+bus1+"A"+bus2+"A"+util.PadBlanks(12)+f.rztl("zero sequence", r0, z0, tau0, km)+" 2 0 0",
		"-2"+bus1+"B"+bus2+"B"+util.PadBlanks(12)+f.rztl("positive sequence", r1, z1, tau1, km)+" 2 0 0",
		"-3"+bus1+"C"+bus2+"C",
		Vintage(0),
	)
}

// LumpedLine writes the lower triangle of the balanced phase R, X, C
// matrices (ohms, ohms, µF).
func LumpedLine(bus1, bus2 string, rs, xs, cs, rm, xm, cm float64) ([]string, error) {
	f := fields{card: "lumped line " + bus1 + "-" + bus2}
	self := f.rxc("self", rs, xs, cs)
	mutual := f.rxc("mutual", rm, xm, cm)
	cont := util.PadBlanks(26)
	return f.lines(
		Vintage(1),
		RLCHeader,
		"1 "+bus1+"A"+bus2+"A"+util.PadBlanks(12)+self,
		"2 "+bus1+"B"+bus2+"B"+util.PadBlanks(12)+mutual,
		cont+self,
		"3 "+bus1+"C"+bus2+"C"+util.PadBlanks(12)+mutual,
		cont+mutual,
		cont+self,
		Vintage(0),
	)
}
