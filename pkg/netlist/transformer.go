package netlist

import (
	"fmt"

	"github.com/edp1096/toy-atp/pkg/util"
)

// WindingRow is one winding of a saturable transformer on one phase:
// the terminal node, the reference node (the other delta corner, the
// wye neutral, or blanks for a solidly grounded wye), and for phase A the
// star branch in ohms and kV.
type WindingRow struct {
	Node string
	Ref  string
	R    float64
	X    float64
	KV   float64
}

// TransformerA writes the full phase A card: magnetizing branch, the
// saturation curve (peak A, peak V-s), and one impedance row per winding.
func TransformerA(xnode string, iss, fss, rmag float64, curve [][2]float64, rows []WindingRow) ([]string, error) {
	f := fields{card: "transformer " + xnode}
	out := []string{
		XfmrHeader,
		"  TRANSFORMER" + util.PadBlanks(13) + f.n("Iss", iss) + f.n("Fss", fss) + xnode + f.n("Rmag", rmag),
	}
	for i, pt := range curve {
		out = append(out, fmt.Sprintf("%16s%16s", f.n(fmt.Sprintf("I%d", i+1), pt[0]), f.n(fmt.Sprintf("F%d", i+1), pt[1])))
	}
	out = append(out, XfmrEnd, WindingHeader)
	for i, w := range rows {
		out = append(out, fmt.Sprintf("%2d", i+1)+w.Node+w.Ref+util.PadBlanks(12)+
			f.n(fmt.Sprintf("R%d", i+1), w.R)+f.n(fmt.Sprintf("X%d", i+1), w.X)+f.n(fmt.Sprintf("KV%d", i+1), w.KV))
	}
	return f.lines(out...)
}

// TransformerBC writes the abbreviated card of phase B or C, which takes
// its data from phase A by reference.
func TransformerBC(xnode, pnode string, rows []WindingRow) []string {
	out := []string{"  TRANSFORMER " + xnode + util.PadBlanks(18) + pnode}
	for i, w := range rows {
		out = append(out, fmt.Sprintf("%2d", i+1)+w.Node+w.Ref)
	}
	return out
}

// DeltaStabilizer ties one delta corner to ground through 1000 ohm and 1 µF.
func DeltaStabilizer(node string) string {
	return "  " + node + util.PadBlanks(18) + "1000.0" + util.PadBlanks(9) + "1.0"
}

// NeutralImpedance grounds a wye neutral through R + jX ohms.
func NeutralImpedance(node string, r, x float64) (string, error) {
	f := fields{card: "neutral " + node}
	line := "  " + node + util.PadBlanks(18) + f.n("R", r) + f.n("X", x)
	if f.err != nil {
		return "", f.err
	}
	return line, nil
}
