package netlist

import (
	"fmt"

	"github.com/edp1096/toy-atp/pkg/source"
)

const (
	SyncMachPCH = "SYNCMACH.PCH"
	IBRPCH      = "IBR.PCH"
	TACSPV1PCH  = "TACSPV1.PCH"
	TACSPV2PCH  = "TACSPV2.PCH"
	TACSPV3PCH  = "TACSPV3.PCH"
)

// SyncMachine writes the SYNCMACH include for a machine at bus.
func SyncMachine(bus, name string, p source.MachineParams) ([]string, error) {
	f := fields{card: "machine " + name}
	w, n := f.w, f.n
	return f.lines(
		fmt.Sprintf("$INCLUDE,%s,%s,%s $$", SyncMachPCH, bus, name),
		row(w("rmva", p.RMVA), w("rkv", p.RKV), w("agline", p.AGLine), w("s1d", p.S1D), w("s2d", p.S2D), w("vpk", p.Vpk))+" $$",
		row(w("ang0", p.Ang0), w("ra", p.Ra), w("xl", p.Xl), w("xd", p.Xd), w("xq", p.Xq), w("xdp", p.Xdp))+" $$",
		row(w("xqp", p.Xqp), w("xdpp", p.Xdpp), w("xqpp", p.Xqpp), w("tdop", p.Tdop), w("tqop", p.Tqop), w("tdopp", p.Tdopp))+" $$",
		row(w("tqopp", p.Tqopp), w("x0", p.X0), w("rn", p.Rn), w("xn", p.Xn), w("xcan", p.Xcan), w("hico", p.Hico))+" $$",
		row(w("dsd", p.Dsd))+" $$",
		row(n("ikv0", p.Ikv0), w("kvini", p.KVIni), w("ifini", p.IfIni), w("ifnom", p.IfNom))+" $$",
		row(n("kgov", p.KGov), w("t2", p.T2), w("t1t3", p.T1T3), w("t1pt3", p.T1PT3), n("pmax", p.PMax))+" $$",
		row(n("kc", p.Kc), w("ilr", p.Ilr), w("klr", p.Klr), n("vrmin", p.VrMin), n("vrmax", p.VrMax))+" $$",
		row(w("v0pu", p.V0pu), n("ka", p.Ka), w("ta", p.Ta), w("tb", p.Tb), w("tc", p.Tc), w("tled", p.Tled))+" $$",
		row(w("tlag", p.Tlag), w("kfbk", p.Kfbk), w("tfbk", p.Tfbk))+" $$",
		row(n("psk5", p.Psk5), w("psa1", p.Psa1), w("psa2", p.Psa2), w("pst3", p.Pst3), w("pst4", p.Pst4), w("pst5", p.Pst5))+" $$",
		row(w("pst6", p.Pst6), n("vstmn", p.VstMin), n("vstmx", p.VstMax)),
	)
}

// IBR writes the IBR include for a plant at bus.
func IBR(bus, name string, p source.IBRParams) ([]string, error) {
	f := fields{card: "IBR " + name}
	return f.lines(
		fmt.Sprintf("$INCLUDE,%s,%s,%s $$", IBRPCH, bus, name),
		row(f.w("vbase", p.VBase), f.w("sbase", p.SBase), f.w("ibase", p.IBase), f.w("ppu", p.Ppu), f.w("qpu", p.Qpu), f.w("vpu", p.Vpu),
			f.w("imax", p.IMax)),
	)
}

// TACSPV1 writes a single-phase inverter include at node.
func TACSPV1(node, name string, p source.PVParams) ([]string, error) {
	f := fields{card: "PV " + name}
	return f.lines(fmt.Sprintf("$INCLUDE,%s,%s,%s,%s", TACSPV1PCH, node, name, pvArgs(&f, p)))
}

// TACSPV2 writes a two-phase inverter include across node1 and node2.
func TACSPV2(node1, node2, name string, p source.PVParams) ([]string, error) {
	f := fields{card: "PV " + name}
	return f.lines(fmt.Sprintf("$INCLUDE,%s,%s,%s,%s,%s", TACSPV2PCH, node1, node2, name, pvArgs(&f, p)))
}

// TACSPV3 writes a three-phase inverter include at bus.
func TACSPV3(bus, name string, p source.PVParams) ([]string, error) {
	f := fields{card: "PV " + name}
	return f.lines(
		fmt.Sprintf("$INCLUDE,%s,%s,%s,%s $$", TACSPV3PCH, bus, name, pvArgs(&f, p)),
		row(f.n("v0", p.VBase), f.n("v02", p.VBase*p.VBase), f.n("vwc", p.VBase/376.9911)),
	)
}

func pvArgs(f *fields, p source.PVParams) string {
	return f.n("w", p.W) + "," + f.n("imax", p.IMax) + "," + f.n("uv", p.VTrip) + "," +
		f.n("ut", p.TTrip) + "," + f.n("pf", p.PFAngle)
}

// row is a continuation line of comma separated include arguments.
func row(args ...string) string {
	s := "  "
	for _, a := range args {
		s += "," + a
	}
	return s
}
