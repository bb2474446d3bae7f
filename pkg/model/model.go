package model

// Network is one immutable snapshot of the bulk system to convert.
type Network struct {
	Name         string        `yaml:"name"`
	Buses        []Bus         `yaml:"buses"`
	Lines        []Line        `yaml:"lines"`
	Transformers []Transformer `yaml:"transformers"`
	Series       []SeriesComp  `yaml:"series"`
	Shunts       []ShuntComp   `yaml:"shunts"`
	Loads        []Load        `yaml:"loads"`
	Machines     []Machine     `yaml:"machines"`
	Governors    []Governor    `yaml:"governors"`
	Exciters     []Exciter     `yaml:"exciters"`
	Stabilizers  []Stabilizer  `yaml:"stabilizers"`
	Solar        []IBR         `yaml:"solar"`
	Wind         []IBR         `yaml:"wind"`
	Storage      []Storage     `yaml:"storage"`
	Breakers     []Breaker     `yaml:"breakers"`
}

type Bus struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	NomV float64 `yaml:"nomv"` // line-to-line V
}

// Line carries total sequence impedances in ohms and susceptances in S.
type Line struct {
	ID     string  `yaml:"id"`
	Bus1   string  `yaml:"bus1"`
	Bus2   string  `yaml:"bus2"`
	R      float64 `yaml:"r"`
	X      float64 `yaml:"x"`
	B      float64 `yaml:"b"`
	R0     float64 `yaml:"r0"`
	X0     float64 `yaml:"x0"`
	B0     float64 `yaml:"b0"`
	Length float64 `yaml:"len"` // m
}

type Connection string

const (
	Wye   Connection = "Y"
	Delta Connection = "D"
)

type Winding struct {
	Bus      string     `yaml:"bus"`
	RatedU   float64    `yaml:"ratedU"`
	RatedS   float64    `yaml:"ratedS"`
	Conn     Connection `yaml:"conn"`
	Grounded bool       `yaml:"grounded"`
	RGround  float64    `yaml:"rground"`
	XGround  float64    `yaml:"xground"`
}

// Mesh is the short-circuit impedance between windings From and To
// (1-based), in ohms referred to winding From.
type Mesh struct {
	From int     `yaml:"from"`
	To   int     `yaml:"to"`
	R    float64 `yaml:"r"`
	X    float64 `yaml:"x"`
}

// SatPoint is one (peak current A, peak flux V-s) point of the magnetizing curve.
type SatPoint struct {
	Current float64 `yaml:"current"`
	Flux    float64 `yaml:"flux"`
}

// Core admittance in S, referred to winding Enum.
type Core struct {
	Enum       int        `yaml:"enum"`
	G          float64    `yaml:"g"`
	B          float64    `yaml:"b"`
	Saturation []SatPoint `yaml:"saturation"`
}

// Tap is an off-nominal tap position on winding WNum.
type Tap struct {
	WNum        int     `yaml:"wnum"`
	Incr        float64 `yaml:"incr"` // percent per step
	Step        float64 `yaml:"step"`
	NeutralStep float64 `yaml:"neutralStep"`
}

func (t Tap) Ratio() float64 {
	return 1.0 + 0.01*t.Incr*(t.Step-t.NeutralStep)
}

type Transformer struct {
	ID       string    `yaml:"id"`
	Windings []Winding `yaml:"windings"`
	Meshes   []Mesh    `yaml:"meshes"`
	Core     Core      `yaml:"core"`
	Taps     []Tap     `yaml:"taps"`
}

type SeriesComp struct {
	ID   string  `yaml:"id"`
	Bus1 string  `yaml:"bus1"`
	Bus2 string  `yaml:"bus2"`
	R    float64 `yaml:"r"`
	X    float64 `yaml:"x"`
	R0   float64 `yaml:"r0"`
	X0   float64 `yaml:"x0"`
}

type ShuntComp struct {
	ID       string  `yaml:"id"`
	Bus      string  `yaml:"bus"`
	NomU     float64 `yaml:"nomu"`
	BSection float64 `yaml:"bsection"` // S per section
	Sections float64 `yaml:"sections"`
}

// ZIP fractions in percent; each triple should sum to 100.
type ZIP struct {
	ZP float64 `yaml:"zp"`
	IP float64 `yaml:"ip"`
	PP float64 `yaml:"pp"`
	ZQ float64 `yaml:"zq"`
	IQ float64 `yaml:"iq"`
	PQ float64 `yaml:"pq"`
}

type Load struct {
	ID    string     `yaml:"id"`
	Bus   string     `yaml:"bus"`
	BaseV float64    `yaml:"basev"`
	P     float64    `yaml:"p"` // W
	Q     float64    `yaml:"q"` // var
	Conn  Connection `yaml:"conn"`
	ZIP   *ZIP       `yaml:"zip"`
}

// Machine is a synchronous machine with per-unit reactances on its own rating.
type Machine struct {
	ID     string  `yaml:"id"`
	Bus    string  `yaml:"bus"`
	RatedS float64 `yaml:"ratedS"`
	RatedU float64 `yaml:"ratedU"`
	P      float64 `yaml:"p"`
	Q      float64 `yaml:"q"`
	MinP   float64 `yaml:"minP"`
	MaxP   float64 `yaml:"maxP"`
	MinQ   float64 `yaml:"minQ"`
	MaxQ   float64 `yaml:"maxQ"`
	Ra     float64 `yaml:"Ra"`
	Xl     float64 `yaml:"Xl"`
	Xd     float64 `yaml:"Xd"`
	Xq     float64 `yaml:"Xq"`
	Xdp    float64 `yaml:"Xdp"`
	Xqp    float64 `yaml:"Xqp"`
	Xdpp   float64 `yaml:"Xdpp"`
	Xqpp   float64 `yaml:"Xqpp"`
	Tdop   float64 `yaml:"Tdop"`
	Tqop   float64 `yaml:"Tqop"`
	Tdopp  float64 `yaml:"Tdopp"`
	Tqopp  float64 `yaml:"Tqopp"`
	X0     float64 `yaml:"X0"`

	// initial terminal condition, filled from the bus overlay
	Vpu float64 `yaml:"-"`
	Deg float64 `yaml:"-"`

	// number of physical machines merged into this record, and the id
	// whose governor, exciter and stabilizer it uses
	Count     int    `yaml:"-"`
	ControlID string `yaml:"-"`
}

type Governor struct {
	ID     string  `yaml:"id"`
	MachID string  `yaml:"machid"`
	K1     float64 `yaml:"k1"`
	T1     float64 `yaml:"t1"`
	T2     float64 `yaml:"t2"`
	T3     float64 `yaml:"t3"`
	PMax   float64 `yaml:"pmax"`
	PMin   float64 `yaml:"pmin"`
}

type Exciter struct {
	ID     string  `yaml:"id"`
	MachID string  `yaml:"machid"`
	Ka     float64 `yaml:"ka"`
	Ta     float64 `yaml:"ta"`
	Tb     float64 `yaml:"tb"`
	Tc     float64 `yaml:"tc"`
	Kc     float64 `yaml:"kc"`
	Ilr    float64 `yaml:"ilr"`
	Klr    float64 `yaml:"klr"`
	VrMin  float64 `yaml:"vrmin"`
	VrMax  float64 `yaml:"vrmax"`
}

type Stabilizer struct {
	ID     string  `yaml:"id"`
	MachID string  `yaml:"machid"`
	Ks     float64 `yaml:"ks"`
	A1     float64 `yaml:"a1"`
	A2     float64 `yaml:"a2"`
	T3     float64 `yaml:"t3"`
	T4     float64 `yaml:"t4"`
	T5     float64 `yaml:"t5"`
	T6     float64 `yaml:"t6"`
	VstMin float64 `yaml:"vstmin"`
	VstMax float64 `yaml:"vstmax"`
}

// IBR is a solar or wind plant behind an inverter.
type IBR struct {
	ID     string  `yaml:"id"`
	Bus    string  `yaml:"bus"`
	RatedS float64 `yaml:"ratedS"`
	RatedU float64 `yaml:"ratedU"`
	P      float64 `yaml:"p"`
	Q      float64 `yaml:"q"`
	Ipu    float64 `yaml:"ipu"` // current limit on rating
	Phases string  `yaml:"phases"`
}

type Storage struct {
	ID     string  `yaml:"id"`
	Bus    string  `yaml:"bus"`
	RatedS float64 `yaml:"ratedS"`
	RatedU float64 `yaml:"ratedU"`
	MaxP   float64 `yaml:"maxP"`
	Q      float64 `yaml:"q"`
	Ipu    float64 `yaml:"ipu"`
	Phases string  `yaml:"phases"`
}

// Breaker is any DisconnectingCircuitBreaker-like switch.
type Breaker struct {
	ID     string `yaml:"id"`
	Kind   string `yaml:"kind"`
	Bus1   string `yaml:"bus1"`
	Bus2   string `yaml:"bus2"`
	Open   bool   `yaml:"open"`
	Phases string `yaml:"phases"`
}

func (n *Network) Governor(machID string) (Governor, bool) {
	for _, g := range n.Governors {
		if g.MachID == machID {
			return g, true
		}
	}
	return Governor{}, false
}

func (n *Network) Exciter(machID string) (Exciter, bool) {
	for _, e := range n.Exciters {
		if e.MachID == machID {
			return e, true
		}
	}
	return Exciter{}, false
}

func (n *Network) Stabilizer(machID string) (Stabilizer, bool) {
	for _, s := range n.Stabilizers {
		if s.MachID == machID {
			return s, true
		}
	}
	return Stabilizer{}, false
}

// PhaseList keeps the conventional order; blank means three-phase.
func PhaseList(abc string) []string {
	if len(abc) < 1 {
		return []string{"A", "B", "C"}
	}
	var phases []string
	for _, ph := range []string{"1", "2", "A", "B", "C"} {
		for _, c := range abc {
			if string(c) == ph {
				phases = append(phases, ph)
				break
			}
		}
	}
	return phases
}
