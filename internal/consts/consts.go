package consts

import "math"

const (
	FREQ  = 60.0                 // System frequency (Hz)
	OMEGA = 2.0 * math.Pi * FREQ // Angular frequency (rad/s)
	SQRT2 = math.Sqrt2           // Peak to rms
	SQRT3 = 1.7320508075688772   // Line to phase
	RAD   = 180.0 / math.Pi      // Radians to degrees
	MEGA  = 1.0e6                // VA, W to MVA, MW
	KILO  = 1.0e3                // V to kV
	MICRO = 1.0e-6               // F to uF
)

const (
	MIN_BERGERON_TAU = 200.0e-6 // Shortest travel time for a distributed line (s)
	MIN_IMAG         = 0.00015  // Magnetizing current floor (pu)
	MIN_PNLL         = 0.00010  // No-load loss floor (pu)
	TOPEN            = 9990.0   // Switch opening time, effectively never (s)
	TSTART           = -1.0     // Source present for steady-state initialization
	TSTOP            = 9999.0   // Source never removed
	GEN_SHIFT        = -30.0    // Step-up transformer clock angle (deg)
)

// TACS dummy node budget per include and the platform ceiling
const (
	PV1_DUM_NODES     = 31
	PV2_DUM_NODES     = 31
	PV3_DUM_NODES     = 49
	MACHINE_DUM_NODES = 31
	SOLAR_DUM_NODES   = 115
	WIND_DUM_NODES    = 115
	DUM_NODE_LIMIT    = 9999
	XFMR_BUS_LIMIT    = 9999
)

// Machine inertia and damping per MVA of rating
const (
	MACHINE_NPOLES = 2.0
	MACHINE_H      = 3.0
)

var (
	MACHINE_J   = 2.0 * MACHINE_H * math.Pow(0.5*MACHINE_NPOLES/OMEGA, 2.0) // million kg-m2 per MVA
	MACHINE_DSD = 1e-5 * 1e6 * 0.5 * MACHINE_NPOLES / OMEGA                // N-m per MVA
)
