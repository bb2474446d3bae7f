package circuit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

const (
	BusWidth  = 5
	NodeWidth = 6
)

var (
	ErrUnknownBus   = errors.New("bus not in bus table")
	ErrNameOverflow = errors.New("name does not fit node field")
)

// Counters are the per-run capacity and energy tallies.
type Counters struct {
	Transformers int
	Lines        int
	Series       int
	Shunts       int
	Switches     int
	Loads        int
	DER          int
	Solar        int
	Wind         int
	Storage      int
	Machines     int
	DummyNodes   int

	LoadMW     float64
	DERMW      float64
	SolarMW    float64
	WindMW     float64
	StorageMW  float64
	MachineMVA float64
}

// Context is the state of one conversion: the bus numbering, the scratch
// and transformer bus allocators, and the capacity counters.
type Context struct {
	name     string
	atpBuses map[string]string // external id -> ATP bus number
	extBuses map[string]string // ATP bus number -> external id
	busKV    map[string]float64
	order    []string // ATP bus numbers in allocation order
	nextBus  int
	nextXfmr int
	Count    Counters
	LoadMult float64
}

func New(name string) *Context {
	c := &Context{name: name}
	c.Reset()
	return c
}

// Reset clears every allocator and counter so a second conversion in the
// same process starts from the same state as the first.
func (c *Context) Reset() {
	c.atpBuses = make(map[string]string)
	c.extBuses = make(map[string]string)
	c.busKV = make(map[string]float64)
	c.order = nil
	c.nextBus = 0
	c.nextXfmr = 0
	c.Count = Counters{}
	c.LoadMult = 1.0
}

func (c *Context) Name() string {
	return c.name
}

// AssignBuses numbers the bus table 1..N, sorted numerically when every
// id is an integer, in table order otherwise.
func (c *Context) AssignBuses(buses []model.Bus) error {
	ordered := make([]model.Bus, len(buses))
	copy(ordered, buses)

	numeric := true
	for _, b := range ordered {
		if _, err := strconv.Atoi(b.ID); err != nil {
			numeric = false
			break
		}
	}
	if numeric {
		sort.SliceStable(ordered, func(i, j int) bool {
			a, _ := strconv.Atoi(ordered[i].ID)
			b, _ := strconv.Atoi(ordered[j].ID)
			return a < b
		})
	}

	for i, b := range ordered {
		if _, exists := c.atpBuses[b.ID]; exists {
			return fmt.Errorf("bus %q: duplicated id", b.ID)
		}
		num := strconv.Itoa(i + 1)
		if len(num) > BusWidth-1 {
			return fmt.Errorf("bus %q as number %s: %w", b.ID, num, ErrNameOverflow)
		}
		c.atpBuses[b.ID] = num
		c.extBuses[num] = b.ID
		c.busKV[b.ID] = 0.001 * b.NomV
		c.order = append(c.order, num)
	}
	return nil
}

// Number returns the ATP bus number of an external bus id.
func (c *Context) Number(rawID string) (string, error) {
	num, ok := c.atpBuses[rawID]
	if !ok {
		return "", fmt.Errorf("%q: %w", rawID, ErrUnknownBus)
	}
	return num, nil
}

// Index is the 1-based ATP bus number, or 0 for an unknown bus.
func (c *Context) Index(rawID string) int {
	n, _ := strconv.Atoi(c.atpBuses[rawID])
	return n
}

// BusKV is the nominal line-to-line kV of an external bus id.
func (c *Context) BusKV(rawID string) float64 {
	return c.busKV[rawID]
}

// BusName resolves an external bus id to its 5-column ATP bus name.
func (c *Context) BusName(rawID string) (string, error) {
	num, err := c.Number(rawID)
	if err != nil {
		return "", err
	}
	return AtpBus(num)
}

// NodeName resolves an external bus id and phase to a 6-column node name.
func (c *Context) NodeName(rawID, phase string) (string, error) {
	num, err := c.Number(rawID)
	if err != nil {
		return "", err
	}
	return AtpNode(num, phase)
}

// NextScratchBus allocates _1___, _2___, ...
func (c *Context) NextScratchBus() (string, error) {
	c.nextBus++
	return pad("_"+strconv.Itoa(c.nextBus), BusWidth)
}

// PeekTransformerBus names the star bus NextTransformerBus would allocate
// without allocating it.
func (c *Context) PeekTransformerBus() (string, error) {
	n := c.nextXfmr + 1
	if n > consts.XFMR_BUS_LIMIT {
		return "", fmt.Errorf("transformer %d: %w", n, ErrNameOverflow)
	}
	return pad("X"+strconv.Itoa(n), BusWidth)
}

// NextTransformerBus allocates the star bus of the next transformer, X1___, ...
func (c *Context) NextTransformerBus() (string, error) {
	name, err := c.PeekTransformerBus()
	if err != nil {
		return "", err
	}
	c.nextXfmr++
	return name, nil
}

// TransformerBuses is the number of X buses allocated so far.
func (c *Context) TransformerBuses() int {
	return c.nextXfmr
}

// AtpBus renders a bus token: numeric names get a B prefix, blanks become
// underscores.
func AtpBus(bus string) (string, error) {
	if bus == "" {
		return "", fmt.Errorf("empty bus name: %w", ErrNameOverflow)
	}
	if bus[0] >= '0' && bus[0] <= '9' {
		bus = "B" + bus
	}
	return pad(bus, BusWidth)
}

// AtpNode renders a bus token plus one phase character.
func AtpNode(bus, phase string) (string, error) {
	b, err := AtpBus(bus)
	if err != nil {
		return "", err
	}
	if len(phase) != 1 {
		return "", fmt.Errorf("phase %q of bus %s: %w", phase, bus, ErrNameOverflow)
	}
	return b + phase, nil
}

// AtpNodeOf appends a phase to an already rendered bus token.
func AtpNodeOf(bus, phase string) string {
	return bus + phase
}

func pad(s string, width int) (string, error) {
	if len(s) > width {
		return "", fmt.Errorf("%q wider than %d: %w", s, width, ErrNameOverflow)
	}
	return strings.ReplaceAll(fmt.Sprintf("%-*s", width, s), " ", "_"), nil
}

// WriteBusMap writes the two-way bus table: ATP number to external id,
// a blank line, then external id to ATP number.
func (c *Context) WriteBusMap(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ATP Bus   CIM Bus               Bus kV")
	for _, num := range c.order {
		id := c.extBuses[num]
		fmt.Fprintf(bw, "%-6s    %-20s %7.3f\n", num, id, c.busKV[id])
	}
	fmt.Fprintln(bw, "\nCIM Bus              ATP Bus    Bus kV")
	for _, num := range c.order {
		id := c.extBuses[num]
		fmt.Fprintf(bw, "%-20s %-6s    %7.3f\n", id, num, c.busKV[id])
	}
	return bw.Flush()
}

// BusMapEntry is one row of a bus map report.
type BusMapEntry struct {
	Number string
	ID     string
	KV     float64
}

// ReadBusMap decodes the first table of a report written by WriteBusMap.
func ReadBusMap(r io.Reader) ([]BusMapEntry, error) {
	var entries []BusMapEntry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if line == 1 {
			if !strings.HasPrefix(text, "ATP Bus") {
				return nil, fmt.Errorf("bus map line 1: unexpected header %q", text)
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			break
		}
		f := strings.Fields(text)
		if len(f) < 3 {
			return nil, fmt.Errorf("bus map line %d: want 3 fields, got %d", line, len(f))
		}
		kv, err := strconv.ParseFloat(f[len(f)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("bus map line %d: %w", line, err)
		}
		entries = append(entries, BusMapEntry{
			Number: f[0],
			ID:     strings.Join(f[1:len(f)-1], " "),
			KV:     kv,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
