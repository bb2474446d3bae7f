package main // import "atp"

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/edp1096/toy-atp/pkg/config"
	"github.com/edp1096/toy-atp/pkg/convert"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
)

var (
	casesPath = flag.String("cases", "cases.yaml", "case file")
	network   = flag.String("network", "", "network model, overrides the case")
	outDir    = flag.String("out", ".", "output directory")
	level     = flag.String("v", "info", "log level: error, warn, info, debug")
	check     = flag.String("check", "", "scan a written netlist and check machine ordering")
)

func checkNetlist(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cards, err := netlist.Scan(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := netlist.CheckMachinesLast(cards); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	counts := make(map[netlist.CardKind]int)
	for _, c := range cards {
		counts[c.Kind]++
	}
	for k := netlist.KindComment; k <= netlist.KindContinuation; k++ {
		if counts[k] > 0 {
			logrus.WithField("kind", k.String()).Infof("%d cards", counts[k])
		}
	}
	return nil
}

func convertCase(key string) (*convert.Report, error) {
	cases, err := config.LoadFile(*casesPath)
	if err != nil {
		return nil, err
	}
	c, err := cases.Find(key)
	if err != nil {
		return nil, err
	}
	log := logrus.WithField("case", c.Name)

	path := cases.Path(c.Network)
	if *network != "" {
		path = *network
	}
	log.Infof("reading network from %s", path)
	net, err := model.LoadFile(path)
	if err != nil {
		return nil, err
	}

	ic, missing, err := cases.InitialConditions(c)
	if err != nil {
		return nil, err
	}
	for _, m := range missing {
		log.Warnf("initial conditions %s not found, using nameplate dispatch", m)
	}

	return convert.New(net, ic, c.ConvertOptions(), logrus.StandardLogger()).WriteFiles(*outDir)
}

func main() {
	flag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(lvl)

	if *check != "" {
		if err := checkNetlist(*check); err != nil {
			logrus.Fatalf("Netlist check failed: %v", err)
		}
		return
	}

	key := "0"
	switch flag.NArg() {
	case 0:
	case 1:
		key = flag.Arg(0)
	default:
		logrus.Fatal("Usage: atp [-cases file] [-out dir] [case index, name or id]")
	}

	report, err := convertCase(key)
	if err != nil {
		logrus.Fatalf("Conversion failed: %v", err)
	}
	if report.Status != convert.Success {
		logrus.Warnf("%s: %d diagnostics, %d equipment dropped", report.Status, len(report.Diagnostics), report.Errors())
	}
}
