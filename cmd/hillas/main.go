package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ChristopherRabotin/iact"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/viper"
)

const defaultScenario = "~~unset~~"

var scenario string

var debug = flag.Bool("debug", false, "verbose debug")

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "hillas scenario TOML file")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}

	scenario = strings.Replace(scenario, ".toml", "", 1)
	conf := viper.New()
	conf.AddConfigPath(".")
	conf.SetConfigName(scenario)
	if err := conf.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "scenario", scenario)
	if *debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	if err := run(conf, logger); err != nil {
		log.Fatal(err)
	}
}

// run computes the Hillas parameters of the scenario image and projects its
// tilted frame points, if any, onto the ground.
func run(conf *viper.Viper, logger kitlog.Logger) error {
	pointing, err := readPointing(conf)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("pointing", pointing)

	x, y, s, err := readImage(conf)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("pixels", len(s))
	h, err := iact.HillasParameters(x, y, s)
	if err != nil {
		return fmt.Errorf("hillas parameters: %w", err)
	}
	if h.Degeneracy != 0 {
		level.Warn(logger).Log("msg", "degenerate image, undefined parameters are NaN", "degeneracy", h.Degeneracy)
	}
	level.Info(logger).Log(append([]interface{}{"msg", "hillas"}, h.Keyvals()...)...)

	tilted, ok, err := readTilted(conf, pointing)
	if err != nil || !ok {
		return err
	}
	ground, err := iact.ProjectToGround(tilted)
	if err != nil {
		return fmt.Errorf("projection: %w", err)
	}
	for i := range ground.X {
		level.Info(logger).Log("msg", "impact", "tilted_x", tilted.X[i], "tilted_y", tilted.Y[i],
			"ground_x", ground.X[i], "ground_y", ground.Y[i])
	}
	return nil
}
