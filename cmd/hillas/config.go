package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ChristopherRabotin/iact"
	"github.com/soniakeys/unit"
	"github.com/spf13/viper"
)

const dateFormat = "2006-01-02 15:04:05"

// imageConf is the `image` section of a scenario.
type imageConf struct {
	File      string    `mapstructure:"file"`
	X         []float64 `mapstructure:"x"`
	Y         []float64 `mapstructure:"y"`
	Intensity []float64 `mapstructure:"intensity"`
}

// tiltedConf is the `tilted` section of a scenario.
type tiltedConf struct {
	X []float64 `mapstructure:"x"`
	Y []float64 `mapstructure:"y"`
}

// readPointing returns the pointing, either given directly in alt/az degrees
// or from an equatorial target seen from a site at an epoch.
func readPointing(v *viper.Viper) (iact.Pointing, error) {
	if v.IsSet("pointing.equatorial") {
		epoch, err := time.Parse(dateFormat, v.GetString("pointing.equatorial.epoch"))
		if err != nil {
			return iact.Pointing{}, fmt.Errorf("pointing.equatorial.epoch: %w", err)
		}
		site := iact.NewSite(v.GetFloat64("pointing.equatorial.latitude"), v.GetFloat64("pointing.equatorial.longitude"))
		ra := unit.RA(unit.AngleFromDeg(v.GetFloat64("pointing.equatorial.ra")))
		dec := unit.AngleFromDeg(v.GetFloat64("pointing.equatorial.dec"))
		return iact.PointingFromEquatorial(ra, dec, site, epoch), nil
	}
	if !v.IsSet("pointing.altitude") {
		return iact.Pointing{}, errors.New("pointing.altitude or pointing.equatorial must be set")
	}
	return iact.NewPointing(v.GetFloat64("pointing.azimuth"), v.GetFloat64("pointing.altitude")), nil
}

// readImage returns the pixel coordinates and intensities, either inline or from a CSV file.
func readImage(v *viper.Viper) (x, y, s []float64, err error) {
	var conf imageConf
	if err = v.UnmarshalKey("image", &conf); err != nil {
		return nil, nil, nil, fmt.Errorf("image: %w", err)
	}
	if conf.File == "" {
		return conf.X, conf.Y, conf.Intensity, nil
	}
	f, err := os.Open(conf.File)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()
	return readImageCSV(f)
}

// readImageCSV reads `x,y,intensity` records. A first line without any
// numerical field is a header.
func readImageCSV(r io.Reader) (x, y, s []float64, err error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = 3
	rdr.Comment = '#'
	rdr.TrimLeadingSpace = true
	records, err := rdr.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	for i, record := range records {
		var (
			vals   [3]float64
			parsed int
			ferr   error
		)
		for j, field := range record {
			v, perr := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if perr != nil {
				if ferr == nil {
					ferr = perr
				}
				continue
			}
			vals[j] = v
			parsed++
		}
		if ferr != nil {
			if i == 0 && parsed == 0 {
				continue
			}
			return nil, nil, nil, fmt.Errorf("line %d: %w", i+1, ferr)
		}
		x = append(x, vals[0])
		y = append(y, vals[1])
		s = append(s, vals[2])
	}
	return x, y, s, nil
}

// readTilted returns the tilted frame points to project onto the ground, if any.
func readTilted(v *viper.Viper, p iact.Pointing) (iact.TiltedCoords, bool, error) {
	if !v.IsSet("tilted") {
		return iact.TiltedCoords{}, false, nil
	}
	var conf tiltedConf
	if err := v.UnmarshalKey("tilted", &conf); err != nil {
		return iact.TiltedCoords{}, false, fmt.Errorf("tilted: %w", err)
	}
	return iact.TiltedCoords{X: conf.X, Y: conf.Y, Pointing: p}, true, nil
}
