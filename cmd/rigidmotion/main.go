// Package main is the rigidmotion CLI, estimating twist from recorded pose series.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/estimator"
	"github.com/motionlab/rigidmotion/spatialmath"
)

const (
	flagInput         = "input"
	flagOutput        = "output"
	flagOutlierThresh = "outlier-thresh"
	flagCutoff        = "cutoff"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "rigidmotion",
		Usage: "estimate rigid body motion from recorded pose series",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logger = golog.NewDebugLogger("rigidmotion")
			} else {
				logger = zap.NewNop().Sugar()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "twist",
				Usage: "differentiate a pose series into linear and angular velocity",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagInput,
						Aliases:  []string{"i"},
						Usage:    "CSV pose series with columns t,x,y,z,qw,qx,qy,qz",
						Required: true,
					},
					&cli.StringFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "output CSV path, stdout when omitted",
					},
					&cli.Float64Flag{
						Name:  flagOutlierThresh,
						Usage: "second-difference norm above which samples are discarded",
					},
					&cli.Float64Flag{
						Name:  flagCutoff,
						Usage: "low-pass cutoff as a fraction of the Nyquist frequency",
					},
				},
				Action: func(c *cli.Context) error {
					return runTwist(c, logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runTwist(c *cli.Context, logger golog.Logger) error {
	samples, err := readPoseSeries(c.String(flagInput))
	if err != nil {
		return err
	}
	logger.Debugw("read pose series", "samples", len(samples))

	linear, angular, ts, err := estimator.EstimateTwist(samples, estimator.TwistOptions{
		OutlierThresh: c.Float64(flagOutlierThresh),
		Cutoff:        c.Float64(flagCutoff),
	})
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if path := c.String(flagOutput); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeTwist(out, ts, linear, angular)
}

func readPoseSeries(path string) ([]estimator.PoseSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	var samples []estimator.PoseSample
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && record[0] == "t" { // header
			continue
		}
		if len(record) != 8 {
			return nil, errors.Errorf("line %d: want 8 columns t,x,y,z,qw,qx,qy,qz, got %d", line, len(record))
		}
		fields := make([]float64, 8)
		for i, raw := range record {
			fields[i], err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %d", line, i+1)
			}
		}
		samples = append(samples, estimator.PoseSample{
			T: fields[0],
			Pose: spatialmath.NewPose(
				r3.Vector{X: fields[1], Y: fields[2], Z: fields[3]},
				quat.Number{Real: fields[4], Imag: fields[5], Jmag: fields[6], Kmag: fields[7]},
			),
		})
	}
	return samples, nil
}

func writeTwist(out io.Writer, ts []float64, linear, angular []r3.Vector) error {
	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"t", "vx", "vy", "vz", "wx", "wy", "wz"}); err != nil {
		return err
	}
	for i := range ts {
		record := []string{
			formatFloat(ts[i]),
			formatFloat(linear[i].X), formatFloat(linear[i].Y), formatFloat(linear[i].Z),
			formatFloat(angular[i].X), formatFloat(angular[i].Y), formatFloat(angular[i].Z),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.9g", v)
}
