// Package coordinates converts motion samples between cartesian, polar and
// spherical coordinate systems. Conversions are stateless closed-form maps
// applied per sample.
package coordinates

import (
	"math"

	"github.com/pkg/errors"
)

// System names a supported coordinate system.
type System string

// Supported coordinate systems.
const (
	Cartesian System = "cartesian"
	Polar     System = "polar"
	Spherical System = "spherical"
)

var (
	// ErrUnsupportedConversion is returned for a (from, to) pair with no
	// defined mapping.
	ErrUnsupportedConversion = errors.New("unsupported coordinate conversion")

	// ErrShapeMismatch is returned when a sample has the wrong number of
	// components for its coordinate system.
	ErrShapeMismatch = errors.New("wrong number of coordinate components")
)

type conversion func(row []float64) ([]float64, error)

var conversions = map[System]map[System]conversion{
	Cartesian: {
		Polar:     cartesianToPolar,
		Spherical: cartesianToSpherical,
	},
	Polar: {
		Cartesian: polarToCartesian,
	},
	Spherical: {
		Cartesian: sphericalToCartesian,
	},
}

// Convert maps every row from one coordinate system to another. Polar samples
// have two components, cartesian and spherical samples three (except 2D
// cartesian when converting to or from polar).
func Convert(from, to System, rows [][]float64) ([][]float64, error) {
	mapping, ok := conversions[from][to]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedConversion, "%s to %s", from, to)
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		converted, err := mapping(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		out[i] = converted
	}
	return out, nil
}

// CartesianToPolar maps (x, y) samples to (r, phi) with phi measured from the
// positive x axis.
func CartesianToPolar(rows [][]float64) ([][]float64, error) {
	return Convert(Cartesian, Polar, rows)
}

// PolarToCartesian maps (r, phi) samples to (x, y).
func PolarToCartesian(rows [][]float64) ([][]float64, error) {
	return Convert(Polar, Cartesian, rows)
}

// CartesianToSpherical maps (x, y, z) samples to (r, theta, phi) in the
// physics convention: theta is the polar angle from the positive z axis and
// phi the azimuth from the positive x axis.
func CartesianToSpherical(rows [][]float64) ([][]float64, error) {
	return Convert(Cartesian, Spherical, rows)
}

// SphericalToCartesian maps (r, theta, phi) samples back to (x, y, z).
func SphericalToCartesian(rows [][]float64) ([][]float64, error) {
	return Convert(Spherical, Cartesian, rows)
}

func cartesianToPolar(row []float64) ([]float64, error) {
	if len(row) != 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "want 2 cartesian components, got %d", len(row))
	}
	x, y := row[0], row[1]
	return []float64{math.Hypot(x, y), math.Atan2(y, x)}, nil
}

func polarToCartesian(row []float64) ([]float64, error) {
	if len(row) != 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "want 2 polar components, got %d", len(row))
	}
	r, phi := row[0], row[1]
	return []float64{r * math.Cos(phi), r * math.Sin(phi)}, nil
}

func cartesianToSpherical(row []float64) ([]float64, error) {
	if len(row) != 3 {
		return nil, errors.Wrapf(ErrShapeMismatch, "want 3 cartesian components, got %d", len(row))
	}
	x, y, z := row[0], row[1], row[2]
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return []float64{0, 0, 0}, nil
	}
	return []float64{r, math.Acos(z / r), math.Atan2(y, x)}, nil
}

func sphericalToCartesian(row []float64) ([]float64, error) {
	if len(row) != 3 {
		return nil, errors.Wrapf(ErrShapeMismatch, "want 3 spherical components, got %d", len(row))
	}
	r, theta, phi := row[0], row[1], row[2]
	return []float64{
		r * math.Sin(theta) * math.Cos(phi),
		r * math.Sin(theta) * math.Sin(phi),
		r * math.Cos(theta),
	}, nil
}
