// Package dh models a single joint-plus-link in the classical
// Denavit-Hartenberg convention: four scalars, a joint-type flag, and the
// associated limit and friction model. It stands apart from the parsed
// descriptor model; links are constructed directly by callers.
package dh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/mikebostanci/ropy/spatialmath"
)

// Config carries the kinematic and dynamic parameters of a link. The zero
// value describes a revolute joint with all parameters zero, except the gear
// ratio G which defaults to 1 when left zero.
type Config struct {
	// D is the link offset along the previous z.
	D float64
	// Alpha is the link twist about the previous x.
	Alpha float64
	// Theta is the joint angle about the previous z.
	Theta float64
	// A is the link length along the previous x.
	A float64
	// Prismatic selects a sliding joint; the default is revolute.
	Prismatic bool
	// Modified selects the modified DH convention; the default is standard.
	Modified bool
	// Offset is added to the joint variable before evaluation.
	Offset float64
	// Flip negates the joint variable before the offset is added.
	Flip bool
	// Qlim is the joint variable limit pair [min, max].
	Qlim [2]float64

	// M is the link mass.
	M float64
	// R is the center of mass in the link frame.
	R r3.Vector
	// I is the link inertia about the center of mass: nil, a full symmetric
	// 3x3 matrix as 9 row-major values, the six independent values
	// [Ixx Iyy Izz Ixy Iyz Ixz], or the three diagonal moments.
	I []float64
	// Jm is the motor inertia.
	Jm float64
	// B is the motor viscous friction: one value, or an asymmetric pair.
	B []float64
	// Tc is the Coulomb friction: one value F for a symmetric [F, -F]
	// model, or an asymmetric [positive, negative] pair.
	Tc []float64
	// G is the gear ratio.
	G float64
}

// Link is an immutable DH link. Use NewLink, NewRevolute or NewPrismatic to
// construct one; derived variants come from the copy-returning With* and
// NoFriction methods.
type Link struct {
	d, alpha, theta, a float64
	prismatic          bool
	modified           bool
	offset             float64
	flip               bool
	qlim               [2]float64

	m       float64
	r       r3.Vector
	inertia *mat.Dense
	jm      float64
	b       [2]float64
	tc      [2]float64
	g       float64
}

// NewLink validates a Config and returns the link. A revolute link must
// leave Theta zero (the joint variable replaces it) and a prismatic link
// must leave D zero, for the same reason.
func NewLink(cfg Config) (*Link, error) {
	if cfg.Prismatic && cfg.D != 0 {
		return nil, errors.New("d is not valid for prismatic joints")
	}
	if !cfg.Prismatic && cfg.Theta != 0 {
		return nil, errors.New("theta is not valid for revolute joints")
	}
	inertia, err := inertiaMatrix(cfg.I)
	if err != nil {
		return nil, err
	}
	b, err := pair("B", cfg.B, func(v float64) [2]float64 { return [2]float64{v, v} })
	if err != nil {
		return nil, err
	}
	// A single Coulomb value F means the symmetric model [F, -F].
	tc, err := pair("Tc", cfg.Tc, func(v float64) [2]float64 { return [2]float64{v, -v} })
	if err != nil {
		return nil, err
	}
	g := cfg.G
	if g == 0 {
		g = 1.0
	}
	return &Link{
		d:         cfg.D,
		alpha:     cfg.Alpha,
		theta:     cfg.Theta,
		a:         cfg.A,
		prismatic: cfg.Prismatic,
		modified:  cfg.Modified,
		offset:    cfg.Offset,
		flip:      cfg.Flip,
		qlim:      cfg.Qlim,
		m:         cfg.M,
		r:         cfg.R,
		inertia:   inertia,
		jm:        cfg.Jm,
		b:         b,
		tc:        tc,
		g:         g,
	}, nil
}

// NewRevolute returns a revolute link; any Theta in the config is rejected.
func NewRevolute(cfg Config) (*Link, error) {
	cfg.Prismatic = false
	return NewLink(cfg)
}

// NewPrismatic returns a prismatic link; any D in the config is rejected.
func NewPrismatic(cfg Config) (*Link, error) {
	cfg.Prismatic = true
	return NewLink(cfg)
}

// A computes the link homogeneous transform for joint variable q: the joint
// angle for a revolute link, the link offset for a prismatic one. The offset
// parameter is added to q (after negation, if the link is flipped) before
// evaluation.
func (l *Link) A(q float64) *spatialmath.Pose {
	sa, ca := math.Sincos(l.alpha)

	if l.flip {
		q = -q + l.offset
	} else {
		q = q + l.offset
	}

	var st, ct, d float64
	if l.prismatic {
		st, ct = math.Sincos(l.theta)
		d = q
	} else {
		st, ct = math.Sincos(q)
		d = l.d
	}

	var vals []float64
	if l.modified {
		vals = []float64{
			ct, -st, 0, l.a,
			st * ca, ct * ca, -sa, -sa * d,
			st * sa, ct * sa, ca, ca * d,
			0, 0, 0, 1,
		}
	} else {
		vals = []float64{
			ct, -st * ca, st * sa, l.a * ct,
			st, ct * ca, -ct * sa, l.a * st,
			0, sa, ca, d,
			0, 0, 0, 1,
		}
	}
	pose, _ := spatialmath.NewPoseFromSlice(vals)
	return pose
}

// IsLimit reports whether q lies outside the joint variable limits.
// The boundary values themselves are in bounds.
func (l *Link) IsLimit(q float64) bool {
	return q < l.qlim[0] || q > l.qlim[1]
}

// IsRevolute reports whether the joint is revolute.
func (l *Link) IsRevolute() bool {
	return !l.prismatic
}

// IsPrismatic reports whether the joint is prismatic.
func (l *Link) IsPrismatic() bool {
	return l.prismatic
}

// Friction computes the joint friction force or torque for joint velocity
// qd: viscous friction linear in velocity plus Coulomb friction switched on
// the sign of qd. The absolute value of the gear ratio is used.
func (l *Link) Friction(qd float64) float64 {
	tau := l.b[0] * math.Abs(l.g) * qd
	switch {
	case qd > 0:
		tau += l.tc[0]
	case qd < 0:
		tau += l.tc[1]
	}
	return tau
}

// NoFriction returns a copy of the link with the Coulomb and/or viscous
// friction parameters zeroed.
func (l *Link) NoFriction(coulomb, viscous bool) *Link {
	cp := *l
	if viscous {
		cp.b = [2]float64{}
	}
	if coulomb {
		cp.tc = [2]float64{}
	}
	return &cp
}

// WithQlim returns a copy of the link with new joint variable limits.
func (l *Link) WithQlim(lower, upper float64) *Link {
	cp := *l
	cp.qlim = [2]float64{lower, upper}
	return &cp
}

// WithOffset returns a copy of the link with a new joint variable offset.
func (l *Link) WithOffset(offset float64) *Link {
	cp := *l
	cp.offset = offset
	return &cp
}

// D returns the link offset.
func (l *Link) D() float64 { return l.d }

// Alpha returns the link twist.
func (l *Link) Alpha() float64 { return l.alpha }

// Theta returns the joint angle parameter.
func (l *Link) Theta() float64 { return l.theta }

// LinkLength returns the link length a.
func (l *Link) LinkLength() float64 { return l.a }

// Offset returns the joint variable offset.
func (l *Link) Offset() float64 { return l.offset }

// Flip reports whether the joint variable is negated.
func (l *Link) Flip() bool { return l.flip }

// Qlim returns the joint variable limit pair.
func (l *Link) Qlim() [2]float64 { return l.qlim }

// M returns the link mass.
func (l *Link) M() float64 { return l.m }

// R returns the center of mass in the link frame.
func (l *Link) R() r3.Vector { return l.r }

// Inertia returns a copy of the 3x3 link inertia matrix.
func (l *Link) Inertia() *mat.Dense {
	out := mat.NewDense(3, 3, nil)
	out.Copy(l.inertia)
	return out
}

// Jm returns the motor inertia.
func (l *Link) Jm() float64 { return l.jm }

// B returns the viscous friction pair.
func (l *Link) B() [2]float64 { return l.b }

// Tc returns the Coulomb friction pair.
func (l *Link) Tc() [2]float64 { return l.tc }

// G returns the gear ratio.
func (l *Link) G() float64 { return l.g }

// inertiaMatrix accepts the inertia in any of the toolbox forms: nil (zero),
// 9 row-major values, the six independent values [Ixx Iyy Izz Ixy Iyz Ixz],
// or the three diagonal moments.
func inertiaMatrix(vals []float64) (*mat.Dense, error) {
	switch len(vals) {
	case 0:
		return mat.NewDense(3, 3, nil), nil
	case 3:
		return mat.NewDense(3, 3, []float64{
			vals[0], 0, 0,
			0, vals[1], 0,
			0, 0, vals[2],
		}), nil
	case 6:
		return mat.NewDense(3, 3, []float64{
			vals[0], vals[3], vals[5],
			vals[3], vals[1], vals[4],
			vals[5], vals[4], vals[2],
		}), nil
	case 9:
		m := mat.NewDense(3, 3, append([]float64{}, vals...))
		if !mat.EqualApprox(m, m.T(), 1e-8) {
			return nil, errors.New("inertia must be a symmetric matrix")
		}
		return m, nil
	default:
		return nil, fmt.Errorf("inertia must have 0, 3, 6 or 9 values, got %d", len(vals))
	}
}

// pair coerces a one- or two-value parameter into its pair form.
func pair(name string, vals []float64, expand func(float64) [2]float64) ([2]float64, error) {
	switch len(vals) {
	case 0:
		return [2]float64{}, nil
	case 1:
		return expand(vals[0]), nil
	case 2:
		return [2]float64{vals[0], vals[1]}, nil
	default:
		return [2]float64{}, fmt.Errorf("%s must have 1 or 2 values, got %d", name, len(vals))
	}
}
