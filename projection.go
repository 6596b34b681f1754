package geoleaf

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	mt "github.com/rustyoz/Mtransform"
)

// Projector maps a vertex from the producer's coordinate reference system
// to longitude/latitude.
type Projector interface {
	Project(x, y float64) (float64, float64)
}

// ProjectorFunc adapts a plain function to the Projector interface.
type ProjectorFunc func(x, y float64) (float64, float64)

func (f ProjectorFunc) Project(x, y float64) (float64, float64) { return f(x, y) }

// Identity leaves coordinates untouched. It is used when the data is
// already longitude/latitude.
var Identity Projector = ProjectorFunc(func(x, y float64) (float64, float64) { return x, y })

// ProjectionConfig selects the source coordinate reference system. At
// most one of CRS and EPSG may be set; neither means longitude/latitude.
type ProjectionConfig struct {
	// CRS is a PROJ style definition, e.g. "+proj=merc +a=6378137", or
	// a named code such as "EPSG:3857".
	CRS string `json:"crs,omitempty"`
	// EPSG is an EPSG code, 0 when unset.
	EPSG int `json:"epsg,omitempty"`
}

const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
	utmK0  = 0.9996
)

// NewProjector builds the projector for cfg. It is meant to be called
// once per conversion run.
func NewProjector(cfg ProjectionConfig) (Projector, error) {
	crs := strings.TrimSpace(cfg.CRS)
	switch {
	case crs != "" && cfg.EPSG != 0:
		return nil, &ConflictingProjectionSpecError{CRS: cfg.CRS, EPSG: cfg.EPSG}
	case cfg.EPSG != 0:
		return fromEPSG(cfg.EPSG)
	case crs != "":
		return fromCRS(crs)
	}
	return Identity, nil
}

func fromEPSG(code int) (Projector, error) {
	switch {
	case code == 4326:
		return Identity, nil
	case code == 3857 || code == 900913 || code == 3785 || code == 102100:
		return newMercator(sphereParams()), nil
	case code == 4087 || code == 32662:
		return newEquirectangular(sphereParams()), nil
	case code >= 32601 && code <= 32660:
		return newUTM(code-32600, false), nil
	case code >= 32701 && code <= 32760:
		return newUTM(code-32700, true), nil
	}
	return nil, &UnsupportedProjectionError{Spec: "epsg:" + strconv.Itoa(code)}
}

// projParams holds the subset of PROJ parameters the projectors use.
type projParams struct {
	proj    string
	a, f    float64
	k0      float64
	lon0    float64 // degrees
	x0, y0  float64
	toMeter float64
	zone    int
	south   bool
}

// sphereParams are the PROJ defaults: a sphere of the WGS84 semi-major
// axis, unit scale, no false origin, coordinates in meters.
func sphereParams() projParams {
	return projParams{a: wgs84A, k0: 1, toMeter: 1}
}

func parseProj(def string) (projParams, error) {
	p := sphereParams()
	var b float64
	for _, tok := range strings.Fields(def) {
		tok = strings.TrimPrefix(tok, "+")
		key, val, _ := strings.Cut(tok, "=")
		num := func() (float64, error) {
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return 0, &UnsupportedProjectionError{Spec: def}
			}
			return v, nil
		}
		var err error
		switch key {
		case "proj":
			p.proj = val
		case "init":
			p.proj = "init"
			code, cerr := strconv.Atoi(strings.TrimPrefix(strings.ToLower(val), "epsg:"))
			if cerr != nil {
				return p, &UnsupportedProjectionError{Spec: def}
			}
			p.zone = code
		case "a", "R":
			p.a, err = num()
		case "b":
			b, err = num()
		case "rf":
			var rf float64
			rf, err = num()
			if rf != 0 {
				p.f = 1 / rf
			}
		case "ellps", "datum":
			if strings.EqualFold(val, "WGS84") {
				p.a, p.f = wgs84A, wgs84F
			}
		case "k", "k_0":
			p.k0, err = num()
		case "lon_0":
			p.lon0, err = num()
		case "x_0":
			p.x0, err = num()
		case "y_0":
			p.y0, err = num()
		case "to_meter":
			p.toMeter, err = num()
		case "units":
			switch val {
			case "m":
				p.toMeter = 1
			case "km":
				p.toMeter = 1000
			case "ft":
				p.toMeter = 0.3048
			case "us-ft":
				p.toMeter = 1200.0 / 3937.0
			}
		case "zone":
			var z float64
			z, err = num()
			p.zone = int(z)
		case "south":
			p.south = true
		}
		if err != nil {
			return p, err
		}
	}
	if b != 0 && b != p.a {
		p.f = (p.a - b) / p.a
	}
	return p, nil
}

func fromCRS(def string) (Projector, error) {
	if code, ok := strings.CutPrefix(strings.ToLower(def), "epsg:"); ok {
		n, err := strconv.Atoi(code)
		if err != nil {
			return nil, &UnsupportedProjectionError{Spec: def}
		}
		return fromEPSG(n)
	}
	p, err := parseProj(def)
	if err != nil {
		return nil, err
	}
	switch p.proj {
	case "init":
		return fromEPSG(p.zone)
	case "longlat", "latlong", "lonlat", "latlon":
		return Identity, nil
	case "merc":
		return newMercator(p), nil
	case "eqc":
		return newEquirectangular(p), nil
	case "utm":
		if p.zone < 1 || p.zone > 60 {
			return nil, &UnsupportedProjectionError{Spec: def}
		}
		u := newUTM(p.zone, p.south)
		if p.toMeter != 1 {
			u.pre = affine(p.toMeter, u.x0, u.y0)
		}
		return u, nil
	case "tmerc":
		if p.f == 0 {
			p.f = wgs84F
		}
		return newTransverseMercator(p), nil
	}
	return nil, &UnsupportedProjectionError{Spec: def}
}

// affine returns the transform taking projected units to meters relative
// to the projection origin: scale by toMeter, then remove the false
// easting and northing.
func affine(toMeter, x0, y0 float64) func(x, y float64) (float64, float64) {
	scale := mt.NewTransform()
	scale.Scale(toMeter, toMeter)
	shift := mt.NewTransform()
	shift.Translate(-x0, -y0)
	return func(x, y float64) (float64, float64) {
		x, y = scale.Apply(x, y)
		return shift.Apply(x, y)
	}
}

// cylindrical wraps one of the s2 planar projections, whose ToLatLng is
// the inverse we need.
type cylindrical struct {
	pre  func(x, y float64) (float64, float64)
	proj s2.Projection
	lon0 float64
}

func (c *cylindrical) Project(x, y float64) (float64, float64) {
	x, y = c.pre(x, y)
	ll := c.proj.ToLatLng(r2.Point{X: x, Y: y})
	return ll.Lng.Degrees() + c.lon0, ll.Lat.Degrees()
}

func newMercator(p projParams) Projector {
	pre := affine(p.toMeter, p.x0, p.y0)
	if p.f != 0 {
		return &ellipsoidalMercator{pre: pre, a: p.a * p.k0, e: math.Sqrt(p.f * (2 - p.f)), lon0: p.lon0}
	}
	return &cylindrical{pre: pre, proj: s2.NewMercatorProjection(math.Pi * p.a * p.k0), lon0: p.lon0}
}

func newEquirectangular(p projParams) Projector {
	pre := affine(p.toMeter, p.x0, p.y0)
	return &cylindrical{pre: pre, proj: s2.NewPlateCarreeProjection(math.Pi * p.a * p.k0), lon0: p.lon0}
}

// ellipsoidalMercator inverts the mercator projection on an ellipsoid
// by fixed point iteration on the latitude.
type ellipsoidalMercator struct {
	pre  func(x, y float64) (float64, float64)
	a, e float64
	lon0 float64
}

func (m *ellipsoidalMercator) Project(x, y float64) (float64, float64) {
	x, y = m.pre(x, y)
	t := math.Exp(-y / m.a)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		es := m.e * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-es)/(1+es), m.e/2))
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}
	return x/m.a*180/math.Pi + m.lon0, phi * 180 / math.Pi
}

// transverseMercator is the inverse transverse mercator series.
type transverseMercator struct {
	pre    func(x, y float64) (float64, float64)
	a, e2  float64
	k0     float64
	lon0   float64
	x0, y0 float64
}

func newTransverseMercator(p projParams) *transverseMercator {
	return &transverseMercator{
		pre:  affine(p.toMeter, p.x0, p.y0),
		a:    p.a,
		e2:   p.f * (2 - p.f),
		k0:   p.k0,
		lon0: p.lon0,
		x0:   p.x0,
		y0:   p.y0,
	}
}

func newUTM(zone int, south bool) *transverseMercator {
	p := projParams{a: wgs84A, f: wgs84F, k0: utmK0, toMeter: 1, x0: 500000}
	if south {
		p.y0 = 10000000
	}
	p.lon0 = float64(zone-1)*6 - 180 + 3
	return newTransverseMercator(p)
}

func (t *transverseMercator) Project(x, y float64) (float64, float64) {
	x, y = t.pre(x, y)
	e2 := t.e2
	ep2 := e2 / (1 - e2)
	mu := y / t.k0 / (t.a * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	sq := math.Sqrt(1 - e2)
	e1 := (1 - sq) / (1 + sq)
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sin1, cos1, tan1 := math.Sin(phi1), math.Cos(phi1), math.Tan(phi1)
	c1 := ep2 * cos1 * cos1
	t1 := tan1 * tan1
	n1 := t.a / math.Sqrt(1-e2*sin1*sin1)
	r1 := t.a * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	d := x / (n1 * t.k0)

	lat := phi1 - (n1*tan1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lon := (d - (1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120) / cos1

	return t.lon0 + lon*180/math.Pi, lat * 180 / math.Pi
}
