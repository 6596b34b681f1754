package geoleaf

// curveSamples is the number of evaluation points per curve segment,
// start point included.
const curveSamples = 5

// flatten evaluates the quadratic or cubic bezier starting at start with
// the given control and end points. It returns curveSamples-1 vertices,
// the start point excluded and the end point included.
func flatten(start Vertex, ctrl []Vertex, n int) []Vertex {
	out := make([]Vertex, 0, n-1)
	for k := 1; k < n; k++ {
		t := float64(k) / float64(n-1)
		out = append(out, evalBezier(start, ctrl, t))
	}
	return out
}

func evalBezier(p0 Vertex, ctrl []Vertex, t float64) Vertex {
	mt := 1 - t
	var v Vertex
	for i := 0; i < 2; i++ {
		switch len(ctrl) {
		case 2:
			v[i] = mt*mt*p0[i] + 2*mt*t*ctrl[0][i] + t*t*ctrl[1][i]
		case 3:
			v[i] = mt*mt*mt*p0[i] + 3*mt*mt*t*ctrl[0][i] + 3*mt*t*t*ctrl[1][i] + t*t*t*ctrl[2][i]
		}
	}
	return v
}
