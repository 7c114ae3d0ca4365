package projection

import (
	"math"
	"testing"
)

var allKinds = []Kind{KindAitoff, KindMollweide, KindHammer, KindMercator}

func TestParseKind_FallsBackToAitoff(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
	}{
		{"aitoff", KindAitoff},
		{"mollweide", KindMollweide},
		{"hammer", KindHammer},
		{"mercator", KindMercator},
		{"", KindAitoff},
		{"sinusoidal", KindAitoff},
		{"AITOFF", KindAitoff}, // names are case-sensitive
	}

	for _, tt := range tests {
		if got := ParseKind(tt.input); got != tt.expected {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestProject_CenterMapsToViewportCenter(t *testing.T) {
	// A point at the projection center (RA = rotation offset, Dec = 0)
	// must land on the pixel midpoint for every supported kind.
	const width, height = 800, 400

	for _, kind := range allKinds {
		for _, rot := range []float64{0, 180} {
			p := New(kind, width, height, WithRotation(rot))

			x, y, ok := p.Project(rot, 0)
			if !ok {
				t.Fatalf("%v: center point unprojectable", kind)
			}
			if math.Abs(x-width/2) > 1e-6 {
				t.Errorf("%v (rot=%v): center x = %v, want %v", kind, rot, x, float64(width)/2)
			}
			if math.Abs(y-height/2) > 1e-6 {
				t.Errorf("%v (rot=%v): center y = %v, want %v", kind, rot, y, float64(height)/2)
			}
		}
	}
}

func TestProject_WholeSphereFitsViewport(t *testing.T) {
	const width, height = 640, 320

	for _, kind := range allKinds {
		p := New(kind, width, height)

		for ra := 0.0; ra < 360; ra += 20 {
			for dec := -80.0; dec <= 80; dec += 20 {
				x, y, ok := p.Project(ra, dec)
				if !ok {
					continue
				}
				if x < -1 || x > width+1 || y < -1 || y > height+1 {
					t.Errorf("%v: Project(%v, %v) = (%v, %v) escapes %dx%d viewport",
						kind, ra, dec, x, y, width, height)
				}
			}
		}
	}
}

func TestProject_MercatorPolesUnprojectable(t *testing.T) {
	p := New(KindMercator, 400, 400)

	if _, _, ok := p.Project(10, 90); ok {
		t.Error("north pole should be unprojectable under Mercator")
	}
	if _, _, ok := p.Project(10, -88); ok {
		t.Error("Dec=-88 should be beyond the Mercator cutoff")
	}
	if _, _, ok := p.Project(10, 60); !ok {
		t.Error("Dec=60 should be projectable under Mercator")
	}
}

func TestProject_NegativeLongitudeConvention(t *testing.T) {
	// RA just past 180 lands on the left half, RA just before on the right.
	p := New(KindAitoff, 800, 400)

	xl, _, ok := p.Project(181, 0)
	if !ok {
		t.Fatal("RA=181 unprojectable")
	}
	xr, _, ok := p.Project(179, 0)
	if !ok {
		t.Fatal("RA=179 unprojectable")
	}

	if xl >= 400 {
		t.Errorf("RA=181 x = %v, want < 400 (negative-longitude side)", xl)
	}
	if xr <= 400 {
		t.Errorf("RA=179 x = %v, want > 400", xr)
	}
}

func TestProject_ZoomScalesAboutCenter(t *testing.T) {
	base := New(KindHammer, 800, 400)
	zoomed := New(KindHammer, 800, 400, WithZoom(2))

	x1, y1, _ := base.Project(90, 30)
	x2, y2, _ := zoomed.Project(90, 30)

	// Offsets from the center must double.
	if math.Abs((x2-400)-2*(x1-400)) > 1e-6 {
		t.Errorf("zoom x offset = %v, want %v", x2-400, 2*(x1-400))
	}
	if math.Abs((y2-200)-2*(y1-200)) > 1e-6 {
		t.Errorf("zoom y offset = %v, want %v", y2-200, 2*(y1-200))
	}
}

func TestProject_PanTranslates(t *testing.T) {
	base := New(KindAitoff, 800, 400)
	panned := New(KindAitoff, 800, 400, WithPan(25, -10))

	x1, y1, _ := base.Project(45, 45)
	x2, y2, _ := panned.Project(45, 45)

	if math.Abs(x2-x1-25) > 1e-9 || math.Abs(y2-y1+10) > 1e-9 {
		t.Errorf("pan moved point by (%v, %v), want (25, -10)", x2-x1, y2-y1)
	}
}

func TestNew_DegenerateViewport(t *testing.T) {
	// Width/height <= 0 must not panic and must stay deterministic.
	for _, kind := range allKinds {
		p := New(kind, 0, 0)

		x1, y1, ok1 := p.Project(120, 40)
		x2, y2, ok2 := p.Project(120, 40)

		if ok1 != ok2 || x1 != x2 || y1 != y2 {
			t.Errorf("%v: degenerate projection not deterministic", kind)
		}
	}
}

func TestLocalScale(t *testing.T) {
	p := New(KindAitoff, 800, 400)

	s := p.LocalScale(180, 0)
	if s <= 0 {
		t.Fatalf("LocalScale at projection interior = %v, want > 0", s)
	}

	// Roughly pixels-per-degree: 400px height spans 180 degrees of dec.
	if s < 0.5 || s > 10 {
		t.Errorf("LocalScale = %v, outside plausible range", s)
	}

	// Unprojectable position yields zero.
	m := New(KindMercator, 800, 400)
	if got := m.LocalScale(0, 89.5); got != 0 {
		t.Errorf("LocalScale beyond Mercator cutoff = %v, want 0", got)
	}
}

func TestMollweideTheta_SatisfiesEquation(t *testing.T) {
	for phi := -1.5; phi <= 1.5; phi += 0.1 {
		theta := mollweideTheta(phi)
		residual := 2*theta + math.Sin(2*theta) - math.Pi*math.Sin(phi)
		if math.Abs(residual) > 1e-7 {
			t.Errorf("mollweideTheta(%v): residual %v", phi, residual)
		}
	}
}

func TestGraticule(t *testing.T) {
	lines := Graticule(30, 30, 90)

	// 12 meridians plus 5 parallels (poles excluded).
	if len(lines) != 17 {
		t.Fatalf("Graticule line count = %d, want 17", len(lines))
	}

	for _, line := range lines {
		if len(line) != 91 {
			t.Errorf("graticule line has %d samples, want 91", len(line))
		}
		for _, pt := range line {
			if pt.RAdeg < 0 || pt.RAdeg >= 360 {
				t.Errorf("graticule RA out of range: %v", pt.RAdeg)
			}
			if pt.DecDeg < -90 || pt.DecDeg > 90 {
				t.Errorf("graticule Dec out of range: %v", pt.DecDeg)
			}
		}
	}
}

func TestGraticule_Defaults(t *testing.T) {
	lines := Graticule(0, 0, 0)
	if len(lines) == 0 {
		t.Fatal("Graticule with zero args returned no lines")
	}
}
