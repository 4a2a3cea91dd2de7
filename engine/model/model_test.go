package model

import (
	"math"
	"testing"
)

func TestBuildSphereCounts(t *testing.T) {
	tests := []struct {
		name          string
		w, h          int
		wantVerts     int
		wantTriangles int
	}{
		{"default panorama", 60, 40, 61 * 41, 60 * (2*40 - 2)},
		{"coarse", 8, 4, 9 * 5, 8 * 6},
		{"clamped to minimum", 1, 1, 4 * 3, 3 * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, idx := BuildSphere(100, tt.w, tt.h)
			if len(v) != tt.wantVerts {
				t.Errorf("vertices = %d, want %d", len(v), tt.wantVerts)
			}
			if len(idx) != tt.wantTriangles*3 {
				t.Errorf("indices = %d, want %d", len(idx), tt.wantTriangles*3)
			}
			for _, i := range idx {
				if int(i) >= len(v) {
					t.Fatalf("index %d out of range", i)
				}
			}
		})
	}
}

func TestBuildSphereVerticesOnSurface(t *testing.T) {
	v, _ := BuildSphere(100, 16, 8)
	for _, vert := range v {
		p := vert.Position
		r := math.Sqrt(float64(p[0]*p[0] + p[1]*p[1] + p[2]*p[2]))
		if math.Abs(r-100) > 1e-3 {
			t.Fatalf("vertex %v at distance %f, want 100", p, r)
		}
		if vert.TexCoord[1] < 0 || vert.TexCoord[1] > 1 {
			t.Fatalf("texcoord v %f out of [0, 1]", vert.TexCoord[1])
		}
	}
	if v[0].Position[1] < 99.99 {
		t.Fatalf("first ring should be the north pole, got %v", v[0].Position)
	}
}

func TestBuildSphereFacesInward(t *testing.T) {
	v, idx := BuildSphere(10, 24, 12)
	for i := 0; i < len(idx); i += 3 {
		a, b, c := v[idx[i]].Position, v[idx[i+1]].Position, v[idx[i+2]].Position
		ab := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		ac := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float32{
			ab[1]*ac[2] - ab[2]*ac[1],
			ab[2]*ac[0] - ab[0]*ac[2],
			ab[0]*ac[1] - ab[1]*ac[0],
		}
		centroid := [3]float32{
			(a[0] + b[0] + c[0]) / 3,
			(a[1] + b[1] + c[1]) / 3,
			(a[2] + b[2] + c[2]) / 3,
		}
		if n[0]*centroid[0]+n[1]*centroid[1]+n[2]*centroid[2] >= 0 {
			t.Fatalf("triangle %d faces outward", i/3)
		}
	}
}

func TestNewSphereModel(t *testing.T) {
	m := NewSphere(100, 60, 40)
	if m.Name() != "panorama_sphere" {
		t.Errorf("name = %q", m.Name())
	}
	if m.BoundingRadius() != 100 {
		t.Errorf("bounding radius = %f, want 100", m.BoundingRadius())
	}
	if len(m.VertexData()) != m.VertexCount()*20 {
		t.Errorf("vertex data = %d bytes, want %d", len(m.VertexData()), m.VertexCount()*20)
	}
	if len(m.IndexData()) != m.IndexCount()*4 {
		t.Errorf("index data = %d bytes, want %d", len(m.IndexData()), m.IndexCount()*4)
	}
}

func TestComputeBoundingRadius(t *testing.T) {
	got := ComputeBoundingRadius([]GPUVertex{
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 3, 4}},
	})
	if got != 5 {
		t.Fatalf("bounding radius = %f, want 5", got)
	}
	if NewModel().BoundingRadius() != 0 {
		t.Fatal("empty model should have zero radius")
	}
}
