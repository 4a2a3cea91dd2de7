package model

import "math"

// Minimum segment counts that still produce a closed sphere.
const (
	minWidthSegments  = 3
	minHeightSegments = 2
)

// BuildSphere generates a UV sphere whose triangles face its center.
// Rings run from the north pole (+Y) to the south pole; each ring has widthSegments+1
// vertices so the seam can carry both u=0 and u=1. The X axis is mirrored after
// generation, which reverses the winding so triangles are counter-clockwise when seen
// from inside and an equirectangular image reads left-to-right from there.
// Texture V grows downward with the top image row at the north pole. Pole vertices
// are shifted half a segment in U so each pole triangle samples its own column.
// Degenerate triangles at the poles are skipped.
//
// Parameters:
//   - radius: sphere radius in world units
//   - widthSegments: number of horizontal segments (clamped to at least 3)
//   - heightSegments: number of vertical segments (clamped to at least 2)
//
// Returns:
//   - []GPUVertex: the sphere vertices
//   - []uint32: triangle indices into the vertex slice
func BuildSphere(radius float32, widthSegments, heightSegments int) ([]GPUVertex, []uint32) {
	widthSegments = max(widthSegments, minWidthSegments)
	heightSegments = max(heightSegments, minHeightSegments)

	vertices := make([]GPUVertex, 0, (widthSegments+1)*(heightSegments+1))
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		theta := float64(v) * math.Pi

		var uOffset float32
		switch iy {
		case 0:
			uOffset = 0.5 / float32(widthSegments)
		case heightSegments:
			uOffset = -0.5 / float32(widthSegments)
		}

		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi := float64(u) * 2 * math.Pi

			x := -radius * float32(math.Cos(phi)*math.Sin(theta))
			y := radius * float32(math.Cos(theta))
			z := radius * float32(math.Sin(phi)*math.Sin(theta))

			row[ix] = uint32(len(vertices))
			vertices = append(vertices, GPUVertex{
				// Mirror X to turn the faces inward.
				Position: [3]float32{-x, y, z},
				TexCoord: [2]float32{u + uOffset, v},
			})
		}
		grid[iy] = row
	}

	indices := make([]uint32, 0, widthSegments*(heightSegments-1)*6)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]

			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return vertices, indices
}
