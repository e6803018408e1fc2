package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/midgard-smd/internal/engine/model"
)

// writeOBJ writes a mesh as Wavefront OBJ, one group per surface.
func writeOBJ(w io.Writer, source string, mesh *model.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", source)
	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", len(mesh.Vertices), len(mesh.Vertices)/3)

	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}

	for _, g := range mesh.Groups {
		fmt.Fprintf(bw, "g %s\n", g.Name)
		fmt.Fprintf(bw, "usemtl %s\n", g.Name)
		// OBJ indices are 1-based
		for i := g.Start; i+2 < g.Start+g.Count; i += 3 {
			a, b, c := i+1, i+2, i+3
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
	}

	return bw.Flush()
}
