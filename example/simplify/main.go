package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/akmonengine/spheremesh"
	"github.com/akmonengine/spheremesh/mesh"
	"github.com/akmonengine/spheremesh/objfile"
	"github.com/go-gl/mathgl/mgl64"
)

func main() {
	objPath := flag.String("obj", "", "OBJ file to approximate, a unit cube if empty")
	spheres := flag.Int("spheres", 40, "number of spheres to keep")
	workers := flag.Int("workers", 1, "goroutines used to initialize the metrics")
	validate := flag.Bool("validate", false, "check mesh integrity after every collapse")
	minRadius := flag.Float64("min-radius", 0, "hide spheres smaller than this")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	vertices, indices := cube()
	if *objPath != "" {
		var err error
		vertices, indices, err = objfile.LoadFile(*objPath)
		if err != nil {
			logger.Error("load failed", "err", err)
			os.Exit(1)
		}
	}

	m := &mesh.Mesh{Logger: logger}
	if err := m.Set(vertices, indices); err != nil {
		logger.Error("invalid mesh", "err", err)
		os.Exit(1)
	}

	s := spheremesh.New(m)
	s.Workers = *workers
	s.Debug = *validate
	s.Logger = logger

	s.InitSQEM()
	s.Run(*spheres)

	// Recenter like a viewer would.
	offset := m.Bounds().Center()

	fmt.Printf("Final Sphere Mesh:\n")
	fmt.Printf("  -> #spheres/vertices: %d\n", m.NumVertices())
	fmt.Printf("  -> #edges:            %d\n", m.NumEdges())
	fmt.Printf("  -> #faces:            %d\n", m.NumFaces())

	for i, sphere := range m.Spheres(*minRadius) {
		c := sphere.Center.Sub(offset)
		fmt.Printf("sphere %d: center=(%.4f, %.4f, %.4f) radius=%.4f\n", i, c.X(), c.Y(), c.Z(), sphere.Radius)
	}
	for i, seg := range m.Segments(*minRadius) {
		fmt.Printf("segment %d: r=%.4f -> r=%.4f length=%.4f\n", i, seg.A.Radius, seg.B.Radius, seg.B.Center.Sub(seg.A.Center).Len())
	}
	for i, tri := range m.Triangles() {
		fmt.Printf("triangle %d: normal=%v\n", i, tri.Normal)
	}
}

func cube() ([]mgl64.Vec3, []uint32) {
	return []mgl64.Vec3{
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		}, []uint32{
			0, 2, 1, 0, 3, 2,
			4, 5, 6, 4, 6, 7,
			0, 1, 5, 0, 5, 4,
			2, 3, 7, 2, 7, 6,
			1, 2, 6, 1, 6, 5,
			0, 4, 7, 0, 7, 3,
		}
}
