// smdtool is a CLI utility for inspecting SMD models and animations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/midgard-smd/internal/engine/model"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "pose":
		cmdPose(args)
	case "frames", "clips":
		cmdFrames(args)
	case "obj", "export":
		cmdOBJ(args)
	case "check":
		cmdCheck(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`smdtool - SMD skeletal model utility

Usage:
  smdtool <command> [options]

Commands:
  info <model.smd>                 Show nodes, surfaces and bounds
  pose [options] <model.smd>       Print local and world transforms of every bone
  frames [options] <model.smd>     List the clips on the animation timeline
  obj [options] <model.smd>        Export the skinned mesh as Wavefront OBJ
  check [-anim] <file.smd>...      Parse files and report warnings and errors

Common options:
  -config <file>     Config file (default: ./smd.yaml)
  -data <dir>        Data directory, repeatable
  -package <file>    Zip package, repeatable
  -anim name=path    Load an animation clip, repeatable
  -frame N           Pose the model at timeline frame N
  -clip name         Pose the model at the first frame of a clip

Examples:
  smdtool info models/soldier.smd
  smdtool frames -anim idle=anims/idle.smd -anim walk=anims/walk.smd models/soldier.smd
  smdtool pose -anim walk=anims/walk.smd -clip walk models/soldier.smd
  smdtool obj -center -o soldier.obj models/soldier.smd`)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	t := newTool(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smdtool info <model.smd>")
		os.Exit(1)
	}
	defer t.Close()

	m := t.mustLoadModel(fs.Arg(0))
	smd := m.SMD()
	mesh := m.Mesh()

	fmt.Printf("Model:     %s\n", smd.Path)
	fmt.Printf("Version:   %d\n", smd.Version)
	fmt.Printf("Nodes:     %d\n", smd.Skeleton.Len())
	fmt.Printf("Surfaces:  %d\n", len(smd.Surfaces))
	fmt.Printf("Triangles: %d\n", smd.TriangleCount())
	fmt.Printf("Vertices:  %d\n", smd.VertexCount())
	fmt.Printf("Bounds:    min(%.3f, %.3f, %.3f) max(%.3f, %.3f, %.3f)\n",
		mesh.Bounds.Min[0], mesh.Bounds.Min[1], mesh.Bounds.Min[2],
		mesh.Bounds.Max[0], mesh.Bounds.Max[1], mesh.Bounds.Max[2])
	fmt.Println()

	fmt.Println("Surfaces:")
	for _, s := range smd.Surfaces {
		mat := "(none)"
		if s.Material.Valid() {
			mat = fmt.Sprintf("#%d", s.Material)
		}
		fmt.Printf("  %-32s %-8s %d triangles\n", s.MaterialName, mat, len(s.Triangles))
	}
	fmt.Println()

	fmt.Println("Nodes:")
	for i, name := range smd.Skeleton.Names() {
		parent := smd.Skeleton.ParentName(i)
		if parent == "" {
			parent = "-"
		}
		fmt.Printf("  %*s%-24s parent: %s\n", smd.Skeleton.Depth(i)*2, "", name, parent)
	}
}

func cmdPose(args []string) {
	fs := flag.NewFlagSet("pose", flag.ExitOnError)
	t := newTool(fs)
	sel := registerSelection(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smdtool pose [-anim name=path] [-frame N | -clip name] <model.smd>")
		os.Exit(1)
	}
	defer t.Close()

	m := t.mustLoadModel(fs.Arg(0))
	frame := sel.apply(m)
	if frame < 0 {
		fmt.Println("Pose: bind")
	} else {
		fmt.Printf("Pose: frame %d\n", frame)
	}
	fmt.Println()

	fmt.Printf("%-24s %-16s %-30s %-30s\n", "Node", "Parent", "Local position", "World position")
	for _, info := range m.NodeDebugInfo() {
		parent := info.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Printf("%-24s %-16s %-30s %-30s\n", info.Name, parent, formatVec(info.LocalPos), formatVec(info.WorldPos))
	}
}

func cmdFrames(args []string) {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	t := newTool(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smdtool frames -anim name=path... <model.smd>")
		os.Exit(1)
	}
	defer t.Close()

	m := t.mustLoadModel(fs.Arg(0))
	tl := m.Timeline()
	if tl == nil {
		fmt.Println("No animations loaded")
		return
	}

	fmt.Printf("Frames: %d\n\n", tl.FrameCount())
	fmt.Printf("%-16s %6s %6s  %s\n", "Clip", "Start", "Count", "Path")
	for _, c := range tl.Clips() {
		name := c.Name
		if name == "" {
			name = "(anonymous)"
		}
		fmt.Printf("%-16s %6d %6d  %s\n", name, c.Start, c.FrameCount(), c.Path)
	}
}

func cmdOBJ(args []string) {
	fs := flag.NewFlagSet("obj", flag.ExitOnError)
	t := newTool(fs)
	sel := registerSelection(fs)
	output := fs.String("o", "", "Output file (default: stdout)")
	center := fs.Bool("center", false, "Center the mesh over the origin on the ground plane")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smdtool obj [-frame N | -clip name] [-center] [-o file.obj] <model.smd>")
		os.Exit(1)
	}
	defer t.Close()

	m := t.mustLoadModel(fs.Arg(0))
	sel.apply(m)
	mesh := m.Mesh()
	if *center {
		dx, dz := mesh.CenterXZ()
		fmt.Fprintf(os.Stderr, "Centered by (%.3f, %.3f)\n", -dx, -dz)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := writeOBJ(out, m.Path(), mesh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *output != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d vertices in %d groups to %s\n", len(mesh.Vertices), len(mesh.Groups), *output)
	}
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	t := newTool(fs)
	anim := fs.Bool("anim", false, "Check files as animations")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smdtool check [-anim] <file.smd>...")
		os.Exit(1)
	}
	defer t.Close()

	total, failed := t.checkAll(fs.Args(), *anim, func(path string, diag *formats.Diagnostics, err error) {
		for _, w := range diag.Warnings {
			fmt.Printf("%s:%d: warning: %s: %s\n", w.Path, w.Line, w.Kind, w.Message)
		}
		if err != nil {
			var perr *formats.ParseError
			if errors.As(err, &perr) {
				fmt.Printf("%s: error\n", perr)
			} else {
				fmt.Printf("%s: error: %v\n", path, err)
			}
			return
		}
		fmt.Printf("%s: ok (%d warnings)\n", path, diag.Len())
	})
	if fs.NArg() > 1 {
		fmt.Printf("%d files, %d warnings, %d failed\n", fs.NArg(), total.Len(), failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// selection picks the pose printed or exported.
type selection struct {
	frame int
	clip  string
}

func registerSelection(fs *flag.FlagSet) *selection {
	s := &selection{}
	fs.IntVar(&s.frame, "frame", -1, "Timeline frame (default: bind pose)")
	fs.StringVar(&s.clip, "clip", "", "Clip name, poses its first frame")
	return s
}

// apply poses m and returns the frame used, -1 for the bind pose.
func (s *selection) apply(m *model.Model) int {
	frame := s.frame
	if s.clip != "" {
		frame = m.FindFrame(s.clip)
	}
	if frame < 0 {
		return -1
	}
	if err := m.SetPose(frame, 1); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return frame
}

func formatVec(v [3]float32) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
