// SMD animation clip parser.

package formats

import (
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/midgard-smd/pkg/math"
)

// SMDAnimPose is one node's local transform in a frame.
type SMDAnimPose struct {
	Position math.Vec3
	Rotation math.Quat
	Set      bool // False until some frame has mentioned the node
}

// SMDAnimFrame is a full pose snapshot, indexed like SMDAnim.Nodes.
type SMDAnimFrame struct {
	Time int
	Pose []SMDAnimPose
}

// SMDAnim is a parsed animation clip.
type SMDAnim struct {
	Path   string
	Nodes  []string // Clip-local node names
	Frames []SMDAnimFrame
}

// FrameCount returns the number of frames.
func (a *SMDAnim) FrameCount() int {
	return len(a.Frames)
}

// LoadSMDAnim reads and parses an SMD animation from disk.
func LoadSMDAnim(path string, opts SMDOptions) (*SMDAnim, *Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading SMD animation: %w", err)
	}
	return ParseSMDAnim(path, data, opts)
}

// ParseSMDAnim parses an animation clip. Every time block starts as a copy of
// the previous frame, so nodes a frame does not list keep their last pose.
// A repeated nodes section starts the clip over. Geometry sections are
// skipped with a warning.
func ParseSMDAnim(path string, data []byte, opts SMDOptions) (*SMDAnim, *Diagnostics, error) {
	data, err := decodeText(path, data, opts.Charset)
	if err != nil {
		return nil, &Diagnostics{}, err
	}
	sc := newScanner(path, data)
	diag := &Diagnostics{}
	anim := &SMDAnim{Path: path}
	ids := make(map[int]int)

	addNode := func(name string) (int, error) {
		anim.Nodes = append(anim.Nodes, name)
		return len(anim.Nodes) - 1, nil
	}
	ignoreParent := func(_, _ int) error { return nil }

	readVersion(sc)
	for sc.ok() && sc.next() {
		section := sc.tok
		switch strings.ToLower(section.text) {
		case "nodes":
			if len(anim.Nodes) > 0 {
				diag.Warn(WarnReplacedNodes, path, section.line, "nodes section replaces %d earlier nodes and %d frames", len(anim.Nodes), len(anim.Frames))
				anim.Nodes = nil
				anim.Frames = nil
				ids = make(map[int]int)
			}
			parseNodes(sc, ids, addNode, ignoreParent)
		case "skeleton":
			if len(anim.Frames) > 0 {
				diag.Warn(WarnReplacedSkeleton, path, section.line, "skeleton section replaces %d earlier frames", len(anim.Frames))
				anim.Frames = nil
			}
			parseAnimFrames(sc, ids, anim, opts.EulerUnits)
		default:
			diag.Warn(WarnUnknownSection, path, section.line, "skipping section %q in animation", section.text)
			sc.skipSection()
		}
	}
	if sc.err != nil {
		return nil, diag, sc.err
	}
	return anim, diag, nil
}

func parseAnimFrames(sc *scanner, ids map[int]int, anim *SMDAnim, units EulerUnits) {
	for sc.ok() && !sc.checkString("end") {
		if sc.checkString("time") {
			t := sc.mustInt()
			if !sc.ok() {
				return
			}
			frame := SMDAnimFrame{
				Time: t,
				Pose: make([]SMDAnimPose, len(anim.Nodes)),
			}
			if n := len(anim.Frames); n > 0 {
				copy(frame.Pose, anim.Frames[n-1].Pose)
			}
			anim.Frames = append(anim.Frames, frame)
			continue
		}
		if !sc.ok() {
			return
		}
		if len(anim.Frames) == 0 {
			failBeforeTime(sc)
			return
		}

		idx, ok := lookupNode(sc, ids)
		local := readTransform(sc, units)
		if !ok || !sc.ok() {
			return
		}

		frame := &anim.Frames[len(anim.Frames)-1]
		for idx >= len(frame.Pose) {
			frame.Pose = append(frame.Pose, SMDAnimPose{})
		}
		frame.Pose[idx] = SMDAnimPose{
			Position: local.Position,
			Rotation: local.Rotation,
			Set:      true,
		}
	}
}
