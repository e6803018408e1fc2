// Package formats parses SMD (StudioMDL Data) text models and animation clips.
package formats

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/midgard-smd/pkg/encoding"
	"github.com/Faultbox/midgard-smd/pkg/math"
	"github.com/Faultbox/midgard-smd/pkg/skeleton"
	"github.com/Faultbox/midgard-smd/pkg/skin"
)

// SMDVersion is the only supported format version.
const SMDVersion = 1

// MaterialID is a handle into the material registry.
type MaterialID int

// NoMaterial is the invalid material handle.
const NoMaterial MaterialID = -1

// Valid reports whether the handle refers to a material.
func (id MaterialID) Valid() bool {
	return id >= 0
}

// MaterialResolver maps triangle material names to handles.
type MaterialResolver interface {
	// Resolve looks up name. An empty modelPath searches the global namespace.
	Resolve(modelPath, name string) (MaterialID, bool)
	// Placeholder is used when a name cannot be resolved.
	Placeholder() MaterialID
}

// EulerUnits selects how skeleton rotation angles are interpreted.
type EulerUnits int

const (
	EulerDegrees EulerUnits = iota
	EulerRadians
)

// ParseEulerUnits parses "degrees" or "radians".
func ParseEulerUnits(s string) (EulerUnits, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deg", "degrees":
		return EulerDegrees, nil
	case "rad", "radians":
		return EulerRadians, nil
	}
	return EulerDegrees, fmt.Errorf("unknown euler units %q", s)
}

func (u EulerUnits) String() string {
	if u == EulerRadians {
		return "radians"
	}
	return "degrees"
}

// SMDOptions controls parsing.
type SMDOptions struct {
	EulerUnits EulerUnits
	Materials  MaterialResolver // nil groups surfaces by material name
	Charset    encoding.Charset // Decodes files that are not valid UTF-8
}

// SMDVertex is one triangle corner in bind space.
type SMDVertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord math.Vec2 // V already flipped
	Bone     string    // Primary bone
	Weights  skin.Weights
}

// SMDTriangle is three vertices.
type SMDTriangle struct {
	Vertices [3]SMDVertex
}

// SMDSurface groups the triangles that share one material.
type SMDSurface struct {
	Material     MaterialID
	MaterialName string // First name that resolved to Material
	Triangles    []SMDTriangle
}

// SMD is a parsed model: bind skeleton plus skinned geometry.
type SMD struct {
	Path     string
	Version  int
	Skeleton *skeleton.Skeleton // Bind pose
	Surfaces []SMDSurface
}

// TriangleCount returns the number of triangles over all surfaces.
func (m *SMD) TriangleCount() int {
	n := 0
	for i := range m.Surfaces {
		n += len(m.Surfaces[i].Triangles)
	}
	return n
}

// VertexCount returns the number of emitted vertices (three per triangle).
func (m *SMD) VertexCount() int {
	return m.TriangleCount() * 3
}

// LoadSMD reads and parses an SMD model from disk.
func LoadSMD(path string, opts SMDOptions) (*SMD, *Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading SMD file: %w", err)
	}
	return ParseSMD(path, data, opts)
}

// ParseSMD parses an SMD model. path is used for material lookup and messages.
// On a fatal error the model is nil; the warnings gathered so far are still returned.
func ParseSMD(path string, data []byte, opts SMDOptions) (*SMD, *Diagnostics, error) {
	data, err := decodeText(path, data, opts.Charset)
	if err != nil {
		return nil, &Diagnostics{}, err
	}
	if opts.Materials == nil {
		opts.Materials = newNameResolver()
	}
	p := &smdParser{
		sc:        newScanner(path, data),
		opts:      opts,
		diag:      &Diagnostics{},
		nodeIDs:   make(map[int]int),
		materials: make(map[MaterialID]int),
		resolved:  make(map[string]MaterialID),
		model: &SMD{
			Path:     path,
			Skeleton: skeleton.New(),
		},
	}

	if err := p.parse(); err != nil {
		return nil, p.diag, err
	}
	return p.model, p.diag, nil
}

// decodeText converts legacy-encoded input to UTF-8 before scanning.
func decodeText(path string, data []byte, cs encoding.Charset) ([]byte, error) {
	out, err := encoding.ToUTF8(data, cs)
	if err != nil {
		return nil, &ParseError{Path: path, Msg: err.Error(), Err: ErrMalformedSMD}
	}
	return out, nil
}

type smdParser struct {
	sc   *scanner
	opts SMDOptions
	diag *Diagnostics

	model     *SMD
	nodeIDs   map[int]int    // File node id to skeleton index
	materials map[MaterialID]int    // Material handle to surface index
	resolved  map[string]MaterialID // Material name to handle
	bindSet   bool
}

func (p *smdParser) parse() error {
	sc := p.sc
	p.model.Version = readVersion(sc)

	for sc.ok() && sc.next() {
		section := sc.tok
		switch strings.ToLower(section.text) {
		case "nodes":
			parseNodes(sc, p.nodeIDs, p.addNode, p.linkNode)
		case "skeleton":
			p.parseSkeleton()
		case "triangles":
			p.parseTriangles()
		default:
			p.diag.Warn(WarnUnknownSection, sc.path, section.line, "skipping unknown section %q", section.text)
			sc.skipSection()
		}
	}
	if sc.err != nil {
		return sc.err
	}

	p.bind()
	return nil
}

// readVersion consumes the "version <n>" header.
func readVersion(sc *scanner) int {
	if !sc.checkString("version") {
		if sc.ok() {
			sc.next()
			sc.fail(ErrMalformedSMD, "expected \"version\" header")
		}
		return 0
	}
	v := sc.mustInt()
	if sc.ok() && v != SMDVersion {
		sc.fail(ErrUnsupportedSMDVersion, "unsupported SMD version %d (expected %d)", v, SMDVersion)
	}
	return v
}

// parseNodes reads "<id> <name> <parent>" rows up to "end". Parents are linked
// after the section so forward references resolve.
func parseNodes(sc *scanner, ids map[int]int, add func(name string) (int, error), link func(child, parent int) error) {
	type pending struct {
		id, parent, line int
	}
	var links []pending

	for sc.ok() && !sc.checkString("end") {
		id := sc.mustInt()
		line := sc.tok.line
		name := sc.mustString()
		parent := sc.mustInt()
		if !sc.ok() {
			return
		}
		if _, ok := ids[id]; ok {
			sc.fail(ErrMalformedSMD, "duplicate node id %d", id)
			return
		}
		idx, err := add(name)
		if err != nil {
			if errors.Is(err, skeleton.ErrDuplicateNode) {
				sc.fail(ErrDuplicateNode, "duplicate node name %q", name)
			} else {
				sc.fail(ErrMalformedSMD, "node %q: %v", name, err)
			}
			return
		}
		ids[id] = idx
		if parent >= 0 {
			links = append(links, pending{id: id, parent: parent, line: line})
		}
	}
	if !sc.ok() {
		return
	}

	for _, l := range links {
		parent, ok := ids[l.parent]
		if !ok {
			sc.tok.line = l.line
			sc.fail(ErrUndefinedNode, "node %d references undefined parent id %d", l.id, l.parent)
			return
		}
		if err := link(ids[l.id], parent); err != nil {
			sc.tok.line = l.line
			if errors.Is(err, skeleton.ErrNodeCycle) {
				sc.fail(ErrNodeCycle, "node %d: parent %d closes a cycle", l.id, l.parent)
			} else {
				sc.fail(ErrMalformedSMD, "node %d: %v", l.id, err)
			}
			return
		}
	}
}

func (p *smdParser) addNode(name string) (int, error) {
	return p.model.Skeleton.Add(name)
}

func (p *smdParser) linkNode(child, parent int) error {
	return p.model.Skeleton.SetParent(child, parent)
}

// parseSkeleton keeps the first time block as the bind pose.
func (p *smdParser) parseSkeleton() {
	sc := p.sc
	timeSeen := false
	inBind := false

	for sc.ok() && !sc.checkString("end") {
		if sc.checkString("time") {
			t := sc.mustInt()
			if !sc.ok() {
				return
			}
			timeSeen = true
			if p.bindSet {
				inBind = false
				p.diag.Warn(WarnExtraBindFrame, sc.path, sc.tok.line, "ignoring skeleton frame at time %d, only the first frame is the bind pose", t)
				continue
			}
			p.bindSet = true
			inBind = true
			continue
		}
		if !sc.ok() {
			return
		}
		if !timeSeen {
			failBeforeTime(sc)
			return
		}

		idx, ok := p.node()
		local := readTransform(sc, p.opts.EulerUnits)
		if !ok || !sc.ok() {
			return
		}
		if inBind {
			p.model.Skeleton.SetLocal(idx, local)
		}
	}
}

func failBeforeTime(sc *scanner) {
	if !sc.next() {
		sc.failEOF("time")
		return
	}
	sc.fail(ErrMalformedSMD, "skeleton pose before any time block")
}

// node reads a node id and resolves it.
func (p *smdParser) node() (int, bool) {
	return lookupNode(p.sc, p.nodeIDs)
}

func lookupNode(sc *scanner, ids map[int]int) (int, bool) {
	id := sc.mustInt()
	if !sc.ok() {
		return 0, false
	}
	idx, ok := ids[id]
	if !ok {
		sc.fail(ErrUndefinedNode, "reference to undefined node id %d", id)
		return 0, false
	}
	return idx, true
}

// readTransform reads "px py pz rx ry rz".
func readTransform(sc *scanner, units EulerUnits) skeleton.Transform {
	pos := readVec3(sc)
	rot := readVec3(sc)
	if units == EulerDegrees {
		rot = math.Vec3{X: math.Radians(rot.X), Y: math.Radians(rot.Y), Z: math.Radians(rot.Z)}
	}
	return skeleton.Transform{
		Position: pos,
		Rotation: math.EulerToQuat(rot.X, rot.Y, rot.Z),
	}
}

func readVec3(sc *scanner) math.Vec3 {
	return math.Vec3{X: sc.mustFloat(), Y: sc.mustFloat(), Z: sc.mustFloat()}
}

func (p *smdParser) parseTriangles() {
	sc := p.sc
	for sc.ok() && !sc.checkString("end") {
		name := sc.mustString()
		line := sc.tok.line
		if !sc.ok() {
			return
		}

		var tri SMDTriangle
		for i := range tri.Vertices {
			p.parseVertex(&tri.Vertices[i])
			if !sc.ok() {
				return
			}
		}

		s := p.surface(name, line)
		s.Triangles = append(s.Triangles, tri)
	}
}

// surface returns the surface drawn with the material name resolves to,
// creating it on first use. Names sharing a handle share a surface.
func (p *smdParser) surface(name string, line int) *SMDSurface {
	id, ok := p.resolved[name]
	if !ok {
		id = p.resolveMaterial(name, line)
		p.resolved[name] = id
	}
	if i, ok := p.materials[id]; ok {
		return &p.model.Surfaces[i]
	}
	p.model.Surfaces = append(p.model.Surfaces, SMDSurface{
		Material:     id,
		MaterialName: name,
	})
	i := len(p.model.Surfaces) - 1
	p.materials[id] = i
	return &p.model.Surfaces[i]
}

// resolveMaterial tries the global namespace, then the model-relative path,
// then falls back to the placeholder.
func (p *smdParser) resolveMaterial(name string, line int) MaterialID {
	res := p.opts.Materials
	if id, ok := res.Resolve("", name); ok {
		return id
	}
	if id, ok := res.Resolve(p.model.Path, name); ok {
		return id
	}
	p.diag.Warn(WarnMaterialNotFound, p.model.Path, line, "material %q not found, using placeholder", name)
	return res.Placeholder()
}

// parseVertex reads "<id> px py pz nx ny nz u v [count (id bias)...]".
func (p *smdParser) parseVertex(v *SMDVertex) {
	sc := p.sc
	idx, ok := p.node()
	if !ok {
		return
	}
	line := sc.tok.line
	skel := p.model.Skeleton

	v.Position = readVec3(sc)
	v.Normal = readVec3(sc)
	v.TexCoord = math.Vec2{X: sc.mustFloat(), Y: sc.mustFloat()}.FlipV()
	if !sc.ok() {
		return
	}

	b := skin.NewBuilder(skel.Node(idx).Name)
	if count, ok := sc.checkIntOnLine(); ok {
		if count > skin.MaxWeights {
			sc.fail(ErrTooManyWeights, "vertex has %d weights, at most %d are supported", count, skin.MaxWeights)
			return
		}
		if count < 0 {
			sc.fail(ErrMalformedSMD, "negative weight count %d", count)
			return
		}
		for i := 0; i < count; i++ {
			bone, ok := p.node()
			bias := sc.mustFloat()
			if !ok || !sc.ok() {
				return
			}
			if err := b.Add(skel.Node(bone).Name, bias); err != nil {
				sc.fail(ErrTooManyWeights, "vertex has more than %d weights", skin.MaxWeights)
				return
			}
		}
	}

	weights, primary, total := b.Finish()
	if skin.OverWeighted(total) {
		p.diag.Warn(WarnOverWeight, sc.path, line, "vertex weights sum to %.4f", total)
	}
	v.Bone = primary
	v.Weights = weights
}

// bind computes the bone-local offsets of every weight against the flattened
// bind pose.
func (p *smdParser) bind() {
	pose := p.model.Skeleton.Flatten()
	for si := range p.model.Surfaces {
		tris := p.model.Surfaces[si].Triangles
		for ti := range tris {
			for vi := range tris[ti].Vertices {
				v := &tris[ti].Vertices[vi]
				skin.BindVertex(pose, v.Position, &v.Weights)
			}
		}
	}
}

// nameResolver hands out one handle per distinct material name.
type nameResolver struct {
	ids map[string]MaterialID
}

func newNameResolver() *nameResolver {
	return &nameResolver{ids: make(map[string]MaterialID)}
}

func (r *nameResolver) Resolve(_ string, name string) (MaterialID, bool) {
	id, ok := r.ids[name]
	if !ok {
		id = MaterialID(len(r.ids))
		r.ids[name] = id
	}
	return id, true
}

func (r *nameResolver) Placeholder() MaterialID {
	return NoMaterial
}
