package formats

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-smd/pkg/skeleton"
	"github.com/Faultbox/midgard-smd/pkg/skin"
)

// SMD format errors.
var (
	ErrUnsupportedSMDVersion = errors.New("unsupported SMD version")
	ErrUndefinedNode         = errors.New("reference to undefined node id")
	ErrMalformedSMD          = errors.New("malformed SMD data")
	ErrTooManyWeights        = skin.ErrTooManyWeights

	ErrUnexpectedEOF = fmt.Errorf("%w: unexpected end of file", ErrMalformedSMD)
	ErrDuplicateNode = fmt.Errorf("%w: %w", ErrMalformedSMD, skeleton.ErrDuplicateNode)
	ErrNodeCycle     = fmt.Errorf("%w: %w", ErrMalformedSMD, skeleton.ErrNodeCycle)
)

// ParseError is a fatal parse failure with the file and line it occurred on.
type ParseError struct {
	Path string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WarningKind classifies a non-fatal problem found while loading.
type WarningKind int

const (
	WarnUnknownSection WarningKind = iota + 1
	WarnExtraBindFrame
	WarnMaterialNotFound
	WarnOverWeight
	WarnReplacedSkeleton
	WarnUnmatchedNode
	WarnReplacedNodes
)

var warningNames = map[WarningKind]string{
	WarnUnknownSection:   "unknown-section",
	WarnExtraBindFrame:   "extra-bind-frame",
	WarnMaterialNotFound: "material-not-found",
	WarnOverWeight:       "over-weight",
	WarnReplacedSkeleton: "replaced-skeleton",
	WarnUnmatchedNode:    "unmatched-node",
	WarnReplacedNodes:    "replaced-nodes",
}

func (k WarningKind) String() string {
	if name, ok := warningNames[k]; ok {
		return name
	}
	return fmt.Sprintf("warning(%d)", int(k))
}

// Warning is a single non-fatal diagnostic.
type Warning struct {
	Kind    WarningKind
	Path    string
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s", w.Path, w.Line, w.Message)
}

// Diagnostics collects the warnings produced by one load.
type Diagnostics struct {
	Warnings []Warning
}

// Warn appends a warning.
func (d *Diagnostics) Warn(kind WarningKind, path string, line int, format string, args ...any) {
	d.Warnings = append(d.Warnings, Warning{
		Kind:    kind,
		Path:    path,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// Len returns the number of warnings.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Warnings)
}

// Count returns the number of warnings of the given kind.
func (d *Diagnostics) Count(kind WarningKind) int {
	if d == nil {
		return 0
	}
	n := 0
	for _, w := range d.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Merge appends all warnings of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.Warnings = append(d.Warnings, other.Warnings...)
}
