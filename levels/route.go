package levels

import (
	"fmt"

	"github.com/milk9111/akdata/common"
)

// GridPos is a tile position in game rows. -1 marks an unset position.
type GridPos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var Unset = GridPos{Row: -1, Col: -1}

func (p GridPos) IsSet() bool { return p.Row >= 0 && p.Col >= 0 }

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Checkpoint struct {
	Type          string  `json:"type"`
	Time          float64 `json:"time"`
	Position      GridPos `json:"position"`
	ReachOffset   Vec2    `json:"reachOffset"`
	ReachDistance float64 `json:"reachDistance"`

	Extra common.Extra `json:"-"`
}

func NewCheckpoint(pos GridPos) Checkpoint {
	return Checkpoint{Type: "MOVE", Position: pos}
}

type Route struct {
	MotionMode           string       `json:"motionMode"`
	StartPosition        GridPos      `json:"startPosition"`
	EndPosition          GridPos      `json:"endPosition"`
	SpawnRandomRange     Vec2         `json:"spawnRandomRange"`
	SpawnOffset          Vec2         `json:"spawnOffset"`
	Checkpoints          []Checkpoint `json:"checkpoints"`
	AllowDiagonalMove    bool         `json:"allowDiagonalMove"`
	VisitEveryTileCenter bool         `json:"visitEveryTileCenter"`
	VisitEveryNodeCenter bool         `json:"visitEveryNodeCenter"`

	Extra common.Extra `json:"-"`
}

func NewRoute() Route {
	return Route{
		MotionMode:    "WALK",
		StartPosition: Unset,
		EndPosition:   Unset,
		Checkpoints:   []Checkpoint{},
	}
}

func (r *Route) normalize() {
	if r.MotionMode == "" {
		r.MotionMode = "WALK"
	}
	if r.Checkpoints == nil {
		r.Checkpoints = []Checkpoint{}
	}
}

// AddRoute appends an empty route and returns its index.
func (l *Level) AddRoute() int {
	l.Routes = append(l.Routes, NewRoute())
	l.touch()
	return len(l.Routes) - 1
}

// DeleteRoute removes route i. Wave actions that point at it, or past it,
// keep their routeIndex; CheckReferences reports them.
func (l *Level) DeleteRoute(i int) error {
	if i < 0 || i >= len(l.Routes) {
		return fmt.Errorf("%w: route %d", ErrIndex, i)
	}
	l.Routes = append(l.Routes[:i], l.Routes[i+1:]...)
	l.touch()
	return nil
}

// MotionModes are the values the game reads for Route.MotionMode.
var MotionModes = []string{"WALK", "FLY"}

// SetRouteMotion updates the movement flags of route i.
func (l *Level) SetRouteMotion(i int, mode string, allowDiagonal bool) error {
	if i < 0 || i >= len(l.Routes) {
		return fmt.Errorf("%w: route %d", ErrIndex, i)
	}
	r := &l.Routes[i]
	r.MotionMode = mode
	r.AllowDiagonalMove = allowDiagonal
	r.normalize()
	l.touch()
	return nil
}

type RouteStep int

const (
	StepSetStart RouteStep = iota
	StepSetEnd
	StepAddCheckpoints
)

func (s RouteStep) String() string {
	switch s {
	case StepSetStart:
		return "Set start"
	case StepSetEnd:
		return "Set end"
	case StepAddCheckpoints:
		return "Add checkpoints"
	default:
		return "Unknown"
	}
}

// RouteEditor is the guided input for one route: start, then end, then any
// number of checkpoints. Undo walks back the same way.
type RouteEditor struct {
	level  *Level
	index  int
	step   RouteStep
	active bool
}

func NewRouteEditor(l *Level) *RouteEditor {
	return &RouteEditor{level: l, index: -1}
}

// Begin starts editing route i, resuming at the first step whose data is
// missing.
func (e *RouteEditor) Begin(i int) error {
	if i < 0 || i >= len(e.level.Routes) {
		e.End()
		return fmt.Errorf("%w: route %d", ErrIndex, i)
	}
	r := &e.level.Routes[i]
	e.index = i
	e.active = true
	switch {
	case !r.StartPosition.IsSet():
		e.step = StepSetStart
	case !r.EndPosition.IsSet():
		e.step = StepSetEnd
	default:
		e.step = StepAddCheckpoints
	}
	return nil
}

func (e *RouteEditor) Active() bool    { return e.active }
func (e *RouteEditor) Step() RouteStep { return e.step }
func (e *RouteEditor) Index() int      { return e.index }

// Route returns the route being edited, or nil.
func (e *RouteEditor) Route() *Route {
	if !e.active || e.index < 0 || e.index >= len(e.level.Routes) {
		return nil
	}
	return &e.level.Routes[e.index]
}

// Click records a left click on a tile.
func (e *RouteEditor) Click(gameRow, col int) error {
	r := e.Route()
	if r == nil {
		return fmt.Errorf("%w: no route being edited", ErrIndex)
	}
	if !e.level.InGrid(gameRow, col) {
		return fmt.Errorf("%w: row %d col %d", ErrOutOfGrid, gameRow, col)
	}
	pos := GridPos{Row: gameRow, Col: col}
	switch e.step {
	case StepSetStart:
		r.StartPosition = pos
		e.step = StepSetEnd
	case StepSetEnd:
		r.EndPosition = pos
		e.step = StepAddCheckpoints
	case StepAddCheckpoints:
		r.Checkpoints = append(r.Checkpoints, NewCheckpoint(pos))
	}
	e.level.touch()
	return nil
}

// Undo handles a right click: pop a checkpoint, otherwise step back and
// clear what that step recorded.
func (e *RouteEditor) Undo() {
	r := e.Route()
	if r == nil {
		return
	}
	switch e.step {
	case StepAddCheckpoints:
		if n := len(r.Checkpoints); n > 0 {
			r.Checkpoints = r.Checkpoints[:n-1]
		} else {
			r.EndPosition = Unset
			e.step = StepSetEnd
		}
	case StepSetEnd:
		r.EndPosition = Unset
		r.StartPosition = Unset
		e.step = StepSetStart
	case StepSetStart:
		r.StartPosition = Unset
	}
	e.level.touch()
}

// End leaves guided input. Recorded positions stay.
func (e *RouteEditor) End() {
	e.active = false
	e.index = -1
	e.step = StepSetStart
}

func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	type plain Checkpoint
	extra, err := common.UnmarshalKeep(data, (*plain)(c))
	c.Extra = extra
	return err
}

func (c Checkpoint) MarshalJSON() ([]byte, error) {
	type plain Checkpoint
	return common.MarshalKeep(plain(c), c.Extra)
}

func (r *Route) UnmarshalJSON(data []byte) error {
	type plain Route
	extra, err := common.UnmarshalKeep(data, (*plain)(r))
	r.Extra = extra
	return err
}

func (r Route) MarshalJSON() ([]byte, error) {
	type plain Route
	return common.MarshalKeep(plain(r), r.Extra)
}
