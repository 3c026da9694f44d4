package levels

import (
	"fmt"

	"github.com/milk9111/akdata/common"
)

type Action struct {
	ActionType                        string  `json:"actionType"`
	ManagedByScheduler                bool    `json:"managedByScheduler"`
	Key                               string  `json:"key"`
	Count                             int     `json:"count"`
	PreDelay                          float64 `json:"preDelay"`
	Interval                          float64 `json:"interval"`
	RouteIndex                        int     `json:"routeIndex"`
	BlockFragment                     bool    `json:"blockFragment"`
	AutoPreviewRoute                  bool    `json:"autoPreviewRoute"`
	IsUnharmfulAndAlwaysCountAsKilled bool    `json:"isUnharmfulAndAlwaysCountAsKilled"`
	HiddenGroup                       *string `json:"hiddenGroup"`
	RandomSpawnGroupKey               *string `json:"randomSpawnGroupKey"`
	RandomSpawnGroupPackKey           *string `json:"randomSpawnGroupPackKey"`
	Weight                            int     `json:"weight"`
	DontBlockWave                     bool    `json:"dontBlockWave"`

	Extra common.Extra `json:"-"`
}

type Fragment struct {
	PreDelay float64  `json:"preDelay"`
	Actions  []Action `json:"actions"`
	Name     *string  `json:"name"`

	Extra common.Extra `json:"-"`
}

type Wave struct {
	PreDelay                  float64    `json:"preDelay"`
	PostDelay                 float64    `json:"postDelay"`
	MaxTimeWaitingForNextWave float64    `json:"maxTimeWaitingForNextWave"`
	Fragments                 []Fragment `json:"fragments"`
	AdvancedWaveTag           *string    `json:"advancedWaveTag"`

	Extra common.Extra `json:"-"`
}

func NewAction() Action {
	return Action{
		ActionType:         "SPAWN",
		ManagedByScheduler: true,
		Count:              1,
		Interval:           1.0,
	}
}

func NewFragment() Fragment {
	return Fragment{Actions: []Action{}}
}

func NewWave() Wave {
	return Wave{MaxTimeWaitingForNextWave: -1, Fragments: []Fragment{}}
}

func (a *Action) snap() {
	a.PreDelay = common.Snap1(a.PreDelay)
	a.Interval = common.Snap1(a.Interval)
}

func (f *Fragment) snap() {
	f.PreDelay = common.Snap1(f.PreDelay)
}

func (w *Wave) snap() {
	w.PreDelay = common.Snap1(w.PreDelay)
	w.PostDelay = common.Snap1(w.PostDelay)
	w.MaxTimeWaitingForNextWave = common.Snap1(w.MaxTimeWaitingForNextWave)
}

func (w *Wave) normalize() {
	if w.Fragments == nil {
		w.Fragments = []Fragment{}
	}
	for i := range w.Fragments {
		if w.Fragments[i].Actions == nil {
			w.Fragments[i].Actions = []Action{}
		}
	}
}

func (l *Level) wave(wi int) (*Wave, error) {
	if wi < 0 || wi >= len(l.Waves) {
		return nil, fmt.Errorf("%w: wave %d", ErrIndex, wi)
	}
	return &l.Waves[wi], nil
}

func (l *Level) fragment(wi, fi int) (*Fragment, error) {
	w, err := l.wave(wi)
	if err != nil {
		return nil, err
	}
	if fi < 0 || fi >= len(w.Fragments) {
		return nil, fmt.Errorf("%w: wave %d fragment %d", ErrIndex, wi, fi)
	}
	return &w.Fragments[fi], nil
}

func (l *Level) AddWave() int {
	l.Waves = append(l.Waves, NewWave())
	l.touch()
	return len(l.Waves) - 1
}

func (l *Level) DeleteWave(wi int) error {
	if _, err := l.wave(wi); err != nil {
		return err
	}
	l.Waves = append(l.Waves[:wi], l.Waves[wi+1:]...)
	l.touch()
	return nil
}

// UpdateWave replaces the timing of wave wi. Its fragments are untouched.
func (l *Level) UpdateWave(wi int, preDelay, postDelay, maxWait float64) error {
	w, err := l.wave(wi)
	if err != nil {
		return err
	}
	w.PreDelay, w.PostDelay, w.MaxTimeWaitingForNextWave = preDelay, postDelay, maxWait
	w.snap()
	l.touch()
	return nil
}

func (l *Level) AddFragment(wi int) (int, error) {
	w, err := l.wave(wi)
	if err != nil {
		return -1, err
	}
	w.Fragments = append(w.Fragments, NewFragment())
	l.touch()
	return len(w.Fragments) - 1, nil
}

func (l *Level) DeleteFragment(wi, fi int) error {
	if _, err := l.fragment(wi, fi); err != nil {
		return err
	}
	w := &l.Waves[wi]
	w.Fragments = append(w.Fragments[:fi], w.Fragments[fi+1:]...)
	l.touch()
	return nil
}

func (l *Level) UpdateFragment(wi, fi int, preDelay float64) error {
	f, err := l.fragment(wi, fi)
	if err != nil {
		return err
	}
	f.PreDelay = preDelay
	f.snap()
	l.touch()
	return nil
}

func (l *Level) AddAction(wi, fi int, a Action) (int, error) {
	f, err := l.fragment(wi, fi)
	if err != nil {
		return -1, err
	}
	if a.ActionType == "" {
		a.ActionType = "SPAWN"
	}
	a.snap()
	f.Actions = append(f.Actions, a)
	l.touch()
	return len(f.Actions) - 1, nil
}

func (l *Level) DeleteAction(wi, fi, ai int) error {
	f, err := l.fragment(wi, fi)
	if err != nil {
		return err
	}
	if ai < 0 || ai >= len(f.Actions) {
		return fmt.Errorf("%w: wave %d fragment %d action %d", ErrIndex, wi, fi, ai)
	}
	f.Actions = append(f.Actions[:ai], f.Actions[ai+1:]...)
	l.touch()
	return nil
}

// UpdateAction overwrites action ai. Neither the key nor the route index is
// checked against anything.
func (l *Level) UpdateAction(wi, fi, ai int, a Action) error {
	f, err := l.fragment(wi, fi)
	if err != nil {
		return err
	}
	if ai < 0 || ai >= len(f.Actions) {
		return fmt.Errorf("%w: wave %d fragment %d action %d", ErrIndex, wi, fi, ai)
	}
	a.snap()
	f.Actions[ai] = a
	l.touch()
	return nil
}

func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	extra, err := common.UnmarshalKeep(data, (*plain)(a))
	a.Extra = extra
	return err
}

func (a Action) MarshalJSON() ([]byte, error) {
	type plain Action
	return common.MarshalKeep(plain(a), a.Extra)
}

func (f *Fragment) UnmarshalJSON(data []byte) error {
	type plain Fragment
	extra, err := common.UnmarshalKeep(data, (*plain)(f))
	f.Extra = extra
	return err
}

func (f Fragment) MarshalJSON() ([]byte, error) {
	type plain Fragment
	return common.MarshalKeep(plain(f), f.Extra)
}

func (w *Wave) UnmarshalJSON(data []byte) error {
	type plain Wave
	extra, err := common.UnmarshalKeep(data, (*plain)(w))
	w.Extra = extra
	return err
}

func (w Wave) MarshalJSON() ([]byte, error) {
	type plain Wave
	return common.MarshalKeep(plain(w), w.Extra)
}
