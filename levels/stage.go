package levels

// Stage is one of the three editing views of a level.
type Stage int

const (
	StageGrid Stage = iota
	StageRoute
	StageWave
)

func (s Stage) String() string {
	switch s {
	case StageGrid:
		return "Grid"
	case StageRoute:
		return "Route"
	case StageWave:
		return "Wave"
	default:
		return "Unknown"
	}
}

// CanEnter reports whether the completion flags allow moving to stage.
func (l *Level) CanEnter(s Stage) bool {
	m := l.EditorMetadata
	switch s {
	case StageGrid:
		return true
	case StageRoute:
		return m.GridCompleted
	case StageWave:
		return m.GridCompleted && m.RouteCompleted
	default:
		return false
	}
}

func (l *Level) SetGridCompleted(done bool) {
	l.EditorMetadata.GridCompleted = done
	l.touch()
}

// SetRouteCompleted fails with ErrNoRoutes when marking a level without
// routes as done. Clearing the flag always succeeds.
func (l *Level) SetRouteCompleted(done bool) error {
	if done && len(l.Routes) == 0 {
		return ErrNoRoutes
	}
	l.EditorMetadata.RouteCompleted = done
	l.touch()
	return nil
}

func (l *Level) SetWaveCompleted(done bool) error {
	if done && len(l.Waves) == 0 {
		return ErrNoWaves
	}
	l.EditorMetadata.WaveCompleted = done
	l.touch()
	return nil
}
