package game

import (
	"github.com/plus3/isoarena/ecs"
	"github.com/rs/zerolog"
)

// ViewpointTrackingSystem keeps the viewpoint above the player by copying
// the player's ground-plane coordinates. The viewpoint's height and
// orientation are left alone, so the view angle never changes.
//
// It only acts when exactly one player and exactly one viewpoint exist.
// Anything else is skipped for the frame.
type ViewpointTrackingSystem struct {
	Players ecs.Query[struct {
		*Transform
		*Player
		Viewpoint *Viewpoint `ecs:"without"`
	}]
	Viewpoints ecs.Query[struct {
		*Transform
		*Viewpoint
		Player *Player `ecs:"without"`
	}]

	log        zerolog.Logger
	players    cardinalityWatch
	viewpoints cardinalityWatch
}

func NewViewpointTrackingSystem(logger zerolog.Logger) *ViewpointTrackingSystem {
	return &ViewpointTrackingSystem{log: logger}
}

func (s *ViewpointTrackingSystem) Execute(frame *ecs.UpdateFrame) {
	players := s.Players.Single()
	viewpoints := s.Viewpoints.Single()

	s.players.observe(s.log, "player", players.Cardinality, players.Matches)
	s.viewpoints.observe(s.log, "viewpoint", viewpoints.Cardinality, viewpoints.Matches)

	player, ok := players.Get()
	if !ok {
		return
	}
	view, ok := viewpoints.Get()
	if !ok {
		return
	}

	view.Transform.Translation[0] = player.Transform.Translation[0]
	view.Transform.Translation[2] = player.Transform.Translation[2]
}

// cardinalityWatch reports when a query stops (or starts) resolving to a
// single entity, without repeating itself every frame.
type cardinalityWatch struct {
	seen bool
	last ecs.Cardinality
}

func (w *cardinalityWatch) observe(log zerolog.Logger, what string, c ecs.Cardinality, matches int) {
	if w.seen && w.last == c {
		return
	}
	first := !w.seen
	w.seen = true
	w.last = c

	switch c {
	case ecs.OneMatch:
		if !first {
			log.Debug().Str("query", what).Msg("viewpoint tracking resumed")
		}
	case ecs.ManyMatches:
		log.Warn().Str("query", what).Int("matches", matches).Msg("viewpoint tracking skipped: ambiguous match")
	default:
		log.Debug().Str("query", what).Msg("viewpoint tracking skipped: no match")
	}
}
