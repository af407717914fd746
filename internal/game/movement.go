package game

import "github.com/plus3/isoarena/ecs"

// MovementSystem turns the held keys into a unit direction and moves every
// player along it at the player's current speed. Keys are shared, so every
// player moves identically.
type MovementSystem struct {
	Input   ecs.Singleton[InputState]
	Players ecs.Query[struct {
		*Player
		*Transform
		*Velocity
		*Speed
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	var keys KeySet
	if input := s.Input.Get(); input != nil {
		keys = input.Pressed
	}

	direction := MoveDirection(keys)
	dt := float32(frame.DeltaTime)

	for p := range s.Players.Values() {
		p.Velocity.Linear = direction
		if direction.LenSqr() == 0 {
			continue
		}
		p.Transform.Translation = p.Transform.Translation.Add(direction.Mul(dt * p.Speed.Current))
	}
}
