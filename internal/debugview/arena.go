package debugview

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
	"github.com/plus3/isoarena/internal/game"
)

type RosterEntry struct {
	Entity   ecs.EntityId
	Kind     string
	Name     string
	Health   game.Health
	Score    uint32
	Position *mgl32.Vec3
}

const (
	columnEntity = iota
	columnKind
	columnName
	columnHealth
	columnScore
)

// ArenaPanel shows the game resources and a sortable roster of players and enemies.
type ArenaPanel struct {
	world   *game.World
	players *ecs.Query[struct {
		*game.Player
		*game.Health
		Score     *game.Score     `ecs:"optional"`
		Transform *game.Transform `ecs:"optional"`
	}]
	enemies *ecs.Query[struct {
		*game.Enemy
		*game.Health
		Transform *game.Transform `ecs:"optional"`
	}]
	input *ecs.Singleton[game.InputState]

	filter        string
	sortColumn    int
	sortAscending bool
}

func NewArenaPanel(world *game.World) *ArenaPanel {
	storage := world.Storage
	return &ArenaPanel{
		world: world,
		players: ecs.NewQuery[struct {
			*game.Player
			*game.Health
			Score     *game.Score     `ecs:"optional"`
			Transform *game.Transform `ecs:"optional"`
		}](storage),
		enemies: ecs.NewQuery[struct {
			*game.Enemy
			*game.Health
			Transform *game.Transform `ecs:"optional"`
		}](storage),
		input:         ecs.NewSingleton[game.InputState](storage),
		sortAscending: true,
	}
}

// Roster lists every player and enemy.
func (p *ArenaPanel) Roster() []RosterEntry {
	p.players.Execute()
	p.enemies.Execute()

	entries := make([]RosterEntry, 0, p.players.Len()+p.enemies.Len())
	for id, pl := range p.players.Iter() {
		e := RosterEntry{Entity: id, Kind: "player", Name: pl.Player.Name, Health: *pl.Health}
		if pl.Score != nil {
			e.Score = pl.Score.Value
		}
		if pl.Transform != nil {
			pos := pl.Transform.Translation
			e.Position = &pos
		}
		entries = append(entries, e)
	}
	for id, en := range p.enemies.Iter() {
		e := RosterEntry{Entity: id, Kind: "enemy", Name: en.Enemy.Name, Health: *en.Health}
		if en.Transform != nil {
			pos := en.Transform.Translation
			e.Position = &pos
		}
		entries = append(entries, e)
	}
	return entries
}

func sortRoster(entries []RosterEntry, column int, ascending bool) {
	slices.SortStableFunc(entries, func(a, b RosterEntry) int {
		var c int
		switch column {
		case columnKind:
			c = cmp.Compare(a.Kind, b.Kind)
		case columnName:
			c = cmp.Compare(a.Name, b.Name)
		case columnHealth:
			c = cmp.Compare(a.Health.Current, b.Health.Current)
		case columnScore:
			c = cmp.Compare(a.Score, b.Score)
		}
		if c == 0 {
			c = cmp.Compare(a.Entity, b.Entity)
		}
		if !ascending {
			return -c
		}
		return c
	})
}

func filterRoster(entries []RosterEntry, text string) []RosterEntry {
	if text == "" {
		return entries
	}
	needle := strings.ToLower(text)
	filtered := make([]RosterEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), needle) ||
			strings.Contains(e.Kind, needle) ||
			strings.Contains(fmt.Sprintf("%d", e.Entity), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (p *ArenaPanel) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(360, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(460, 300), imgui.CondOnce)
	if !imgui.BeginV("Arena", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Phase: %s", p.world.Phase()))
	if state := p.world.State(); state != nil {
		imgui.Text(fmt.Sprintf("Round: %d  Players: %d  Winner: %t", state.CurrentRound, state.TotalPlayers, state.HasWinner()))
	}
	if rules := p.world.Rules(); rules != nil {
		imgui.Text(fmt.Sprintf("Rules: first to %d, %d rounds, up to %d players", rules.WinningScore, rules.MaxRounds, rules.MaxPlayers))
	}
	if input := p.input.Get(); input != nil {
		imgui.Text(fmt.Sprintf("Keys: %s", input.Pressed))
	}
	imgui.Separator()

	imgui.InputTextWithHint("##filter", "Filter...", &p.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		p.filter = ""
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("RosterTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Health")
		imgui.TableSetupColumn("Score")
		imgui.TableSetupColumn("Position")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			p.sortColumn = int(spec.ColumnIndex())
			p.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}

		entries := filterRoster(p.Roster(), p.filter)
		sortRoster(entries, p.sortColumn, p.sortAscending)

		for _, e := range entries {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", e.Entity))
			imgui.TableNextColumn()
			imgui.Text(e.Kind)
			imgui.TableNextColumn()
			imgui.Text(e.Name)
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d/%d", e.Health.Current, e.Health.Max))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", e.Score))
			imgui.TableNextColumn()
			if e.Position != nil {
				imgui.Text(fmt.Sprintf("%.2f, %.2f, %.2f", e.Position.X(), e.Position.Y(), e.Position.Z()))
			} else {
				imgui.Text("-")
			}
		}
		imgui.EndTable()
	}

	imgui.End()
}
