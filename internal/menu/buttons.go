package menu

import "context"

// Controller is the visualization surface driven by the toolbar.
type Controller interface {
	Reset(ctx context.Context) error
	Stick(ctx context.Context) error
	Unstick(ctx context.Context) error
	Kaboom(ctx context.Context) error
	Unkaboom(ctx context.Context) error
	Nothing(ctx context.Context) error
}

// Toolbar button IDs.
const (
	ButtonReset    = "reset"
	ButtonStick    = "stick"
	ButtonUnstick  = "unstick"
	ButtonKaboom   = "kaboom"
	ButtonUnkaboom = "unkaboom"
	ButtonNothing  = "nothing"
)

// SchemaButtons returns the schema toolbar bound to ctrl.
func SchemaButtons(ctrl Controller) []*Tile {
	button := func(id, label, tooltip string, group int, fn Action) *Tile {
		return &Tile{ID: id, Label: label, Tooltip: tooltip, Group: group, Action: fn}
	}
	return []*Tile{
		button(ButtonReset, "Reset", "Reset", 0, ctrl.Reset),
		button(ButtonStick, "Stick", "Pin all entities", 1, ctrl.Stick),
		button(ButtonUnstick, "Unstick", "Release all entities", 1, ctrl.Unstick),
		button(ButtonKaboom, "Kaboom", "Explode the graph", 2, ctrl.Kaboom),
		button(ButtonUnkaboom, "Unkaboom", "Return to domain view", 2, ctrl.Unkaboom),
		button(ButtonNothing, "Nothing", "Remove all domains", 2, ctrl.Nothing),
	}
}
