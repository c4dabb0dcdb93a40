package ecs

import (
	"github.com/phanxgames/sightline"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EntryEventType is the Donburi event type for visibility entries.
// Subscribe to this in your ECS systems to receive threshold crossings.
var EntryEventType = events.NewEventType[sightline.Entry]()

// Visibility is the last reported visibility of an entity's node.
type Visibility struct {
	Ratio        float64
	Intersecting bool
}

// VisibilityComponent stores Visibility on entities bound to observed nodes.
var VisibilityComponent = donburi.NewComponentType[Visibility]()

// NewDonburiCallback returns an observer callback that publishes each entry
// to EntryEventType. Entries are queued and can be consumed with
// events.Subscribe and ProcessEvents.
//
// If an entry's target has a donburi.Entity in UserData that is still valid
// and has VisibilityComponent, the component is set immediately.
func NewDonburiCallback(world donburi.World) sightline.Callback {
	return func(entries []sightline.Entry, _ *sightline.Observer) {
		for _, e := range entries {
			syncVisibility(world, e)
			EntryEventType.Publish(world, e)
		}
	}
}

func syncVisibility(world donburi.World, e sightline.Entry) {
	entity, ok := e.Target.UserData.(donburi.Entity)
	if !ok || !world.Valid(entity) {
		return
	}
	entry := world.Entry(entity)
	if !entry.HasComponent(VisibilityComponent) {
		return
	}
	VisibilityComponent.SetValue(entry, Visibility{
		Ratio:        e.IntersectionRatio,
		Intersecting: e.IsIntersecting,
	})
}
