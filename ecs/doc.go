// Package ecs bridges sightline visibility entries into a [Donburi] world.
//
// [NewDonburiCallback] returns an observer callback that publishes every
// delivered entry to [EntryEventType]. When a target node's UserData holds a
// donburi.Entity that carries the [Visibility] component, the component is
// updated in the same call so systems can query visibility directly.
//
// Usage:
//
//	obs, err := sightline.NewObserver(ctrl, ecs.NewDonburiCallback(world), nil)
//	node.UserData = entity
//	obs.Observe(node)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
