// Package passes schedules and runs compiler passes over a container
// builder.
//
// Passes are grouped into tiers that run in a fixed order. Inside a tier,
// passes run by priority, highest first, and passes sharing a priority run
// in registration order. MoveBefore repositions a registered pass directly
// in front of another one without touching the rest of the tier.
//
// The package also holds the priority-tagged wiring passes: a locator of
// ordered items, a keyed locator, and one method call per tagged service.
package passes
