// Package priority holds the two primitives shared by tagged discovery and
// the pass schedule: reading attributes off a tag occurrence, and grouping
// items into integer priority buckets that flatten into one ordered slice.
//
// Flattening orders buckets by priority descending (ascending when
// inverse). Items that share a priority keep the order they were added in;
// there is no secondary sort key.
package priority
