// Package discovery finds every service carrying a tag and orders the
// results by the priority declared on each tag occurrence.
//
// Three flavors share one grouping step:
//   - FindAndSortTaggedServices builds a key -> reference map, first key wins.
//   - FindAndSortTaggedServicesWithHandler maps every tagged id to a
//     reference and projects each occurrence through a Handler.
//   - FindAndSortTaggedReferences returns one reference per service.
//
// Higher priorities come first unless inverse is set. Equal priorities keep
// registry order.
package discovery
