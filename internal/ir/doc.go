// Package ir provides the intermediate representation shared by the diwire
// compiler: service definitions, tag occurrences, wiring declarations and the
// compiled container.
//
// This package contains type definitions and value encoding only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - tag attributes and arguments use int64
//   - Service references are a first-class value (Reference), encoded in
//     JSON as {"$ref": "<id>"}
//   - All JSON tags use snake_case
//   - Service and tag order is declaration order; maps are only ever
//     serialized with sorted keys
package ir
