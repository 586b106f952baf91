// Package compiler turns container documents (CUE or YAML) into
// ir.ContainerSpec values and checks them before any pass runs.
//
// A document has three top-level sections:
//
//	services: {
//		"app.registry": {
//			class: "app.Registry"
//			arguments: ["@logger", "@@literal"]
//			calls: [{method: "setDebug", arguments: [true]}]
//			tags: ["kernel.reset", {name: "app.encoder", alias: "json", priority: 10}]
//		}
//	}
//	wiring: [{kind: "locator", service: "app.registry", tag: "app.encoder"}]
//	moves: [{source: "add_method:chain", target: "locator:app.registry"}]
//
// In arguments a string starting with "@" is a service reference and "@@"
// escapes a literal "@". Tag attributes are never treated as references.
// Floats are rejected everywhere.
package compiler
