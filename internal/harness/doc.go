// Package harness provides conformance testing for container specs.
//
// A scenario names a spec directory, compiles it through the full pass
// schedule and checks the compiled container against expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: encoders_by_priority
//	description: "Encoders are injected highest priority first"
//	specs: ../specs/encoders        # relative to the scenario file
//	expect:
//	  services:
//	    registry:
//	      class: app.Registry
//	      arguments: [["xml", "json"], "@.service_locator.1a2b3c4d"]
//	      method_calls:
//	        - method: addEncoder
//	          arguments: ["@xml"]
//	  absent: [base_encoder]
//	  passes: [resolve_class, resolve_parent, "locator:registry"]
//	golden: true
//
// A scenario that expects compilation to fail sets expect.error to a
// substring of the error message instead.
//
// # Expectations
//
//   - services: compiled definitions must match the listed fields exactly;
//     arguments use "@id" for references like the spec documents do
//   - absent: service ids that must not survive compilation
//   - passes: the names of the passes that ran, in run order
//   - error: compilation must fail with a message containing this text
//
// # Golden Files
//
// With golden set, the canonical JSON of the compiled container is
// compared against testdata/golden/<name>.golden (see AssertGolden).
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/encoders.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
