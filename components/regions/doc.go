// Package regions provides the embedded list of Indian states and union
// territories and a JSON options endpoint for address inputs.
//
// GET {base}/options/states accepts q (name or two-letter code), kind
// (state or ut) and limit. An empty q lists every region. The same list
// backs the "states" choice source of the bundled forms through Resolver.
package regions
