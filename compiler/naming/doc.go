// Package naming holds the identifier transforms shared by the schema
// compiler: case conversions and singular/plural inflection.
//
// All functions are total and deterministic. The default inflector (Simple)
// only knows suffix rules; Dictionary handles irregular nouns such as
// Person/People and is opt-in.
package naming
