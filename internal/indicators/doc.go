// Package indicators implements the world-indicators data pipeline: it
// fetches CO₂ emissions, electricity generation, and GDP per-capita tables
// from their remote origins, harmonizes them to a canonical schema, inner
// joins them on (iso_code, year), annotates continents, and reshapes the
// electricity mix into a long-format share table.
//
// Raw, loosely typed tables exist only between the loader and the
// harmonizer. Everything downstream of harmonization works on the typed
// row structs defined in types.go.
package indicators
