// Package extractors provides implementations of the Extractor interface
// for various document formats. Each extractor knows how to turn one
// family of formats into plain text.
//
// Extractors are registered with the Registry at startup. The registry
// dispatches on media type first and file extension second, and guards
// against oversized inputs.
package extractors
