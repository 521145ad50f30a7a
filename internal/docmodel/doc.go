// Package docmodel defines the structured content tree stored for generated
// articles and converts AI-produced markdown into it. The tree serializes to
// the JSON shape the web editor consumes, so node type, attribute, and mark
// names are part of the storage contract and must stay stable.
package docmodel
