// Package gemini wraps the Gemini API behind the AI operations the pipeline
// needs: video upload with a bounded processing poll, segment extraction,
// structured documentation generation, and text/document/caption translation.
// The pipeline depends on the Service interface, never on this client
// directly, so tests substitute fakes.
package gemini
