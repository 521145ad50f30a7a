// Package pipeline turns an uploaded video into multi-language documentation
// through a fixed stage sequence: extract, caption, generate docs, translate
// per target language, finalize. Every expensive stage is guarded by a
// checkpoint read from the store, so a re-run after failure skips work that
// already committed instead of repeating AI calls.
package pipeline
