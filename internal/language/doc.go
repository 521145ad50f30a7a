// Package language normalizes and names the language tags used for
// documentation and caption generation.
//
// All language-related conversions are consolidated here so the job service,
// pipeline, and CLI agree on one canonical form: a lowercase BCP 47 tag.
package language
