// Package intent turns raw player text into a structured action intent.
//
// Resolution is a strictly ordered three-path fallback: deterministic
// keyword patterns first, then an LLM completion with JSON extraction, then
// a terminal UNKNOWN intent. Parse never returns an error to its caller; a
// failure at any path degrades to the next one.
package intent
