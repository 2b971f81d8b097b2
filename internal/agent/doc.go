// Package agent implements the task engine: an LLM-driven reasoning loop
// that plans against a set of bound tools and returns a textual result.
//
// The loop is bounded twice over: a wall-clock timeout (60s) and an
// iteration cap (3 reasoning rounds). Tools never return errors; every
// failure is a descriptive string the model can react to, so a broken tool
// degrades a task instead of killing it.
package agent
