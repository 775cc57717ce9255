// Package fuzztests houses Go fuzz harnesses for the lowering pipeline
// (CST document -> decode -> lower -> diagnose -> encode) and the literal
// parsers. They guard against panics other than invariant violations on
// arbitrary inputs.
package fuzztests
