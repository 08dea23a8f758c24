package config

// DivisionPrecision is the number of significant decimal digits kept by
// inexact divisions in the numeric core.
const DivisionPrecision = 34

// MaxEvalDepth is the maximum nesting depth of Eval calls.
// Prevents Go stack overflow from pathologically nested or self-recursive input.
const MaxEvalDepth = 5000

// MaxParseDepth bounds expression nesting in the parser.
const MaxParseDepth = 500

// RenderPlaceholder is emitted by the unparsers in place of a subtree they
// failed to render.
const RenderPlaceholder = "<???>"

// FactorialLimit is the largest integer argument factorial computes exactly.
// Larger (or non-integer) arguments go through the gamma function.
const FactorialLimit = 2000

// Prompt is the interactive prompt of the REPL.
const Prompt = ">> "

// LastResultName is the implicit variable updated with the last bare result.
const LastResultName = "ans"
