// Package domain defines the core business entities for sercha-audio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Waveform: Mono floating-point samples at a known rate
//   - AudioChunk: A bounded sample range sent to speech-to-text
//   - Transcript: Ordered chunk texts
//   - DocumentNode: A retrieval unit of transcript text
//   - ToolDescriptor: A routed query strategy
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
