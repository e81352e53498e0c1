// Package normalisers provides implementations of the AudioNormaliser interface
// for the accepted upload formats. Each normaliser knows how to decode a
// specific media type into a mono waveform.
//
// Normalisers are registered with the Registry at startup. Dispatch uses the
// declared media type only; the payload is never sniffed.
package normalisers
