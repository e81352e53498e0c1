// Package audio converts between encoded audio files and mono waveforms.
//
// WAV is handled with go-audio/wav and MP3 with go-mp3. Output is always
// mono float32 at the source's native sample rate; no resampling is done.
package audio
