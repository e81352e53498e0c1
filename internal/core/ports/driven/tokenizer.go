package driven

// TokenCounter measures text length in model tokens.
type TokenCounter interface {
	// Count returns the number of tokens in text.
	Count(text string) int

	// Name returns the encoding name.
	Name() string
}
