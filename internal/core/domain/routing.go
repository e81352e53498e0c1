package domain

// ToolKind identifies a query strategy the router can pick.
type ToolKind string

// Available query strategies.
const (
	// ToolSummary answers over every node with hierarchical summarisation.
	ToolSummary ToolKind = "summary"

	// ToolVector answers over the nodes most similar to the question.
	ToolVector ToolKind = "vector"
)

// String returns the string representation.
func (k ToolKind) String() string {
	return string(k)
}

// ToolDescriptor is the natural-language description a selector sees for a tool.
type ToolDescriptor struct {
	Kind        ToolKind
	Description string
}

// DefaultTools returns the two routed query strategies in choice order.
func DefaultTools() []ToolDescriptor {
	return []ToolDescriptor{
		{
			Kind:        ToolSummary,
			Description: "Useful for summarization questions about the recorded conversation",
		},
		{
			Kind:        ToolVector,
			Description: "Useful for retrieving specific context from the recorded conversation",
		},
	}
}

// RouterDecision is the selector's pick.
type RouterDecision struct {
	// Index is the 0-based position of the chosen tool.
	Index int

	// Reason is the selector's explanation, if any.
	Reason string
}

// Answer is a routed response to a question.
type Answer struct {
	Response string
	Tool     ToolKind
	Reason   string
}
