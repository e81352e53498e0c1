package domain

// DocumentNode is a segment of transcript text used as a retrieval unit.
// Nodes are immutable once the indexer has built them.
type DocumentNode struct {
	// ID uniquely identifies the node within an index build.
	ID string

	// Index is the node's position in the transcript.
	Index int

	// Text is the node content.
	Text string

	// Tokens is the token count of Text as measured by the indexer.
	Tokens int
}

// ScoredNode pairs a node with its similarity to a query.
type ScoredNode struct {
	Node  DocumentNode
	Score float64
}
