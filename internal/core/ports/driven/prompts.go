package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Render loads the named template and executes it with data.
	Render(name string, data any) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
// Templates use text/template syntax.
const (
	// PromptTextQA answers a question from retrieved context.
	// Fields: .Context, .Query
	PromptTextQA = "text_qa"

	// PromptRefine improves an existing answer with more context.
	// Fields: .Context, .Query, .Answer
	PromptRefine = "refine"

	// PromptTreeSummarize combines several texts into one answer.
	// Fields: .Context, .Query
	PromptTreeSummarize = "tree_summarize"

	// PromptRouterSelect asks the model to pick one numbered choice.
	// Fields: .Choices, .NumChoices, .Query
	PromptRouterSelect = "router_select"
)

// PromptData is the value passed to prompt templates.
// Each template uses the subset of fields listed on its constant.
type PromptData struct {
	Context    string
	Query      string
	Answer     string
	Choices    string
	NumChoices int
}
