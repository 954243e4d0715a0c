package llm

// Message represents a single message in a chat conversation. The comparison
// engine builds message lists when prompting for answers and for the
// answer-vs-answer judgement.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model overrides the client's default model when set.
	Model string

	// MaxTokens caps the number of tokens to generate. 0 means no cap.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// Default is 0.7 if not specified.
	Temperature float32
}
