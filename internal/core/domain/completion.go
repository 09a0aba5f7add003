package domain

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is what crosses the boundary to the remote translation service.
type CompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"input"`
}
