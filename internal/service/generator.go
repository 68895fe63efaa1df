package service

import "context"

// Generator is the text-generation collaborator. *ai.Client satisfies
// it; tests substitute canned responses.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
