package interfaces

import (
	"context"
	"errors"
)

// ErrGeneratorNotConfigured is returned by a TextGenerator whose
// provider credential is absent. The composer degrades to a fixed
// message instead of failing the request.
var ErrGeneratorNotConfigured = errors.New("text generator not configured")

// TextGenerator is the narrative text-generation collaborator used by
// analysis-mode rendering. One attempt per request, no retries; the
// composer handles every failure by substituting a fixed degraded body.
type TextGenerator interface {
	// Generate produces text from a system instruction and a user
	// instruction. Success returns the provider's text verbatim.
	Generate(ctx context.Context, system, user string) (string, error)
}
