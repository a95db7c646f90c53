package twob

import "context"

// Intent identifies the tool a free-form request maps to.
type Intent string

// Intents the dispatcher can route to.
const (
	IntentDo       Intent = "do"
	IntentSearch   Intent = "search"
	IntentRemember Intent = "remember_add"
	IntentGenerate Intent = "generate"
	IntentExplain  Intent = "explain"
	IntentChat     Intent = "chat"
)

// Valid reports whether the intent is one the router may return.
func (i Intent) Valid() bool {
	switch i {
	case IntentDo, IntentSearch, IntentRemember, IntentGenerate, IntentExplain, IntentChat:
		return true
	}
	return false
}

// Decision is the dispatcher's routing verdict for a request.
type Decision struct {
	Intent Intent `json:"tool_name"`
	Input  string `json:"tool_input"`
}

// Dispatcher infers which explicit command a free-form request maps to.
type Dispatcher interface {
	// Dispatch classifies the query. Implementations fall back to
	// IntentChat with the original query when classification fails, so a
	// returned error always means the call itself could not be made.
	Dispatch(ctx context.Context, query string) (Decision, error)
}
