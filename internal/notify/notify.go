// Package notify announces finished pipeline runs.
package notify

import (
	"github.com/papacasper/leadflow-ai/internal/pipeline"
)

// Notifier kinds.
const (
	KindConsole = "console"
	KindSlack   = "slack"
)

// New returns the console notifier in mock mode and the Slack notifier
// otherwise.
func New(mockMode bool, slack SlackConfig) pipeline.Notifier {
	if mockMode {
		return NewConsole(slack.channel())
	}
	return NewSlack(slack)
}
