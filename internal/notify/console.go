package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/papacasper/leadflow-ai/internal/pipeline"
	"github.com/papacasper/leadflow-ai/internal/types"
)

// consolePreview is how many leads the console notifier lists.
const consolePreview = 5

// Console logs what would have been posted. It always succeeds.
type Console struct {
	channel string
	logf    func(format string, args ...any)
}

// NewConsole creates a console notifier.
func NewConsole(channel string) *Console {
	return &Console{channel: channel, logf: log.Printf}
}

// Notify implements pipeline.Notifier.
func (c *Console) Notify(_ context.Context, leads []*types.Lead, stats pipeline.Stats) bool {
	if len(leads) == 0 {
		c.logf("[NOTIFY] No leads to notify about")
		return true
	}
	c.logf("[NOTIFY] Would post to %s", c.channel)
	c.logf("[NOTIFY] New leads: %d", len(leads))
	for i, l := range leads {
		if i == consolePreview {
			c.logf("[NOTIFY]   ... and %d more", len(leads)-consolePreview)
			break
		}
		c.logf("[NOTIFY]   • %s", leadLine(l))
	}
	c.logf("[NOTIFY] Stats: %s", stats)
	return true
}

func leadLine(l *types.Lead) string {
	tags := "no tags"
	if len(l.Tags) > 0 {
		tags = strings.Join(l.Tags, ", ")
	}
	return fmt.Sprintf("%s (%s) [%s]", l.Name, l.Company, tags)
}
