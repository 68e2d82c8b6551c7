package kubectl

import (
	"strings"

	"github.com/draupnir/draupnir/internal/models"
)

// HubbleFilters builds a hubble observe invocation plus the equivalent
// structured filters from optional src/dst/verdict selectors. Pure; nothing
// is executed.
func HubbleFilters(src, dst, verdict string) models.HubbleFilters {
	var args []string
	if src != "" {
		args = append(args, "--from", src)
	}
	if dst != "" {
		args = append(args, "--to", dst)
	}
	if verdict != "" {
		args = append(args, "--verdict", verdict)
	}

	filters := map[string]any{
		"from":    nullable(src),
		"to":      nullable(dst),
		"verdict": nullable(verdict),
	}

	cli := "hubble observe"
	if len(args) > 0 {
		cli += " " + strings.Join(args, " ")
	}
	return models.HubbleFilters{CLI: cli, Filters: filters}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
