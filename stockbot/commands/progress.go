package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruthless-bot/ruthless/stockbot/config"
)

// ProgressBar renders step of config.ProgressBarLength filled cells and
// the matching percentage, e.g. "[▓▓▓░░░░░░░░░] 25%".
func ProgressBar(step int) string {
	step = min(max(step, 0), config.ProgressBarLength)
	bar := strings.Repeat(config.ProgressFilled, step) +
		strings.Repeat(config.ProgressEmpty, config.ProgressBarLength-step)
	return fmt.Sprintf("[%s] %d%%", bar, step*100/config.ProgressBarLength)
}

// ProgressDelay is the pause between animation frames: progress_speed
// seconds per step, shortened so the whole bar fits in progress_duration
// and in budget. Zero disables the animation.
func ProgressDelay(durationSeconds, speedSeconds int, budget time.Duration) time.Duration {
	if durationSeconds <= 0 || speedSeconds <= 0 || budget <= 0 {
		return 0
	}
	step := time.Duration(speedSeconds) * time.Second
	total := min(time.Duration(durationSeconds)*time.Second, budget)
	return min(step, total/config.ProgressBarLength)
}

// ProgressBudget is how long /gen may animate within timeout, leaving
// room to DM the link afterwards.
func ProgressBudget(timeout time.Duration) time.Duration {
	return max(timeout-config.LinkSendTimeout-config.ProgressSlack, 0)
}
