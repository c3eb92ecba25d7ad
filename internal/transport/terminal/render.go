package terminal

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"vocab-quiz/internal/domain"
)

const barWidth = 20

// Renderer draws quiz snapshots as plain text.
type Renderer struct {
	out   io.Writer
	title string
	clear bool
}

// NewRenderer writes to out; clear redraws each frame from the top of the screen.
func NewRenderer(out io.Writer, title string, clear bool) *Renderer {
	return &Renderer{out: out, title: title, clear: clear}
}

func (r *Renderer) Quiz(s domain.Snapshot) {
	if r.clear {
		fmt.Fprint(r.out, "\033[H\033[2J")
	}
	fmt.Fprintf(r.out, "%s  %d/%d\n", r.title, s.CurrentIndex+1, s.Total)
	if s.ShowProgress {
		fmt.Fprintf(r.out, "progress %s %3.0f%%\n", bar(s.ProgressPercentage()), s.ProgressPercentage())
	}
	if s.TimerEnabled && !s.Finished {
		fmt.Fprintf(r.out, "time     %s %2ds\n", bar(s.TimerPercentage()), s.TimeRemaining)
	}

	if s.Finished {
		fmt.Fprintln(r.out, "\nAll words answered.")
		if s.Celebrating {
			fmt.Fprintln(r.out, "*** Well done! ***")
		}
		fmt.Fprintln(r.out, "\n[s] results  [r] restart  [q] quit")
		return
	}

	fmt.Fprintf(r.out, "\n  %s\n\n", s.Prompt)
	selected, answered := s.Selected()
	for i, option := range s.Options {
		mark := "  "
		switch {
		case i < len(s.Feedback) && s.Feedback[i] == domain.FeedbackCorrect:
			mark = "✓ "
		case i < len(s.Feedback) && s.Feedback[i] == domain.FeedbackIncorrect:
			mark = "✗ "
		case answered && int(selected) == i:
			mark = "> "
		}
		fmt.Fprintf(r.out, "  %s%s. %s\n", mark, optionLetter(i), option)
	}
	if s.TimerEnabled && s.TimeRemaining == 0 && !answered {
		fmt.Fprintln(r.out, "\nTime is up, pick an option to continue.")
	}
	fmt.Fprintf(r.out, "\n[A-%s] answer  [r] restart  [q] quit\n", optionLetter(len(s.Options)-1))
}

func (r *Renderer) Results(results []domain.QuestionResult) {
	fmt.Fprintf(r.out, "\nResults: %d/%d\n", domain.Score(results), len(results))
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, res := range results {
		mark := "✗"
		if res.IsRight {
			mark = "✓"
		}
		answer := "(no answer)"
		if !res.Selected.IsTimeout() {
			answer = res.Options[res.Selected]
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", mark, res.Prompt, answer, res.Options[res.Correct])
	}
	tw.Flush()
}

// Notice prints a one-line message below the current frame.
func (r *Renderer) Notice(msg string) {
	fmt.Fprintf(r.out, "! %s\n", msg)
}

func Dashboard(out io.Writer, d domain.Dashboard) {
	fmt.Fprintf(out, "Checked in %d days in a row\n", d.CheckInDays)
	fmt.Fprintf(out, "%s\n", d.Book)
	fmt.Fprintf(out, "%s %d/%d words\n", bar(d.Percent()), d.Learned, d.Total)
}

func Settings(out io.Writer, s domain.Settings) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "colorTheme\t%s\n", s.ColorTheme)
	fmt.Fprintf(tw, "showTimer\t%t\n", s.ShowTimer)
	fmt.Fprintf(tw, "timerDuration\t%d\n", s.TimerDuration)
	fmt.Fprintf(tw, "autoSwitch\t%t\n", s.AutoSwitch)
	fmt.Fprintf(tw, "showProgress\t%t\n", s.ShowProgress)
	fmt.Fprintf(tw, "respondInRealTime\t%t\n", s.RespondInRealTime)
	tw.Flush()
}

func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	filled = max(0, min(filled, barWidth))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}
