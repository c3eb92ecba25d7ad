package terminal

import (
	"bufio"
	"context"
	"errors"
	"io"

	"vocab-quiz/internal/app"
	"vocab-quiz/internal/domain"
)

// Play runs one quiz session on in/out until the learner quits, input ends or
// ctx is cancelled. Results are printed once every question is answered.
func Play(ctx context.Context, quizzes *app.QuizService, deckID string, in io.Reader, out io.Writer, clear bool) error {
	session, err := quizzes.Start(ctx, deckID)
	if err != nil {
		return err
	}
	defer quizzes.End(ctx, session.ID)

	updates, cancel, err := quizzes.Subscribe(ctx, session.ID)
	if err != nil {
		return err
	}
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	r := NewRenderer(out, session.Title, clear)
	last, err := quizzes.Snapshot(ctx, session.ID)
	if err != nil {
		return err
	}
	resultsShown := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			last = snap
			r.Quiz(snap)
			if !snap.Finished {
				resultsShown = false
				continue
			}
			if !resultsShown {
				if results, err := quizzes.Results(ctx, session.ID); err == nil {
					r.Results(results)
					resultsShown = true
				}
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			cmd, err := ParseCommand(line, len(last.Options))
			if err != nil {
				r.Notice(err.Error())
				continue
			}
			switch cmd.Kind {
			case CommandQuit:
				return nil
			case CommandRestart:
				if _, err := quizzes.Restart(ctx, session.ID); err != nil {
					return err
				}
			case CommandResults:
				results, err := quizzes.Results(ctx, session.ID)
				if errors.Is(err, domain.ErrQuizNotFinished) {
					r.Notice("results are available once every word is answered")
					continue
				}
				if err != nil {
					return err
				}
				r.Results(results)
			case CommandSelect:
				if _, _, err := quizzes.Select(ctx, session.ID, cmd.Option); err != nil {
					return err
				}
			}
		}
	}
}
