package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/dalilachaima/ProjetPA/internal/auth"
	"github.com/dalilachaima/ProjetPA/internal/domain/models"
	"github.com/dalilachaima/ProjetPA/internal/generator"
	"github.com/dalilachaima/ProjetPA/internal/quiz"
	"github.com/dalilachaima/ProjetPA/internal/sessionstore"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func (p *prompter) ask(format string, args ...any) (string, error) {
	fmt.Fprintf(p.out, format, args...)

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) askInt(lo, hi int, format string, args ...any) (int, error) {
	for {
		text, err := p.ask(format, args...)
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(text)
		if err == nil && n >= lo && n <= hi {
			return n, nil
		}

		color.Red("enter a number between %d and %d", lo, hi)
	}
}

func play(
	ctx context.Context,
	store storage.Storage,
	sessions sessionstore.Store,
	gen *generator.Generator,
	opts options,
) error {
	user := opts.user
	if user == "" {
		user = os.Getenv("USER")
	}
	ctx = auth.WithUser(ctx, user)

	engine := quiz.NewEngine(store, sessions, gen, auth.ContextProvider{Fallback: "local"})
	solo := quiz.NewSolo(store, gen)
	sid := uuid.NewString()
	p := &prompter{in: bufio.NewScanner(os.Stdin), out: os.Stdout}

	categories, err := solo.Categories(ctx)
	if err != nil {
		return err
	}

	_, err = engine.Configure(ctx, sid, quiz.Settings{
		NumPlayers:   opts.players,
		NumQuestions: opts.questions,
		Difficulty:   opts.difficulty,
	})
	if err != nil {
		color.Red("%s", quiz.UserMessage(err))
		return err
	}

	in := quiz.StartInput{RandomCategory: opts.random}
	if !opts.random {
		category, err := chooseCategory(p, categories, opts.category)
		if err != nil {
			return err
		}
		in.CategoryID = category.ID
	}

	for i := range opts.players {
		name, err := p.ask("name of player %d: ", i+1)
		if err != nil {
			return err
		}
		in.PlayerNames = append(in.PlayerNames, name)
	}

	color.Cyan("preparing %d questions...", opts.questions)

	state, err := engine.Start(ctx, sid, in)
	if err != nil {
		color.Red("%s", quiz.UserMessage(err))
		return err
	}

	fmt.Printf("game %s started with %d questions\n", state.PIN, len(state.QuestionIDs))

	var results *quiz.Results
	for results == nil {
		results, err = playTurn(ctx, p, engine, sid)
		if err != nil {
			if errors.Is(err, quiz.ErrFinalizationFailure) {
				if results, err = retryFinalize(ctx, engine, sid); err != nil {
					return err
				}
				break
			}
			_ = engine.Abandon(ctx, sid)
			return err
		}
	}

	printResults(results)

	if opts.csvPath != "" {
		data, err := quiz.ExportCSV(results)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.csvPath, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("ranking written to %s\n", opts.csvPath)
	}

	return nil
}

func chooseCategory(p *prompter, categories []*models.Category, name string) (*models.Category, error) {
	if name != "" {
		for _, c := range categories {
			if generator.Normalize(c.Descriptor) == generator.Normalize(name) {
				return c, nil
			}
		}
		color.Yellow("unknown category %q", name)
	}

	for i, c := range categories {
		fmt.Printf("  %d. %s\n", i+1, c.Descriptor)
	}

	n, err := p.askInt(1, len(categories), "category: ")
	if err != nil {
		return nil, err
	}

	return categories[n-1], nil
}

// playTurn asks the active player one question. It returns the results once the game is over.
func playTurn(ctx context.Context, p *prompter, engine *quiz.Engine, sid string) (*quiz.Results, error) {
	view, err := engine.Turn(ctx, sid)
	if err != nil {
		return nil, err
	}

	fmt.Println()
	color.New(color.Bold).Printf("Question %d/%d for %s\n", view.Index+1, view.Total, view.Player.Name)
	fmt.Println(view.Question.Text)
	for i, a := range view.Answers {
		fmt.Printf("  %d. %s\n", i+1, a.Text)
	}

	shownAt := time.Now()

	n, err := p.askInt(1, len(view.Answers), "answer (%ds): ", view.Question.TimeLimit)
	if err != nil {
		return nil, err
	}

	reaction := int(time.Since(shownAt).Milliseconds())

	result, err := engine.SubmitAnswer(ctx, sid, quiz.Submission{
		QuestionIndex:  view.Index,
		AnswerID:       view.Answers[n-1].ID,
		ReactionTimeMs: &reaction,
	})
	if err != nil && result == nil {
		if errors.Is(err, quiz.ErrInvalidSubmission) {
			color.Red("%s", quiz.UserMessage(err))
			return nil, nil
		}
		return nil, err
	}

	if result.Correct {
		color.Green("correct! +%d for %s (%d)", result.Awarded, result.Player.Name, result.Player.Score)
	} else {
		for _, a := range view.Answers {
			if a.ID == result.CorrectAnswerID {
				color.Red("wrong, the answer was: %s", a.Text)
			}
		}
	}

	return result.Results, err
}

// soloGame asks opts.questions questions of one category and prints the tally.
func soloGame(ctx context.Context, store storage.Storage, gen *generator.Generator, opts options) error {
	solo := quiz.NewSolo(store, gen)
	p := &prompter{in: bufio.NewScanner(os.Stdin), out: os.Stdout}

	categories, err := solo.Categories(ctx)
	if err != nil {
		return err
	}

	category, err := chooseCategory(p, categories, opts.category)
	if err != nil {
		return err
	}

	good := 0
	for i := range opts.questions {
		q, err := solo.NextQuestion(ctx, category.ID)
		if err != nil {
			color.Red("%s", quiz.UserMessage(err))
			return err
		}

		fmt.Println()
		color.New(color.Bold).Printf("Question %d/%d\n", i+1, opts.questions)
		fmt.Println(q.Text)
		for j, a := range q.Answers {
			fmt.Printf("  %d. %s\n", j+1, a.Text)
		}

		n, err := p.askInt(1, len(q.Answers), "answer (%ds): ", quiz.SoloTimeLimit)
		if err != nil {
			return err
		}

		res, err := solo.Check(ctx, q.ID, q.Answers[n-1].ID)
		if err != nil {
			return err
		}

		if res.Correct {
			good++
			color.Green("correct!")
			continue
		}
		for _, a := range q.Answers {
			if a.ID == res.CorrectAnswerID {
				color.Red("wrong, the answer was: %s", a.Text)
			}
		}
	}

	fmt.Printf("\n%d/%d correct answers\n", good, opts.questions)

	return nil
}

func retryFinalize(ctx context.Context, engine *quiz.Engine, sid string) (*quiz.Results, error) {
	var lastErr error

	for attempt := range 3 {
		color.Yellow("%s", quiz.UserMessage(quiz.ErrFinalizationFailure))
		time.Sleep(time.Duration(attempt+1) * time.Second)

		results, err := engine.Finalize(ctx, sid)
		if err == nil {
			return results, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func printResults(results *quiz.Results) {
	fmt.Println()
	color.New(color.Bold).Println("Final ranking")

	for _, line := range results.Ranking {
		fmt.Printf("  %d. %-20s %3d points  %d correct\n",
			line.Rank, line.Player.Name, line.Player.Score, line.Player.CorrectCount)
	}

	color.Green("%s wins!", results.Winner.Name)
}
