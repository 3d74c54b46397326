package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/dalilachaima/ProjetPA/internal/generator"
	"github.com/dalilachaima/ProjetPA/internal/quiz"
	"github.com/dalilachaima/ProjetPA/internal/storage"
)

func seed(ctx context.Context, store storage.Storage) error {
	created, err := quiz.SeedCategories(ctx, store)
	if err != nil {
		return err
	}

	fmt.Printf("%d categories created, %d already present\n", created, len(quiz.DefaultCategories)-created)

	return nil
}

func generate(ctx context.Context, gen *generator.Generator, opts options) error {
	difficulties := []int{1, 2, 3}

	report, err := gen.Bulk(ctx, quiz.DefaultCategories, difficulties, opts.count, generator.DefaultBulkPolicy)
	if err != nil {
		return err
	}

	for _, category := range quiz.DefaultCategories {
		for _, d := range difficulties {
			fmt.Printf("%-20s difficulty %d: %d/%d\n", category, d, report.Created[category][d], opts.count)
		}
	}

	if report.Failed > 0 {
		color.Yellow("%d questions could not be generated", report.Failed)
	}

	return nil
}

func purge(ctx context.Context, store storage.Storage) error {
	n, err := store.DeleteQuestions(ctx)
	if err != nil {
		return err
	}

	if n == 0 {
		fmt.Println("no questions to delete")
		return nil
	}

	color.Yellow("%d questions deleted with their answers", n)

	return nil
}

func leaderboard(ctx context.Context, store storage.Storage, opts options) error {
	scores, err := store.TopScores(ctx, opts.limit)
	if err != nil {
		return err
	}

	if len(scores) == 0 {
		fmt.Println("no scores yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPLAYER\tSCORE\tGAME\tDATE")
	for i, s := range scores {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", i+1, s.PlayerName, s.Score, s.SessionID, s.RecordedAt.Format("2006-01-02 15:04"))
	}

	return w.Flush()
}
