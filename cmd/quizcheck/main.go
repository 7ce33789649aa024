// quizcheck builds the quizzes of a markup file, replays a list of learner
// actions, submits and prints the result as JSON.
//
//	quizcheck [-quiz N] [-actions actions.json] [-view] quiz.html
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mind-engage/quizengine/internal/grading"
	"github.com/mind-engage/quizengine/internal/markup"
	"github.com/mind-engage/quizengine/internal/quiz"
	"github.com/mind-engage/quizengine/internal/render"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "quizcheck:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("quizcheck", flag.ContinueOnError)
	var (
		index    = fs.Int("quiz", 0, "0-based index of the quiz in the document")
		actions  = fs.String("actions", "", "JSON file with an array of actions to apply before submitting")
		view     = fs.Bool("view", false, "print the display model instead of the snapshot")
		noSubmit = fs.Bool("no-submit", false, "do not submit after replaying the actions")
		maxEdit  = fs.Int("fuzzy", 1, "edit distance accepted by the fuzzy validator")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: quizcheck [flags] <markup-file>")
	}

	root, err := markup.ParseFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("parse %s: %w", fs.Arg(0), err)
	}

	all := quiz.BuildAll(root,
		quiz.WithValidators(grading.NewRegistry(grading.WithMaxEditDistance(*maxEdit))),
		quiz.WithFreeTextGrader(grading.KeywordGrader{}),
	)
	if *index < 0 || *index >= len(all) {
		return fmt.Errorf("quiz %d not found, document has %d", *index, len(all))
	}
	qz := all[*index]

	if *actions != "" {
		buf, err := os.ReadFile(*actions)
		if err != nil {
			return err
		}
		var list []quiz.Action
		if err := json.Unmarshal(buf, &list); err != nil {
			return fmt.Errorf("actions: %w", err)
		}
		for i, a := range list {
			if err := qz.Apply(a); err != nil {
				return fmt.Errorf("action %d (%s): %w", i, a.Kind, err)
			}
		}
	}
	if !*noSubmit {
		qz.Submit()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if *view {
		return enc.Encode(render.View(qz.Snapshot(), render.DefaultLabels()))
	}
	return enc.Encode(qz.Snapshot())
}
