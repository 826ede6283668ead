package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/zhouzirui/interview-sim/backend/internal/model/chat"
	"github.com/zhouzirui/interview-sim/backend/internal/model/scenario"
	"github.com/zhouzirui/interview-sim/backend/internal/report"
	"github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
)

const helpText = `Commands:
  /start [KEY]     start a scenario (lists scenarios without KEY)
  /resume ID       continue a previous session
  /finish          end the interview and get an assessment
  /report [PATH]   save the assessment report
  /mail            print a mail link with the assessment
  /copy            copy the session id to the clipboard
  /restart         start the current scenario over
  /menu            leave the session
  /quit            exit
Anything else is sent to the client.`

type repl struct {
	sims      *simulation.Service
	scenarios scenario.Store
	in        *bufio.Scanner
	out       io.Writer
	confirmer simulation.Confirmer
	copy      func(string) error
	now       func() time.Time

	sim *simulation.Simulation
	// identity of the transcript already on screen and how much of it
	shownFirst string
	shown      int
}

func newREPL(sims *simulation.Service, scenarios scenario.Store, in io.Reader, out io.Writer, confirmer simulation.Confirmer) *repl {
	return &repl{
		sims:      sims,
		scenarios: scenarios,
		in:        bufio.NewScanner(in),
		out:       out,
		confirmer: confirmer,
		copy:      clipboard.WriteAll,
		now:       time.Now,
	}
}

func (r *repl) run(ctx context.Context, key scenario.Key) error {
	r.sim = r.sims.Create(ctx)
	fmt.Fprintln(r.out, titleStyle.Render("Client Interview Simulator"))
	fmt.Fprintln(r.out, helpText)
	fmt.Fprintln(r.out)

	if key != "" {
		r.handle(ctx, "/start "+string(key))
	} else {
		printScenarios(r.out, r.scenarios.List())
	}

	for {
		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		if quit := r.handle(ctx, r.in.Text()); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// handle runs one input line and reports whether to exit.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		view, err := r.sim.Submit(ctx, line)
		if err != nil && !errors.Is(err, simulation.ErrExchangeFailed) {
			printError(r.out, err)
			return false
		}
		r.render(view)
		if err != nil {
			printError(r.out, fmt.Errorf("%v, try again in a moment", err))
		} else {
			printEmotion(r.out, view.EmotionSummary)
		}
		return false
	}

	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/start":
		if arg == "" {
			printScenarios(r.out, r.scenarios.List())
			return false
		}
		view, err := r.sim.Start(ctx, scenario.Key(strings.ToUpper(arg)))
		r.show(view, err)
	case "/restart":
		view, err := r.sim.Restart(ctx)
		r.show(view, err)
	case "/menu":
		r.sim.Leave(ctx)
		r.shown, r.shownFirst = 0, ""
		printScenarios(r.out, r.scenarios.List())
	case "/resume":
		r.resume(ctx, arg)
	case "/finish":
		printNotice(r.out, "Analyzing your interview...")
		result, err := r.sim.Finish(ctx)
		if err != nil {
			printError(r.out, err)
			return false
		}
		printResult(r.out, result)
	case "/report":
		r.saveReport(arg)
	case "/mail":
		in, err := report.FromView(r.sim.View(), r.now())
		if err != nil {
			printError(r.out, err)
			return false
		}
		fmt.Fprintln(r.out, report.MailIntent(in))
	case "/copy":
		r.copySessionID()
	default:
		printError(r.out, fmt.Errorf("unknown command %s, type /help", fields[0]))
	}
	return false
}

func (r *repl) resume(ctx context.Context, id string) {
	if id == "" {
		printError(r.out, errors.New("usage: /resume ID"))
		return
	}
	outcome, err := r.sim.Resume(ctx, id, r.confirmer)
	if err != nil {
		printError(r.out, err)
		return
	}
	switch outcome {
	case simulation.ResumeDeclined:
		printNotice(r.out, "Session not resumed.")
	case simulation.ResumeRestored, simulation.ResumeRecovered:
		r.shown, r.shownFirst = 0, ""
		r.render(r.sim.View())
	}
}

func (r *repl) saveReport(path string) {
	in, err := report.FromView(r.sim.View(), r.now())
	if err != nil {
		printError(r.out, err)
		return
	}
	if path == "" {
		path = report.Filename(in.Scenario, in.SessionID)
	}
	if err := os.WriteFile(path, []byte(report.Render(in)), 0o644); err != nil {
		printError(r.out, err)
		return
	}
	printNotice(r.out, "Report saved to %s", path)
}

func (r *repl) copySessionID() {
	view := r.sim.View()
	if view.Session == nil || !view.Session.HasID() {
		printError(r.out, errors.New("no session id yet, send a message first"))
		return
	}
	if err := r.copy(view.Session.ID); err != nil {
		printError(r.out, fmt.Errorf("copy failed: %w", err))
		fmt.Fprintln(r.out, view.Session.ID)
		return
	}
	printNotice(r.out, "Session ID %s copied.", view.Session.ID)
}

func (r *repl) show(view simulation.View, err error) {
	if err != nil {
		printError(r.out, err)
		return
	}
	r.render(view)
}

// render prints the turns that are not on screen yet. A different session
// is printed from the top.
func (r *repl) render(view simulation.View) {
	if view.Session == nil || len(view.Session.Transcript) == 0 {
		return
	}
	transcript := view.Session.Transcript
	if transcript[0].ID != r.shownFirst || r.shown > len(transcript) {
		r.shownFirst = transcript[0].ID
		r.shown = 0
		fmt.Fprintln(r.out, titleStyle.Render(view.Scenario.Title))
	}
	for _, turn := range transcript[r.shown:] {
		if turn.IsProvisional {
			continue
		}
		printTurn(r.out, view.Scenario, turn)
	}
	r.shown = len(transcript)
	if view.Session.Status == chat.StatusErrored && view.Error != "" {
		printNotice(r.out, "The client did not answer.")
	}
}
