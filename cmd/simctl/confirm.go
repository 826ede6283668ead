package main

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	input "github.com/tcnksm/go-input"

	"github.com/zhouzirui/interview-sim/backend/internal/service/simulation"
)

// promptConfirmer asks on the terminal. Without a terminal it declines
// unless --yes was given.
type promptConfirmer struct {
	ui          *input.UI
	out         io.Writer
	interactive bool
	assumeYes   bool
}

var _ simulation.Confirmer = (*promptConfirmer)(nil)

func newConfirmer(in io.Reader, out io.Writer, interactive, assumeYes bool) *promptConfirmer {
	return &promptConfirmer{
		ui:          &input.UI{Reader: in, Writer: out},
		out:         out,
		interactive: interactive,
		assumeYes:   assumeYes,
	}
}

func (c *promptConfirmer) Confirm(message string) bool {
	if c.assumeYes {
		return true
	}
	if !c.interactive {
		printNotice(c.out, "%s\n(no terminal attached, declining; pass --yes to accept)", message)
		return false
	}

	answer, err := c.ui.Ask(message+" [y/n]", &input.Options{
		Default:   "n",
		Required:  true,
		Loop:      true,
		HideOrder: true,
		ValidateFunc: func(answer string) error {
			switch strings.ToLower(strings.TrimSpace(answer)) {
			case "y", "n":
				return nil
			default:
				return errors.Errorf("please enter 'y' or 'n'")
			}
		},
	})
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
