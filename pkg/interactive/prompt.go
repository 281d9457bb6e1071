// Package interactive provides terminal prompts for the fontperf CLI
package interactive

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	log "github.com/cloud-bulldozer/fontperf/pkg/logging"
)

// Prompts render on stderr, stdout carries the metrics JSON.
var (
	promptIn  terminal.FileReader = os.Stdin
	promptOut terminal.FileWriter = os.Stderr
)

func stdio() survey.AskOpt {
	return survey.WithStdio(promptIn, promptOut, promptOut)
}

// RunChoices are the run counts offered by SelectRuns.
var RunChoices = []int{1, 5, 10, 25, 50, 100}

var (
	// ErrAborted is returned when the user interrupts a prompt
	ErrAborted = errors.New("prompt aborted")
	// ErrInvalidSelection is returned when the answer is not one of the options
	ErrInvalidSelection = errors.New("invalid selection")
)

// runLabel formats a run count as shown in the selector.
func runLabel(n int) string {
	if n == 1 {
		return "1 run"
	}
	return fmt.Sprintf("%d runs", n)
}

// runOptions returns the selector labels and the label of def. An unknown
// default falls back to the first option.
func runOptions(options []int, def int) ([]string, string) {
	labels := make([]string, 0, len(options))
	defLabel := ""
	for _, n := range options {
		l := runLabel(n)
		labels = append(labels, l)
		if n == def {
			defLabel = l
		}
	}
	if defLabel == "" && len(labels) > 0 {
		defLabel = labels[0]
	}
	return labels, defLabel
}

// parseRunLabel maps a selector label back to its run count.
func parseRunLabel(options []int, label string) (int, error) {
	for _, n := range options {
		if runLabel(n) == label {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, label)
}

// SelectRuns asks how many runs to perform.
func SelectRuns(options []int, def int) (int, error) {
	if len(options) == 0 {
		return 0, ErrInvalidSelection
	}
	labels, defLabel := runOptions(options, def)
	var selected string
	prompt := &survey.Select{
		Message: "How many runs?",
		Options: labels,
		Default: defLabel,
	}
	if err := survey.AskOne(prompt, &selected, stdio()); err != nil {
		log.Debugf("run selection: %v", err)
		return 0, ErrAborted
	}
	return parseRunLabel(options, selected)
}

// Confirm asks for user confirmation
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed, stdio()); err != nil {
		log.Debugf("confirmation aborted: %v", err)
		return false
	}
	return confirmed
}

