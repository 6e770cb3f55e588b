package engine

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
)

// Prompter is the modal dialog surface used as the last resolution step.
// Every call blocks until the user answers.
type Prompter interface {
	Confirm(title, message string) bool
	Inform(title, message string)
	OpenURL(rawURL string) error
	// ChooseFile returns the picked path, or false when cancelled. suggestedName
	// is a hint for filtering, not a constraint.
	ChooseFile(title, suggestedName string) (string, bool)
}

// Step is one state of the interactive resolution sequence.
type Step int

const (
	StepAskDownload Step = iota
	StepOpenBrowser
	StepGuidance
	StepChooseFile
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepAskDownload:
		return "ask-download"
	case StepOpenBrowser:
		return "open-browser"
	case StepGuidance:
		return "guidance"
	case StepChooseFile:
		return "choose-file"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

func resolveInteractively(p Prompter, exeName, downloadURL string) (string, bool) {
	var (
		chosen string
		ok     bool
	)

	step := StepAskDownload
	for step != StepDone {
		log.Printf("engine: interactive step %s", step)
		switch step {
		case StepAskDownload:
			msg := fmt.Sprintf("The OCR engine (%s) was not found automatically on your system.\n\n"+
				"Would you like to open the download page now?\n\n"+
				"Choose 'Yes' to open the browser, or 'No' to locate %s yourself.", exeName, exeName)
			if p.Confirm("OCR Engine Not Found", msg) {
				step = StepOpenBrowser
			} else {
				step = StepChooseFile
			}
		case StepOpenBrowser:
			if err := p.OpenURL(downloadURL); err != nil {
				log.Printf("engine: open %s: %v", downloadURL, err)
			}
			step = StepGuidance
		case StepGuidance:
			p.Inform("After Downloading", fmt.Sprintf("Once installed, please select the %s file.", exeName))
			step = StepChooseFile
		case StepChooseFile:
			path, picked := p.ChooseFile(fmt.Sprintf("Select OCR Engine Executable (%s)", exeName), exeName)
			if picked && isFile(path) {
				chosen, ok = path, true
			} else if picked {
				log.Printf("engine: selected path %q is not a file", path)
			}
			step = StepDone
		}
	}
	return chosen, ok
}

// ConsolePrompter asks on a terminal. It cannot launch a browser, so OpenURL
// prints the address instead.
type ConsolePrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

func (c *ConsolePrompter) readLine() (string, bool) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (c *ConsolePrompter) Confirm(title, message string) bool {
	fmt.Fprintf(c.Out, "%s\n%s\n[y/N]: ", title, message)
	answer, ok := c.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (c *ConsolePrompter) Inform(title, message string) {
	fmt.Fprintf(c.Out, "%s\n%s\n", title, message)
}

func (c *ConsolePrompter) OpenURL(rawURL string) error {
	_, err := fmt.Fprintf(c.Out, "Download page: %s\n", rawURL)
	return err
}

func (c *ConsolePrompter) ChooseFile(title, suggestedName string) (string, bool) {
	fmt.Fprintf(c.Out, "%s\nPath to %s (empty to cancel): ", title, suggestedName)
	path, ok := c.readLine()
	if !ok || path == "" {
		return "", false
	}
	return path, true
}
