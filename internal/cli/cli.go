package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/fatih/color"
)

var (
	// Colors for different types of output
	infoColor      = color.New(color.FgCyan)                // Cyan for general information
	successColor   = color.New(color.FgGreen)               // Green for completed steps
	titleColor     = color.New(color.FgMagenta, color.Bold) // Bold magenta for titles
	separatorColor = color.New(color.FgHiBlack)             // Dark grey for separators
	progressColor  = color.New(color.FgYellow)              // Yellow for progress checkpoints
	errorColor     = color.New(color.FgRed)                 // Red for errors
	fileColor      = color.New(color.FgHiBlue)              // Bright blue for file paths

	width = goterm.Width()
)

// Separator printed to cli.
func Separator() {
	separator := strings.Repeat("-", width)
	separatorColor.Println(separator)
}

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	output := fmt.Sprintf("%s%s%s", separator1, title, separator2)
	titleColor.Println(output)
}

// Info printed to cli.
func Info(text string, args ...any) {
	infoColor.Printf(text, args...)
}

// Success printed to cli.
func Success(text string, args ...any) {
	successColor.Printf(text, args...)
}

// Progress printed to cli.
func Progress(text string, args ...any) {
	progressColor.Printf(text, args...)
}

// Error printed to cli.
func Error(text string, args ...any) {
	errorColor.Printf(text, args...)
}

// FileInfo printed to cli.
func FileInfo(text string, args ...any) {
	fileColor.Printf(text, args...)
}

// PromptInput asks the user for a single line of input.
func PromptInput(message string) (string, error) {
	question := &survey.Input{Message: message}
	var answer string
	if err := survey.AskOne(question, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// PromptPassword asks the user for a secret without echoing it.
func PromptPassword(message string) (string, error) {
	question := &survey.Password{Message: message}
	var answer string
	if err := survey.AskOne(question, &answer, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return answer, nil
}

// SelectOption asks the user to pick one of the given options, returning its index.
func SelectOption(message string, options []string) (int, error) {
	question := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 15,
	}
	index := 0
	if err := survey.AskOne(question, &index); err != nil {
		return 0, err
	}
	return index, nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}
