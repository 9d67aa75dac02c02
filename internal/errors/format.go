package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// Format renders a categorized Error for terminal display, with colors
// when the terminal supports them.
func Format(err *Error) string {
	if err == nil {
		return ""
	}
	return format(err, true)
}

// FormatPlain renders a categorized Error without colors.
func FormatPlain(err *Error) string {
	if err == nil {
		return ""
	}
	return format(err, false)
}

// Fprint writes the formatted error to w.
func Fprint(w io.Writer, err *Error) {
	fmt.Fprintln(w, Format(err))
}

func format(err *Error, useColors bool) string {
	var sb strings.Builder

	if useColors {
		sb.WriteString(errorLabel("Error"))
		sb.WriteString(" [")
		sb.WriteString(categoryFmt(err.Category.String()))
		sb.WriteString("]: ")
		sb.WriteString(errorMsg(err.Message))
	} else {
		sb.WriteString("Error [")
		sb.WriteString(err.Category.String())
		sb.WriteString("]: ")
		sb.WriteString(err.Message)
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n\n")
		if useColors {
			sb.WriteString(fixLabel("To fix this:"))
		} else {
			sb.WriteString("To fix this:")
		}
		for _, step := range err.Remediation {
			sb.WriteString("\n")
			if useColors {
				sb.WriteString("  " + bullet("•") + " " + step)
			} else {
				sb.WriteString("  - " + step)
			}
		}
	}

	return sb.String()
}
