package diag

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	successColorFG = pterm.FgLightGreen
	warnColorFG    = pterm.FgYellow
	warnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorColorFG   = pterm.FgRed
	errorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// Display renders every diagnostic to the console with a colored severity
// tag, followed by a count summary. Intended for interactive runs; batch
// runs get the same content through the structured logger.
func (d *Diagnostics) Display() {
	for _, it := range d.items {
		switch it.Severity {
		case SeverityError:
			errorStyleBG.Print("Error")
			errorColorFG.Println(" " + it.Subject + ": " + it.Message)
		default:
			warnStyleBG.Print("Warning")
			warnColorFG.Println(" " + it.Subject + ": " + it.Message)
		}
	}

	fmt.Print("(")
	switch d.errors {
	case 0:
		successColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		errorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		errorColorFG.Print(d.errors)
		fmt.Print(" errors, ")
	}
	switch d.warnings {
	case 0:
		successColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		warnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		warnColorFG.Print(d.warnings)
		fmt.Println(" warnings)")
	}
}
