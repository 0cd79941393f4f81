package cmd

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"sharpgen/internal/decl"
)

// Inspect validates an API model and reports summary statistics without
// generating anything.
type Inspect struct {
	Model string `arg:"" help:"Path to the API declaration model (json or yaml)" type:"existingfile"`
}

type modelStats struct {
	classes      int
	roots        int
	fields       int
	staticFields int
	constructors int
	methods      int
	virtuals     int
}

func gatherStats(m *decl.Model) modelStats {
	var s modelStats
	decl.Walk(m, func(n decl.Node, ev decl.Event) bool {
		if ev == decl.EventExit {
			return true
		}
		switch d := n.(type) {
		case *decl.Class:
			s.classes++
			if d.IsRoot() {
				s.roots++
			}
		case *decl.Variable:
			s.fields++
			if d.Static {
				s.staticFields++
			}
		case *decl.Constructor:
			s.constructors++
		case *decl.Method:
			s.methods++
			if d.Virtual {
				s.virtuals++
			}
		}
		return true
	})
	return s
}

// Run is called by Kong when the inspect command is executed.
func (i *Inspect) Run(logger *slog.Logger) error {
	model, err := decl.Load(i.Model)
	if err != nil {
		return err
	}

	s := gatherStats(model)
	logger.Info("Model summary",
		"file", i.Model,
		"classes", s.classes,
		"roots", s.roots,
		"fields", s.fields,
		"static_fields", s.staticFields,
		"constructors", s.constructors,
		"methods", s.methods,
		"virtuals", s.virtuals)

	if term.IsTerminal(int(os.Stdout.Fd())) {
		_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
			{"Declaration", "Count"},
			{"Classes", strconv.Itoa(s.classes)},
			{"  root classes", strconv.Itoa(s.roots)},
			{"Fields", strconv.Itoa(s.fields)},
			{"  static fields", strconv.Itoa(s.staticFields)},
			{"Constructors", strconv.Itoa(s.constructors)},
			{"Methods", strconv.Itoa(s.methods)},
			{"  virtual methods", strconv.Itoa(s.virtuals)},
		}).Render()
	}
	return nil
}
