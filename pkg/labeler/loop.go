package labeler

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"docketlabeler/pkg/errors"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/memory"
	"docketlabeler/pkg/models"
	"docketlabeler/pkg/vocabulary"
)

// ErrQuit reports that the human ended input. Run turns it into a clean return.
var ErrQuit = stderrors.New("labeling session ended by user")

// Prompt is shown when asking for a label
const Prompt = "> "

// RecordSource yields records to label
type RecordSource interface {
	Next(ctx context.Context) (models.Record, error)
}

// RecordSink stores labeling decisions durably
type RecordSink interface {
	Append(record models.Record) error
}

// Observer is told about every record the loop finishes with
type Observer interface {
	Recorded(record models.Record, decision models.Decision, total int)
	Skipped(record models.Record)
}

// Options configures a Loop
type Options struct {
	Source       RecordSource
	Sink         RecordSink
	Memory       *memory.Memory
	Vocabulary   *vocabulary.Vocabulary
	Prompter     Prompter
	DefaultLabel string
	// Seen holds the identities already present in the sink
	Seen map[models.Identity]struct{}
	// Labeled is the number of rows already present in the sink
	Labeled  int
	Observer Observer
	Logger   logger.Logger
}

// Loop pulls records, labels them automatically or by asking, and records
// every decision before moving on
type Loop struct {
	opts      Options
	seen      map[models.Identity]struct{}
	total     int
	introDone bool
	logger    logger.Logger
}

// New creates a labeling loop
func New(opts Options) *Loop {
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.Memory == nil {
		opts.Memory = memory.New()
	}
	if opts.DefaultLabel == "" {
		opts.DefaultLabel = "other"
	}

	seen := make(map[models.Identity]struct{}, len(opts.Seen))
	for id := range opts.Seen {
		seen[id] = struct{}{}
	}

	return &Loop{
		opts:   opts,
		seen:   seen,
		total:  opts.Labeled,
		logger: opts.Logger.WithField("component", "labeler"),
	}
}

// Total returns the number of labeled rows, including those loaded at startup
func (l *Loop) Total() int {
	return l.total
}

// Run labels records until the human quits or a fetch fails. Ending input
// or cancelling ctx returns nil; every decision made so far is already on
// disk.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.InfoWithFields("Labeling started", map[string]interface{}{
		"labeled":       l.total,
		"known_entries": len(l.seen),
	})

	for {
		if ctx.Err() != nil {
			l.logger.Info("Labeling cancelled")
			return nil
		}

		record, err := l.opts.Source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil && stderrors.Is(err, ctx.Err()) {
				l.logger.Info("Labeling cancelled")
				return nil
			}
			return fmt.Errorf("failed to fetch next record: %w", err)
		}

		if err := l.handle(record); err != nil {
			if stderrors.Is(err, ErrQuit) {
				l.opts.Prompter.Show("Goodbye!")
				l.logger.InfoWithFields("User quit", map[string]interface{}{"labeled": l.total})
				return nil
			}
			return err
		}
	}
}

func (l *Loop) handle(record models.Record) error {
	if _, dup := l.seen[record.Identity()]; dup {
		l.logger.DebugWithFields("Skipping already labeled record", map[string]interface{}{
			"entry_id": record.EntryID,
			"child_id": record.ChildID,
		})
		if l.opts.Observer != nil {
			l.opts.Observer.Skipped(record)
		}
		return nil
	}

	var (
		label    string
		decision models.Decision
	)
	switch known, ok := l.opts.Memory.Lookup(record.Text); {
	case record.IsBlank():
		label, decision = l.opts.DefaultLabel, models.DecisionDefault
	case ok:
		label, decision = known, models.DecisionMemory
	default:
		asked, err := l.ask(record)
		if err != nil {
			return err
		}
		label, decision = asked, models.DecisionHuman
	}

	return l.record(record.WithLabel(label), decision)
}

func (l *Loop) record(record models.Record, decision models.Decision) error {
	if err := l.opts.Sink.Append(record); err != nil {
		return fmt.Errorf("failed to record label: %w", err)
	}

	l.opts.Memory.Remember(record.Text, *record.Label)
	l.seen[record.Identity()] = struct{}{}
	l.total++

	l.logger.InfoWithFields("Label recorded", map[string]interface{}{
		"entry_id": record.EntryID,
		"child_id": record.ChildID,
		"label":    *record.Label,
		"decision": string(decision),
		"total":    l.total,
	})
	l.opts.Prompter.Show(fmt.Sprintf("Labeled %d entries.", l.total))

	if l.opts.Observer != nil {
		l.opts.Observer.Recorded(record, decision, l.total)
	}
	return nil
}

// ask prompts until the human picks a label or ends input
func (l *Loop) ask(record models.Record) (string, error) {
	if !l.introDone {
		l.showInstructions()
		l.introDone = true
	}

	for {
		l.opts.Prompter.Show("")
		l.opts.Prompter.Show(record.Text)

		input, err := l.opts.Prompter.Ask(Prompt, l.opts.Vocabulary.Labels())
		if err != nil {
			return "", quitOnEOF(err)
		}
		input = strings.TrimSpace(input)

		switch {
		case input == "":
			return l.opts.DefaultLabel, nil
		case input == "?":
			l.showInstructions()
			continue
		case l.opts.Vocabulary.Contains(input):
			return input, nil
		}

		added, err := l.offerNewLabel(input)
		if err != nil {
			return "", err
		}
		if added {
			return input, nil
		}
		l.opts.Prompter.Show("OK. Now what?")
	}
}

// offerNewLabel asks whether input should join the vocabulary
func (l *Loop) offerNewLabel(input string) (bool, error) {
	l.logger.InfoWithFields("Unknown label entered", map[string]interface{}{"label": input})

	if suggestion, ok := l.opts.Vocabulary.Suggest(input); ok {
		l.opts.Prompter.Show(fmt.Sprintf("Did you mean %q?", suggestion))
	}

	question := fmt.Sprintf("Do you want to add %q as a new label? (y/n) > ", input)
	for {
		answer, err := l.opts.Prompter.Ask(question, []string{"y", "n"})
		if err != nil {
			return false, quitOnEOF(err)
		}

		yes, err := ParseConfirmation(answer)
		if err != nil {
			l.opts.Prompter.Show("Try again.")
			continue
		}
		if !yes {
			return false, nil
		}

		if err := l.opts.Vocabulary.Add(input); err != nil {
			return false, err
		}
		l.opts.Prompter.Show(fmt.Sprintf("Added %q to labels.", input))
		return true, nil
	}
}

func (l *Loop) showInstructions() {
	l.opts.Prompter.Show(Instructions(l.opts.Vocabulary.Labels()))
}

// Instructions renders the help text listing labels
func Instructions(labels []string) string {
	var b strings.Builder
	b.WriteString("Enter a label from the list below. Press Tab to auto-complete.\n")
	b.WriteString("Press Enter for the default label, ? to repeat these instructions, Ctrl-D to quit.\n")
	for _, label := range labels {
		b.WriteString("\n\t")
		b.WriteString(label)
	}
	b.WriteString("\n")
	return b.String()
}

// ParseConfirmation accepts y, yes, n and no in any case
func ParseConfirmation(answer string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.NewValidation("expected y or n, got %q", answer)
	}
}

func quitOnEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return ErrQuit
	}
	return err
}
