// Package session implements the line-oriented explorer. Every accepted
// command updates the current query and, when the selection changed,
// re-runs the pipeline to completion before the next line is read.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ppiankov/liarlens/internal/aggregate"
	"github.com/ppiankov/liarlens/internal/corpus"
	"github.com/ppiankov/liarlens/internal/model"
	"github.com/ppiankov/liarlens/internal/pipeline"
	"github.com/ppiankov/liarlens/internal/render"
	"github.com/ppiankov/liarlens/internal/worker"
)

// ErrUnknownCommand is returned for an input line the explorer cannot parse
var ErrUnknownCommand = errors.New("unknown command")

// Engine runs queries and lists menus
type Engine interface {
	Render(ctx context.Context, q pipeline.Query) (*render.Output, error)
	Menu(d model.Dimension) []model.Choice
}

// Action is what the explorer does after applying a line
type Action int

const (
	ActionNone   Action = iota // Nothing to do
	ActionRender               // The query changed; render it
	ActionMenu                 // List the menu of Command.Dimension
	ActionShow                 // Print the current query
	ActionHelp                 // Print usage
	ActionQuit                 // Leave the explorer
)

// Command is a parsed input line
type Command struct {
	Action    Action
	Dimension model.Dimension
}

// Session holds the current query of one explorer
type Session struct {
	engine   Engine
	defaults pipeline.Query
	query    pipeline.Query
	limiter  *worker.Limiter
	name     string
	logger   *zap.Logger
}

// New creates a session starting from defaults. Text output is forced since
// the explorer writes to a terminal.
func New(engine Engine, defaults pipeline.Query, cfg model.SessionConfig, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults.Format = render.FormatText
	return &Session{
		engine:   engine,
		defaults: defaults,
		query:    defaults,
		limiter:  worker.NewLimiter(cfg.RendersPerSecond, cfg.Burst),
		name:     "explore",
		logger:   logger.Named("session"),
	}
}

// Query returns the current query
func (s *Session) Query() pipeline.Query {
	return s.query
}

// Apply parses one input line and updates the query. On error the query is
// left unchanged.
func (s *Session) Apply(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, nil
	}

	key, value, assign := strings.Cut(line, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	if !assign {
		fields := strings.Fields(key)
		switch fields[0] {
		case "quit", "exit", "q":
			return Command{Action: ActionQuit}, nil
		case "help", "?":
			return Command{Action: ActionHelp}, nil
		case "show":
			return Command{Action: ActionShow}, nil
		case "render":
			return Command{Action: ActionRender}, nil
		case "reset":
			s.query = s.defaults
			return Command{Action: ActionRender}, nil
		case "dots":
			s.query.Dots = !s.query.Dots
			return Command{Action: ActionRender}, nil
		case "hide-others", "others":
			s.query.HideOthers = !s.query.HideOthers
			return Command{Action: ActionRender}, nil
		case "menu":
			if len(fields) != 2 {
				return Command{}, errors.WithHint(errors.Wrap(ErrUnknownCommand, "menu needs a dimension"), "e.g. menu subject")
			}
			d, err := model.ParseDimension(fields[1])
			if err != nil {
				return Command{}, err
			}
			return Command{Action: ActionMenu, Dimension: d}, nil
		}
		return Command{}, errors.WithHint(errors.Wrapf(ErrUnknownCommand, "%q", line), "type help for the list of commands")
	}

	switch key {
	case "label":
		sel, err := model.ParseLabelSelector(value)
		if err != nil {
			return Command{}, err
		}
		s.query.Label = sel
	case "per-dot", "dpd":
		n, err := strconv.Atoi(value)
		if err != nil {
			return Command{}, errors.Wrapf(aggregate.ErrInvalidDatapointsPerDot, "%q is not a number", value)
		}
		if err := aggregate.ValidateDatapointsPerDot(n); err != nil {
			return Command{}, err
		}
		s.query.DatapointsPerDot = n
	default:
		d, err := model.ParseDimension(key)
		if err != nil {
			return Command{}, err
		}
		s.query.Selection = s.query.Selection.With(d, s.selector(d, value))
	}
	return Command{Action: ActionRender}, nil
}

func (s *Session) selector(d model.Dimension, value string) model.Selector {
	return ParseSelector(d, value, s.engine.Menu(d))
}

// ParseSelector resolves a typed value: a wildcard word, a menu label, or a
// raw category value
func ParseSelector(d model.Dimension, value string, menu []model.Choice) model.Selector {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", "*", "all", strings.ToLower(d.WildcardLabel()):
		return model.Wildcard()
	}
	for _, c := range menu {
		if !c.Selector.IsWildcard() && strings.EqualFold(c.Label, value) {
			return c.Selector
		}
	}
	return model.Value(corpus.NormalizeField(value))
}

// Run renders the initial query, then reads commands from in until EOF,
// quit, or ctx is done
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if err := s.render(ctx, out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		if _, err := fmt.Fprint(out, "> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		cmd, err := s.Apply(scanner.Text())
		if err != nil {
			s.logger.Debug("rejected input", zap.String("line", scanner.Text()), zap.Error(err))
			writeError(out, err)
			continue
		}

		switch cmd.Action {
		case ActionQuit:
			return nil
		case ActionHelp:
			fmt.Fprint(out, usage)
		case ActionShow:
			fmt.Fprintln(out, Describe(s.query))
		case ActionMenu:
			for _, c := range s.engine.Menu(cmd.Dimension) {
				v := c.Value()
				if c.Selector.IsWildcard() {
					v = "*"
				}
				fmt.Fprintf(out, "  %-30s %s\n", c.Label, v)
			}
		case ActionRender:
			if err := s.render(ctx, out); err != nil {
				if ctx.Err() != nil {
					return err
				}
				writeError(out, err)
			}
		}
	}
	return errors.Wrap(scanner.Err(), "read input")
}

func (s *Session) render(ctx context.Context, out io.Writer) error {
	if err := s.limiter.Wait(ctx, s.name); err != nil {
		return errors.Wrap(err, "throttle")
	}
	o, err := s.engine.Render(ctx, s.query)
	if err != nil {
		return err
	}
	_, err = o.WriteTo(out)
	return err
}

func writeError(out io.Writer, err error) {
	fmt.Fprintf(out, "error: %v\n", err)
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(out, "hint: %s\n", h)
	}
}

// Describe summarizes a query on one line
func Describe(q pipeline.Query) string {
	var parts []string
	for i, d := range model.Dimensions {
		parts = append(parts, fmt.Sprintf("%s=%s", d, q.Selection[i]))
	}
	parts = append(parts,
		"label="+q.Label.String(),
		fmt.Sprintf("per-dot=%d", q.DatapointsPerDot),
		fmt.Sprintf("dots=%t", q.Dots),
		fmt.Sprintf("hide-others=%t", q.HideOthers),
	)
	return strings.Join(parts, " ")
}

const usage = `commands:
  <dimension>=<value>   filter a dimension (subject, speaker, profession, state, party, context); * clears it
  label=<label|all>     restrict to one truth label (pants-fire or "Pants on fire")
  per-dot=<1..10>       statements per dot
  dots                  toggle glyphs
  hide-others           toggle the excluded statements
  menu <dimension>      list the top values of a dimension
  show                  print the current query
  reset                 restore the defaults
  quit                  leave
`
