package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/litescript/ls-arcana/internal/astro"
	"github.com/litescript/ls-arcana/internal/config"
	"github.com/litescript/ls-arcana/internal/logging"
	"github.com/litescript/ls-arcana/internal/reading"
	"github.com/litescript/ls-arcana/internal/scene"
	"github.com/litescript/ls-arcana/internal/schedule"
	"github.com/litescript/ls-arcana/internal/state"
	"github.com/litescript/ls-arcana/internal/theme"
)

// Mini sky size when stdout is not a terminal.
const (
	miniSkyCols = 80
	miniSkyRows = 24
)

// options holds the headless CLI flags.
type options struct {
	reading     bool
	jsonPath    string
	msgpackPath string
	sample      int
	schedule    string
	miniSky     bool
	frames      int
}

func (o options) headless() bool {
	return o.reading || o.exports() || o.sample > 0 || o.schedule != "" || o.miniSky
}

func (o options) exports() bool {
	return o.jsonPath != "" || o.msgpackPath != ""
}

type headlessEnv struct {
	cfg    *config.Config
	engine *reading.Engine
	state  *state.Manager
	log    *logging.Logger
	out    io.Writer
	isTTY  bool
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, opts options, env headlessEnv) error {
	if opts.sample > 0 {
		reading.Sample(env.engine, opts.sample).WriteReport(env.out)
		return nil
	}

	if opts.miniSky {
		return writeMiniSky(env, opts.frames)
	}

	if opts.schedule != "" {
		return runSchedule(ctx, opts.schedule, env)
	}

	// Without a terminal and without flags, print what the panel would show.
	set, _ := env.state.Current()
	if opts.reading || opts.exports() {
		var err error
		if set, err = reveal(ctx, env); err != nil {
			return err
		}
	}

	export := reading.ExportSet(set)
	if opts.jsonPath != "" {
		if err := writeTo(env.out, opts.jsonPath, export.WriteJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}
	if opts.msgpackPath != "" {
		if err := writeTo(env.out, opts.msgpackPath, export.WriteMsgpack); err != nil {
			return fmt.Errorf("write msgpack: %w", err)
		}
	}
	if !opts.exports() {
		export.WriteSummary(env.out)
	}
	return nil
}

// reveal channels a new set into the state manager. On a terminal the
// configured delay applies; piped output gets the set at once.
func reveal(ctx context.Context, env headlessEnv) (reading.Set, error) {
	if err := env.state.BeginChanneling(); err != nil {
		return reading.Set{}, err
	}

	delay := env.cfg.Reading.ChannelDelay
	if !env.isTTY {
		delay = 0
	}
	ticket, err := reading.NewChanneler(env.engine, delay).Begin(ctx)
	if err != nil {
		env.state.Abandon(err)
		return reading.Set{}, err
	}

	set, err := ticket.Wait()
	if err != nil {
		env.state.Abandon(err)
		return reading.Set{}, fmt.Errorf("channel abandoned: %w", err)
	}
	env.state.Reveal(set)
	return set, nil
}

// createFile opens export targets; tests swap it out.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeTo writes to path, or to stdout when path is "-". A failed close is
// reported since buffered data may not have reached the file.
func writeTo(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(stdout)
	}
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// writeMiniSky draws frames frames into a canvas and prints the last one.
func writeMiniSky(env headlessEnv, frames int) error {
	th, err := theme.Lookup(env.cfg.Theme)
	if err != nil {
		return err
	}
	field, err := scene.NewField(astro.DefaultCatalog(), fieldOptions(env.cfg)...)
	if err != nil {
		return fmt.Errorf("build sky: %w", err)
	}
	animator, err := scene.NewAnimator(field,
		scene.WithTheme(th),
		scene.WithPlanets(env.cfg.Scene.Planets),
		scene.WithFrameInterval(env.cfg.FrameInterval()),
	)
	if err != nil {
		return err
	}
	queue := &scene.FrameQueue{}
	loop, err := scene.NewLoop(animator, queue, scene.NewCanvasSurface)
	if err != nil {
		return err
	}

	cols, rows := miniSkyCols, miniSkyRows
	if env.isTTY {
		if w, h, err := terminalSize(); err == nil {
			cols, rows = w, h-1
		}
	}
	if err := loop.Mount(cols, rows); err != nil {
		return err
	}
	defer loop.Unmount()

	if frames < 1 {
		frames = 1
	}
	for i := 0; i < frames && queue.Step(); i++ {
	}
	env.log.Debug("Mini sky: %d frames at %dx%d", loop.Frames(), cols, rows)

	canvas, ok := loop.Surface().(*scene.Canvas)
	if !ok {
		return scene.ErrSurfaceUnavailable
	}
	if env.isTTY {
		fmt.Fprintln(env.out, canvas.Render())
	} else {
		fmt.Fprintln(env.out, canvas.Plain())
	}
	return nil
}

// revealJob reveals and prints a set on every run.
type revealJob struct {
	ctx context.Context
	env headlessEnv
}

func (j *revealJob) Name() string { return "reveal" }

func (j *revealJob) Run() error {
	set, err := reveal(j.ctx, j.env)
	if err != nil {
		return err
	}
	reading.ExportSet(set).WriteSummary(j.env.out)
	writeEvents(j.env.out, j.env.state.RecentEvents(5), set.ID.String())
	fmt.Fprintln(j.env.out)
	return nil
}

// writeEvents prints the shift and confluence events of one reading.
func writeEvents(w io.Writer, events []state.Event, readingID string) {
	for _, e := range events {
		if e.ReadingID != readingID {
			continue
		}
		switch e.Type {
		case state.EventSignalShift:
			fmt.Fprintf(w, "%s %s %s %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Market, e.Detail)
		case state.EventConfluence:
			fmt.Fprintf(w, "%s %s %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Detail)
		}
	}
}

// runSchedule reveals once, then on every tick of spec until ctx ends.
func runSchedule(ctx context.Context, spec string, env headlessEnv) error {
	sched := schedule.New(env.log)
	job := &revealJob{ctx: ctx, env: env}
	if err := sched.AddJob(spec, job); err != nil {
		return err
	}
	if err := sched.RunNow(job); err != nil {
		env.log.Error("Job %s failed: %v", job.Name(), err)
	}

	sched.Start()
	<-ctx.Done()
	sched.Stop()
	return nil
}

func terminalSize() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
