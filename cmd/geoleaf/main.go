package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vasalvit/geoleaf"
	"github.com/vasalvit/geoleaf/internal/cache"
	"github.com/vasalvit/geoleaf/internal/config"
	"github.com/vasalvit/geoleaf/internal/logger"
	"github.com/vasalvit/geoleaf/internal/preview"
	"github.com/vasalvit/geoleaf/internal/server"
)

const usage = `usage: geoleaf <command> [flags] [file]

commands:
  convert   convert a scene to GeoJSON on stdout
  preview   show a scene or feature collection in the terminal
  serve     run the HTTP conversion service
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "geoleaf:", err)
		os.Exit(1)
	}
}

// flags binds the settings shared by every command. Flags left unset
// keep the value from the environment.
type flags struct {
	fs        *flag.FlagSet
	env       string
	crs       string
	epsg      int
	precision int
	flatten   bool
	multiline bool
	logLevel  string
}

func newFlags(name string) *flags {
	f := &flags{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	f.fs.StringVar(&f.env, "env", ".env", "dotenv file to read before the environment, empty for the environment only")
	f.fs.StringVar(&f.crs, "crs", "", "projection as a proj string or EPSG code")
	f.fs.IntVar(&f.epsg, "epsg", 0, "projection as a numeric EPSG code")
	f.fs.IntVar(&f.precision, "precision", config.DefaultPrecision, "decimals kept in coordinates, 0 keeps all")
	f.fs.BoolVar(&f.flatten, "flatten", false, "approximate curves with line segments")
	f.fs.BoolVar(&f.multiline, "multiline", false, "emit every ring of an unfilled path as a MultiLineString")
	f.fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	return f
}

// load parses args and resolves the configuration.
func (f *flags) load(args []string) (config.Config, error) {
	if err := f.fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	cfg := config.FromEnv()
	if f.env != "" {
		var err error
		if cfg, err = config.Load(f.env); err != nil {
			return config.Config{}, err
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "crs":
			cfg.CRS = f.crs
		case "epsg":
			cfg.EPSG = f.epsg
		case "precision":
			cfg.Precision = f.precision
		case "flatten":
			cfg.FlattenCurves = f.flatten
		case "multiline":
			cfg.MultiLine = f.multiline
		case "log-level":
			cfg.LogLevel = f.logLevel
		}
	})
	return cfg, nil
}

func runConvert(args []string) error {
	f := newFlags("convert")
	cfg, err := f.load(args)
	if err != nil {
		return err
	}
	l := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	var in io.Reader = os.Stdin
	if name := f.fs.Arg(0); name != "" && name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}
	scene, err := geoleaf.DecodeScene(in)
	if err != nil {
		return err
	}
	start := time.Now()
	fc, warnings, err := geoleaf.Convert(scene, cfg.Renderer(l))
	if err != nil {
		return err
	}
	l.Info("convert_done", "features", len(fc.Features), "warnings", len(warnings), "took_ms", time.Since(start).Milliseconds())
	return json.NewEncoder(os.Stdout).Encode(fc)
}

func runPreview(args []string) error {
	f := newFlags("preview")
	cfg, err := f.load(args)
	if err != nil {
		return err
	}
	if f.fs.NArg() != 1 {
		return errors.New("preview needs one scene or GeoJSON file")
	}
	// the terminal belongs to the viewer, so logs are discarded
	m, err := preview.Open(f.fs.Arg(0), cfg.Renderer(nil))
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func runServe(args []string) error {
	f := newFlags("serve")
	addr := f.fs.String("addr", "", "listen address")
	cfg, err := f.load(args)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	l := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	l.Debug("log_init_ok")

	c := cache.Open(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, l)
	if c == nil {
		l.Info("redis_disabled")
	} else {
		defer c.Close()
		if err := c.Ping(context.Background()); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(cfg.Renderer(l), c, l).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	l.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	l.Info("shutdown")
	return nil
}
