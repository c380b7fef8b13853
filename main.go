package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heistp/bufferbloat/linux"
	"github.com/heistp/bufferbloat/plot"
	"github.com/heistp/bufferbloat/proc"
	"github.com/heistp/bufferbloat/prof"
	"github.com/heistp/bufferbloat/web"
)

const VERSION = "0.1.0"

// Defaults for the subcommand flags.
const (
	DEFAULT_PLOT_EVERY = 1
	DEFAULT_PLOT_EWMA  = 0.0
	DEFAULT_PING_FREQ  = 10
	DEFAULT_PROBE_OUT  = "cwnd.txt"
	DEFAULT_WEB_ADDR   = ":80"
	DEFAULT_WEB_DIR    = "."
)

func main() {
	// start profiling, if enabled in build
	if prof.ProfileEnabled {
		defer prof.StartProfile("./bufferbloat.pprof").Stop()
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "sweep":
		runSweep(args)
	case "clean":
		runClean(args)
	case "probe":
		runProbe(args)
	case "web":
		runWeb(args)
	case "plot-cwnd":
		runPlotCwnd(args)
	case "plot-queue":
		runPlotQueue(args)
	case "plot-ping":
		runPlotPing(args)
	case "version":
		fmt.Printf("%s version %s\n", os.Args[0], VERSION)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: bufferbloat <command> [flags]

commands:
  sweep        run the experiment for each configured queue capacity
  clean        best-effort teardown of emulator state, outputs and helpers
  probe        enable tcp_probe tracing and copy records to a file
  web          serve files over http (fetch measurement target)
  plot-cwnd    plot congestion window from a tcp_probe trace
  plot-queue   plot queue occupancy over time
  plot-ping    plot ping RTTs over time
  version      show version
`)
}

func runSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	fs.Parse(args) // parameters are fixed; see sweep.yaml to override

	cfg, err := loadSweepConfig(SWEEP_CONFIG_FILE)
	if err != nil {
		log.Fatal(err)
	}

	s := NewSweep(cfg, &proc.ExecRunner{Log: cfg.Log})
	if err := s.Run(); err != nil {
		log.Fatalf("sweep failed (%s)", err)
	}
}

func runClean(args []string) {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	var lg = fs.Bool("v", false, "log each cleanup step")
	fs.Parse(args)

	c := NewCleaner(&proc.ExecRunner{})
	c.Log = *lg
	c.Run() // always exits zero, cleanup is safe to run in any state
}

func runProbe(args []string) {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	var out = fs.String("o", DEFAULT_PROBE_OUT, "output file for trace records")
	fs.Parse(args)

	if err := linux.MountDebugfs(); err != nil {
		log.Printf("mount debugfs: %s (continuing)", err)
	}

	p := &linux.TCPProbe{Log: true}
	if err := p.Enable(); err != nil {
		log.Fatalf("enable tcp_probe (%s)", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		p.Disable()
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = p.ReadTrace(ctx, f)
	f.Close()
	if derr := p.Disable(); derr != nil {
		log.Printf("disable tcp_probe (%s)", derr)
	}
	if err != nil {
		log.Fatalf("trace read failed (%s)", err)
	}
}

func runWeb(args []string) {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	var la = fs.String("l", DEFAULT_WEB_ADDR, "listen host/port")
	var dir = fs.String("d", DEFAULT_WEB_DIR, "directory to serve")
	fs.Parse(args)

	s := web.NewServer(web.Config{Addr: *la, Dir: *dir, Log: true})
	if err := s.ListenAndServe(); err != nil {
		log.Fatalf("web server exiting due to error (%s)", err)
	}
}

func runPlotCwnd(args []string) {
	fs := flag.NewFlagSet("plot-cwnd", flag.ExitOnError)
	var f = fs.String("f", "", "tcp_probe trace file (required)")
	var o = fs.String("o", "", "output png file (required)")
	var p = fs.Int("p", DEFAULT_PORT, "port to filter on")
	var sp = fs.Bool("s", false,
		"filter on source port (default: filter on destination port)")
	var hi = fs.String("H", "",
		"also write a histogram of the sum cwnd to this file")
	fs.Parse(args)
	requireFileFlags(fs, *f, *o)

	if err := plot.Cwnd(*f, uint16(*p), *sp, *o); err != nil {
		log.Fatal(err)
	}
	if *hi != "" {
		if err := plot.CwndHist(*f, uint16(*p), *sp, *hi); err != nil {
			log.Fatal(err)
		}
	}
}

func runPlotQueue(args []string) {
	fs := flag.NewFlagSet("plot-queue", flag.ExitOnError)
	var f = fs.String("f", "", "queue occupancy file (required)")
	var o = fs.String("o", "", "output png file (required)")
	var ev = fs.Int("every", DEFAULT_PLOT_EVERY,
		"downsample factor: plot one of every EVERY points")
	var al = fs.Float64("ewma", DEFAULT_PLOT_EWMA,
		"EWMA smoothing alpha (0 disables smoothing)")
	fs.Parse(args)
	requireFileFlags(fs, *f, *o)

	if err := plot.Queue(*f, *ev, *al, *o); err != nil {
		log.Fatal(err)
	}
}

func runPlotPing(args []string) {
	fs := flag.NewFlagSet("plot-ping", flag.ExitOnError)
	var f = fs.String("f", "", "ping output file (required)")
	var o = fs.String("o", "", "output png file (required)")
	var fr = fs.Int("freq", DEFAULT_PING_FREQ, "frequency of pings per second")
	fs.Parse(args)
	requireFileFlags(fs, *f, *o)

	if err := plot.Ping(*f, *fr, *o); err != nil {
		log.Fatal(err)
	}
}

func requireFileFlags(fs *flag.FlagSet, f, o string) {
	if f == "" || o == "" {
		fmt.Fprintln(os.Stderr, "-f and -o are required")
		fs.Usage()
		os.Exit(2)
	}
}
