// Command queuesim replays operation scripts against queue lessons and
// reports the XP earned.
//
//	queuesim [-config queuesimd.yaml] circular-queue=ring.txt linear-queue=-
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/DeterminateSystems/queuesimd/internal/config"
	"github.com/DeterminateSystems/queuesimd/lesson"
	"github.com/DeterminateSystems/queuesimd/progress"
)

var (
	configPath = flag.String("config", "", "YAML config file; built-in lessons are used when empty")
	noBar      = flag.Bool("no-progress", false, "Do not draw the task progress bar")
	list       = flag.Bool("list", false, "List the available lessons and exit")
)

func openScript(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] lesson=script...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %s", err)
	}

	if *list {
		for _, d := range cfg.Lessons {
			fmt.Printf("%-16s %-9s capacity=%-3d xp=%d\n", d.ID, d.Kind, d.Capacity, d.XP)
		}
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	r := &replayer{
		out:     os.Stdout,
		bar:     os.Stderr,
		showBar: !*noBar,
		table:   cfg.Lessons.XPTable(),
		record:  progress.NewRecord(),
	}

	for _, arg := range flag.Args() {
		id, path, ok := strings.Cut(arg, "=")
		if !ok {
			log.Fatalf("argument %q is not lesson=script", arg)
		}
		def, ok := cfg.Lessons.Get(id)
		if !ok {
			log.Fatalf("no such lesson: %s", id)
		}

		f, err := openScript(path)
		if err != nil {
			log.Fatalf("opening script: %s", err)
		}
		cmds, err := lesson.ParseScript(f)
		f.Close()
		if err != nil {
			log.Fatalf("%s: %s", path, err)
		}

		if _, err := r.replay(def, cmds); err != nil {
			log.Fatalf("%s: %s", path, err)
		}
	}

	fmt.Printf("completed: %s\n", strings.Join(r.record.Completed(), ", "))
	fmt.Printf("total XP: %d\n", r.record.XP)
}
