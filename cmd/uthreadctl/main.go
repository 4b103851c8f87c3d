// Command uthreadctl is an interactive console for driving the uthread
// library from the keyboard: single keystrokes spawn, block, resume, and
// terminate threads and print the table, without waiting for Enter.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"vthread.dev/uthreads/uthread"
)

var quantaFlag = flag.String("quanta", "10000,50000", "comma-separated microsecond quantum per priority level")

func main() {
	log.SetPrefix("uthreadctl: ")
	log.SetFlags(0)
	flag.Parse()

	quanta, err := parseQuanta(*quantaFlag)
	if err != nil {
		log.Fatal(err)
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatal(err)
	}
	fixup := func() { term.Restore(int(os.Stdin.Fd()), oldState) }
	defer fixup()

	if err := uthread.Init(quanta); err != nil {
		fixup()
		log.Fatal(err)
	}

	printHelp()
	var lastSpawned int = -1

	input := make(chan byte, 100)
	go func() {
		defer close(input)
		buf := make([]byte, 16)
		for {
			n, err := os.Stdin.Read(buf)
			for _, c := range buf[:n] {
				input <- c
			}
			if err != nil {
				return
			}
		}
	}()

	for c := range input {
		switch c {
		case 's':
			tid, err := uthread.Spawn(worker, rand.Intn(len(quanta)))
			if err != nil {
				announce("spawn failed: %v", err)
				continue
			}
			lastSpawned = tid
			announce("spawned thread %d", tid)

		case 'b':
			if lastSpawned < 0 {
				announce("no thread spawned yet")
				continue
			}
			if err := uthread.Block(lastSpawned); err != nil {
				announce("block failed: %v", err)
				continue
			}
			announce("blocked thread %d", lastSpawned)

		case 'r':
			if lastSpawned < 0 {
				announce("no thread spawned yet")
				continue
			}
			if err := uthread.Resume(lastSpawned); err != nil {
				announce("resume failed: %v", err)
				continue
			}
			announce("resumed thread %d", lastSpawned)

		case 't':
			if lastSpawned < 0 {
				announce("no thread spawned yet")
				continue
			}
			if err := uthread.Terminate(lastSpawned); err != nil {
				announce("terminate failed: %v", err)
				continue
			}
			announce("terminated thread %d", lastSpawned)
			lastSpawned = -1

		case 'p':
			printStatus()

		case '?':
			printHelp()

		case 'q', 0x1c:
			fixup()
			uthread.Terminate(0)
			return

		case '\r', '\n':
			// ignore bare Enter

		default:
			announce("unknown command %q, press ? for help", string(c))
		}
	}
}

// worker is the body every console-spawned thread runs: it just spins,
// occasionally checking in, until it is terminated or blocked out from
// under it. GetTID is what opens every checkpoint here, the same as any
// other caller of the library.
func worker() {
	for {
		uthread.GetTID()
		time.Sleep(time.Millisecond)
	}
}

func announce(format string, args ...any) {
	fmt.Fprintf(os.Stdout, "\r\n"+format+"\r\n", args...)
}

func printHelp() {
	fmt.Fprint(os.Stdout, "\r\ns=spawn b=block r=resume t=terminate p=status q=quit ?=help\r\n")
}

func printStatus() {
	list := uthread.List()
	fmt.Fprint(os.Stdout, "\r\ntid  priority  state    quanta\r\n")
	for _, s := range list {
		fmt.Fprintf(os.Stdout, "%-4d %-9d %-8s %d\r\n", s.TID, s.Priority, s.State, s.Quantums)
	}
	fmt.Fprintf(os.Stdout, "total quanta: %d\r\n", uthread.GetTotalQuantums())
}

func parseQuanta(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		var v int
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%d", &v); err != nil {
			return nil, fmt.Errorf("parsing quantum %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
