package main

import (
	"time"

	"github.com/marcusrossel/lf-reactor/internal/duration"
	"github.com/marcusrossel/lf-reactor/reactor"
)

// parsedArgs mirrors process_args in the original reactor.c: a manual
// left-to-right scan of argv, since "-stop D U" consumes two operands
// following the flag, a shape the standard flag package's FlagSet
// doesn't express without a custom Value type that would end up doing
// the same scan itself.
type parsedArgs struct {
	fast    bool
	wait    bool
	stop    time.Duration
	hasStop bool
}

func parseArgs(argv []string) parsedArgs {
	var p parsedArgs
	i := 0
	for i < len(argv) {
		switch argv[i] {
		case "-fast":
			p.fast = true
			i++
		case "-wait":
			p.wait = true
			i++
		case "-stop":
			if i+2 >= len(argv) {
				fail("-stop requires two arguments: a count and a unit")
			}
			ns, err := duration.Parse(argv[i+1], argv[i+2])
			if err != nil {
				fail("%v", err)
			}
			p.stop = time.Duration(ns)
			p.hasStop = true
			i += 3
		default:
			fail("unrecognised argument %q", argv[i])
		}
	}
	return p
}

func (p parsedArgs) options() []reactor.Option {
	var opts []reactor.Option
	if p.fast {
		opts = append(opts, reactor.WithFast())
	}
	if p.wait {
		opts = append(opts, reactor.WithWaitForever())
	}
	if p.hasStop {
		opts = append(opts, reactor.WithStopAfter(p.stop))
	}
	return opts
}
