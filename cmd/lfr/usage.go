package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: lfr [-fast] [-stop D U] [-wait]

  -fast          skip physical-time pacing; advance logical time as fast
                 as reactions can run
  -stop D U      terminate after logical duration D in units U, where U
                 is one of nsec, usec, msec, sec, minute, hour, day, week
                 (each accepting an optional trailing s), matched by
                 prefix
  -wait          do not terminate when the event queue empties; wait
                 indefinitely for an asynchronous schedule call instead`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lfr: "+format+"\n", args...)
	usage()
	os.Exit(1)
}
