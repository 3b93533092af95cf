// Package extra ships optional handlers loaded with the "import" command:
//
//	import extra
//	banner Hello!
//	sleep 1.5
package extra

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"rehearse/core"
	"rehearse/core/script"
)

var bannerColor = color.New(color.FgCyan, color.Bold)

// doBanner prints its arguments framed as an attention-grabbing banner.
func doBanner(ctx *core.Script, line *script.ScriptLine) error {
	opts := getopt.New()
	plain := opts.Bool('n', "don't colorize the banner")

	if err := opts.Getopt(line.Args, nil); err != nil {
		return &core.SyntaxError{Usage: `"banner [-n] <text>..."`}
	}

	text := strings.Join(opts.Args(), " ")
	bar := strings.Repeat("=", len(text)+4)
	banner := fmt.Sprintf("%s\n| %s |\n%s\n", bar, text, bar)

	if *plain {
		fmt.Fprint(ctx.Stdout, banner)
	} else {
		bannerColor.Fprint(ctx.Stdout, banner)
	}
	return nil
}

// doSleep suspends playback for a number of seconds, useful for letting
// command output sink in without operator interaction.
func doSleep(ctx *core.Script, line *script.ScriptLine) error {
	if len(line.Args) != 2 {
		return &core.SyntaxError{Usage: `"sleep <seconds>"`}
	}
	secs, err := strconv.ParseFloat(line.Args[1], 64)
	if err != nil || secs < 0 {
		return &core.SyntaxError{Usage: `"sleep <seconds>"`}
	}

	time.Sleep(time.Duration(secs * float64(time.Second)))
	return nil
}

func init() {
	core.RegisterModule("extra", &core.Module{
		Handlers: map[string]core.HandlerFunc{
			"do_banner": doBanner,
			"do_sleep":  doSleep,
		},
	})
}
