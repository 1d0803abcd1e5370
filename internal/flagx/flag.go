// Package flagx lets several flag sets share one command line. Each config
// layer picks out its own flags and ignores the rest.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps the arguments that belong to one of names, together with
// their values, in their original order. names are given with a single dash
// ("-c"); the "--c" spelling is accepted as well.
//
// Recognised forms:
//
//	-c conf.json
//	-c=conf.json
//	--config conf.json
//	--config=conf.json
//
// A value is taken from the next argument only when it does not start with
// a dash. The result is never nil.
func FilterArgs(args []string, names []string) []string {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[strings.TrimLeft(n, "-")] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !allowed[name] {
			continue
		}

		out = append(out, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigFile returns the path given with -c or -config in args, or "" when
// neither is present. With both, the last one wins.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to a JSON config file")
	fs.StringVar(&path, "c", "", "path to a JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
