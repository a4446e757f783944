package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// options is the parsed command line.
type options struct {
	help         bool
	list         bool
	undocumented bool
	verbose      bool
	output       outputFlag
	defines      defineFlag
	inputs       []string
}

// outputFlag is a path that may be given only once.
type outputFlag struct {
	path string
	set  bool
}

func (o *outputFlag) String() string { return o.path }
func (o *outputFlag) Type() string   { return "file" }

func (o *outputFlag) Set(s string) error {
	if o.set {
		return errors.New("the output path has been specified multiple times")
	}
	o.path, o.set = s, true
	return nil
}

// defineFlag collects -D NAME=VALUE definitions. Names are upper-cased and
// values are base-10 32-bit integers.
type defineFlag map[string]int

func (d defineFlag) String() string { return "" }
func (d defineFlag) Type() string   { return "NAME=VALUE" }

func (d defineFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.ToUpper(strings.TrimSpace(name))
	if !ok || name == "" {
		return fmt.Errorf("not enough arguments for -D: %q", s)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s", name, value)
	}
	d[name] = int(v)
	return nil
}

func newFlagSet(o *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("zasm", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.BoolVarP(&o.help, "help", "h", false, "Show this message")
	fs.BoolVarP(&o.list, "list", "l", false, "List the supported instructions")
	fs.VarP(&o.output, "output", "o", "Set the output file (- for stdout)")
	fs.VarP(o.defines, "define", "D", "Define NAME as VALUE (-D NAME VALUE or -D NAME=VALUE)")
	fs.BoolVarP(&o.undocumented, "undocumented", "u", false, "Accept undocumented instructions")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Log every encoded instruction to stderr")
	return fs
}

// boolShorts are the single-letter switches that may be combined, as in -uv.
const boolShorts = "hluv"

// splitArgs separates flags from input files. It rewrites -D NAME VALUE to
// --define=NAME=VALUE and -o PATH to --output=PATH so that pflag sees one
// token per value. Anything that is not a known flag is an input file.
func splitArgs(args []string) (flags, files []string, err error) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return flags, append(files, args[i+1:]...), nil
		case a == "-o" || a == "--output":
			if i+1 >= len(args) {
				return nil, nil, errors.New("no path has been provided with '-o'")
			}
			i++
			flags = append(flags, "--output="+args[i])
		case a == "-D" || a == "--define":
			if i+1 >= len(args) {
				return nil, nil, errors.New("not enough arguments for -D")
			}
			if strings.Contains(args[i+1], "=") {
				i++
				flags = append(flags, "--define="+args[i])
				continue
			}
			if i+2 >= len(args) {
				return nil, nil, errors.New("not enough arguments for -D")
			}
			flags = append(flags, "--define="+args[i+1]+"="+args[i+2])
			i += 2
		case strings.HasPrefix(a, "--output=") || strings.HasPrefix(a, "--define="),
			strings.HasPrefix(a, "-o") && len(a) > 2,
			strings.HasPrefix(a, "-D") && len(a) > 2:
			flags = append(flags, a)
		case isKnownSwitch(a):
			flags = append(flags, a)
		default:
			files = append(files, a)
		}
	}
	return flags, files, nil
}

func isKnownSwitch(a string) bool {
	switch a {
	case "--help", "--list", "--undocumented", "--verbose":
		return true
	}
	if len(a) < 2 || a[0] != '-' || a[1] == '-' {
		return false
	}
	for _, c := range a[1:] {
		if !strings.ContainsRune(boolShorts, c) {
			return false
		}
	}
	return true
}

// parseOptions parses a zasm command line.
func parseOptions(args []string) (*options, error) {
	o := &options{defines: defineFlag{}}
	flags, files, err := splitArgs(args)
	if err != nil {
		return nil, err
	}
	if err := newFlagSet(o).Parse(flags); err != nil {
		return nil, err
	}
	o.inputs = files
	return o, nil
}
