package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oisee/z80-assembler/pkg/asm"
	"github.com/oisee/z80-assembler/pkg/inst"
	"github.com/oisee/z80-assembler/pkg/parse"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

func errorMessage(err error) string {
	var ee *asm.EncodingError
	if errors.As(err, &ee) {
		return "Error, Invalid instruction: " + ee.Inst.String()
	}
	return "Error: " + err.Error()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zasm [flags] [input files]",
		Short: "Z80 assembler",
		Long: "zasm assembles Z80 source into a flat binary.\n" +
			"With no input files it reads standard input.",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := parseOptions(args)
			if err != nil {
				return err
			}
			return run(cmd, o)
		},
	}
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fs := newFlagSet(&options{defines: defineFlag{}})
		fmt.Fprintf(c.OutOrStdout(), "%s\n\nUsage:\n  %s\n\nFlags:\n%s", c.Long, c.Use, fs.FlagUsages())
	})
	return cmd
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputPath returns where the binary goes: the -o path, else the first
// input with its extension replaced by .bin, else stdout.
func outputPath(o *options) string {
	if o.output.set {
		return o.output.path
	}
	if len(o.inputs) == 0 || o.inputs[0] == "-" {
		return "-"
	}
	in := o.inputs[0]
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".bin"
}

func run(cmd *cobra.Command, o *options) error {
	stdin, stdout, stderr := cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()

	if o.help {
		return cmd.Help()
	}
	if o.list {
		_, err := io.WriteString(stdout, inst.Listing(o.undocumented))
		return err
	}
	if len(o.inputs) == 0 && isTerminal(stdin) {
		return cmd.Help()
	}

	out := outputPath(o)
	if out == "-" && isTerminal(stdout) {
		return errors.New("refusing to write binary output to a terminal, use -o FILE")
	}

	src, err := openSources(o.inputs, stdin, &parse.Parser{Defines: o.defines})
	if err != nil {
		return err
	}
	defer src.Close()

	a := asm.New(src, asm.Config{
		Undocumented: o.undocumented,
		Verbose:      o.verbose,
		Log:          stderr,
	})
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		return err
	}
	if err := src.Err(); err != nil {
		return err
	}

	if out == "-" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if o.verbose {
		fmt.Fprintf(stderr, "Written %d bytes to %s\n", buf.Len(), out)
	}
	return nil
}

// sources chains the parse streams of several inputs into one asm.Source.
type sources struct {
	names   []string
	streams []*parse.Stream
	files   []*os.File
	err     error
}

func openSources(paths []string, stdin io.Reader, p *parse.Parser) (*sources, error) {
	s := &sources{}
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for _, path := range paths {
		if path == "-" {
			s.names = append(s.names, "<stdin>")
			s.streams = append(s.streams, p.Stream(stdin))
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("unable to open %s: %w", path, err)
		}
		s.files = append(s.files, f)
		s.names = append(s.names, path)
		s.streams = append(s.streams, p.Stream(f))
	}
	return s, nil
}

func (s *sources) Next() (inst.Instruction, bool) {
	for s.err == nil && len(s.streams) > 0 {
		if in, ok := s.streams[0].Next(); ok {
			return in, true
		}
		if err := s.streams[0].Err(); err != nil {
			s.err = fmt.Errorf("%s: %w", s.names[0], err)
			break
		}
		s.names, s.streams = s.names[1:], s.streams[1:]
	}
	return inst.Instruction{}, false
}

func (s *sources) Err() error { return s.err }

func (s *sources) Close() {
	for _, f := range s.files {
		f.Close()
	}
}
