package evaluator

import "io"

// CommandFunc is an externally supplied command word. It receives the
// interpreter's display writer and the raw word-list arguments.
type CommandFunc func(out io.Writer, args []string) error

// command is one dispatchable entry of an instance's command-word table.
type command func(in *Interp, args []string) error

// defaultCommands is the standard command-word table; each instance starts
// from a copy of it.
var defaultCommands = map[string]command{
	"clear":   cmdClear,
	"format":  cmdFormat,
	"who":     cmdWho,
	"session": cmdSession,
}

func cmdClear(in *Interp, args []string) error {
	for _, name := range args {
		if _, ok := in.names[name]; !ok && !in.readOnly[name] {
			in.warned = true
			in.printf("warning: '%s' is not defined\n", name)
		}
	}
	return in.Clear(args...)
}

func cmdFormat(in *Interp, args []string) error {
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "short"):
		in.formatLong = false
	case len(args) == 1 && args[0] == "long":
		in.formatLong = true
	default:
		return errf(EvaluationError, "format accepts 'short' or 'long'")
	}
	return nil
}

func cmdWho(in *Interp, args []string) error {
	names := in.Names()
	if len(names) > 0 {
		for i, name := range names {
			if i > 0 {
				in.printf("  ")
			}
			in.printf("%s", name)
		}
		in.printf("\n")
	}
	return nil
}

func cmdSession(in *Interp, args []string) error {
	in.printf("session %s\n", in.ID)
	return nil
}
