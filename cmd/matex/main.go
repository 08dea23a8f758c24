package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matexlang/matex/internal/config"
	"github.com/matexlang/matex/pkg/matex"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	expr := flag.String("e", "", "evaluate an expression and exit")
	optsPath := flag.String("options", "", "yaml options file")
	flag.Parse()

	session, err := newSession(*optsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "matex:", err)
		os.Exit(3)
	}
	session.SetOutput(os.Stdout)

	switch {
	case *expr != "":
		os.Exit(runChunk(session, *expr, false))
	case flag.NArg() > 0:
		os.Exit(runScript(session, flag.Arg(0)))
	default:
		os.Exit(runREPL(session))
	}
}

func newSession(optsPath string) (*matex.Session, error) {
	if optsPath == "" {
		return matex.New(nil)
	}
	data, err := os.ReadFile(optsPath)
	if err != nil {
		return nil, err
	}
	return matex.NewFromYAML(data)
}

func runScript(session *matex.Session, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "matex:", err)
		return 3
	}
	return runChunk(session, string(data), false)
}

func runChunk(session *matex.Session, src string, interactive bool) int {
	status, err := session.Run(src)
	if err != nil {
		msg := err.Error()
		if interactive {
			msg = errorStyle.Render(msg)
		}
		fmt.Fprintln(os.Stderr, msg)
	}
	return exitCode(status)
}

func runREPL(session *matex.Session) int {
	tty := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	if tty {
		fmt.Println(bannerStyle.Render("matex session " + session.ID()))
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	last := 0
	for {
		if tty {
			fmt.Print(promptStyle.Render(config.Prompt))
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" || line == "quit" {
			break
		}
		last = runChunk(session, line, tty)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "matex:", err)
		return 3
	}
	if tty {
		return 0
	}
	return last
}

func exitCode(status matex.Status) int {
	switch status {
	case matex.OK, matex.Warning:
		return 0
	case matex.LexError, matex.ParseError:
		return 2
	case matex.EvalError:
		return 1
	}
	return 3
}
