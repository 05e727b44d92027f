package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Interface is one side of the debugger conversation. Interfaces stack: a
// sourced command file or a remote connection is pushed on top of the user
// terminal and popped again when it reaches EOF.
type Interface interface {
	io.Closer
	ReadCommand(prompt string) (string, error)
	Msg(text string)
	Errmsg(text string)
	Confirm(prompt string, def bool) bool
	Interactive() bool
}

const errmsgPrefix = "** "

type userInterface struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	releases    []func() error
}

func NewUserInterface(in io.Reader, out io.Writer, interactive bool) Interface {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	intf := &userInterface{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
	if c, ok := in.(io.Closer); ok && in != io.Reader(os.Stdin) {
		intf.releases = append(intf.releases, c.Close)
	}
	if c, ok := out.(io.Closer); ok && out != io.Writer(os.Stdout) && out != io.Writer(os.Stderr) {
		intf.releases = append(intf.releases, c.Close)
	}
	return intf
}

func (intf *userInterface) Close() error {
	var err error
	for i := len(intf.releases) - 1; i >= 0; i-- {
		if e := intf.releases[i](); e != nil {
			err = multierror.Append(err, e)
		}
	}
	intf.releases = nil
	return err
}

func (intf *userInterface) ReadCommand(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(intf.out, prompt)
	}
	line, err := intf.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (intf *userInterface) Msg(text string) {
	fmt.Fprintln(intf.out, text)
}

func (intf *userInterface) Errmsg(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(intf.out, errmsgPrefix+line)
	}
}

func (intf *userInterface) Confirm(prompt string, def bool) bool {
	if !intf.interactive {
		return def
	}
	for {
		reply, err := intf.ReadCommand(prompt + " (N/y) ")
		if err != nil {
			return def
		}
		switch strings.ToLower(strings.TrimSpace(reply)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		intf.Msg("Please answer y or n.")
	}
}

func (intf *userInterface) Interactive() bool {
	return intf.interactive
}

type scriptInterface struct {
	userInterface
}

// NewScriptInterface reads commands from a file, echoing nothing and
// answering every confirmation with its default.
func NewScriptInterface(path string, out io.Writer) (Interface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}
	intf := &scriptInterface{userInterface{
		in:  bufio.NewReader(f),
		out: out,
	}}
	intf.releases = append(intf.releases, f.Close)
	return intf, nil
}

func (intf *scriptInterface) ReadCommand(string) (string, error) {
	return intf.userInterface.ReadCommand("")
}
