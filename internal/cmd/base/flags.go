package base

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
)

// FlagSet wraps flag.FlagSet to render options in command help.
type FlagSet struct {
	*flag.FlagSet
}

func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help returns the options section of a command's help text.
func (f *FlagSet) Help() string {
	var out bytes.Buffer

	fmt.Fprint(&out, "\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		if name != "" {
			fmt.Fprintf(&out, "\n  -%s=<%s>\n", fl.Name, name)
		} else {
			fmt.Fprintf(&out, "\n  -%s\n", fl.Name)
		}
		if fl.DefValue != "" && fl.DefValue != "false" {
			usage += fmt.Sprintf(" The default is %q.", fl.DefValue)
		}
		fmt.Fprintf(&out, "    %s\n", strings.ReplaceAll(usage, "\n", "\n    "))
	})

	return strings.TrimRight(out.String(), "\n")
}
