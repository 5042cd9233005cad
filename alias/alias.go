// SPDX-License-Identifier: GPL-2.0-or-later

package alias

import (
	"sort"
	"strings"

	"gosnd/cbuf"
	"gosnd/cmd"
	"gosnd/conlog"
)

// Aliases maps console words to command text.
type Aliases struct {
	aliases map[string]string
}

func New() *Aliases {
	return &Aliases{make(map[string]string)}
}

func (al *Aliases) Register(c *cmd.Commands) error {
	if err := c.Add("alias", al.alias); err != nil {
		return err
	}
	if err := c.Add("unalias", al.unalias); err != nil {
		return err
	}
	return c.Add("unaliasall", al.unaliasAll)
}

func (al *Aliases) alias(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch c := len(args); c {
	case 0:
		al.listAliases()
	case 1:
		al.printAlias(args[0])
	default:
		al.setAlias(args)
	}
	return nil
}

func (al *Aliases) listAliases() {
	if len(al.aliases) == 0 {
		conlog.Printf("no alias commands found\n")
		return
	}
	names := make([]string, 0, len(al.aliases))
	for k := range al.aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		// each alias value ends with a '\n'
		conlog.Printf("  %s: %s", k, al.aliases[k])
	}
	conlog.Printf("%v alias command(s)\n", len(al.aliases))
}

func (al *Aliases) printAlias(arg cmd.QArg) {
	name := arg.String()
	if v, ok := al.aliases[name]; ok {
		conlog.Printf("  %s: %s", name, v)
	}
}

func (al *Aliases) setAlias(args []cmd.QArg) {
	// the parts have '"' already removed
	name := args[0].String()
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		parts = append(parts, a.String())
	}
	al.aliases[name] = strings.TrimSpace(strings.Join(parts, " ")) + "\n"
}

func (al *Aliases) unalias(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("unalias <name> : delete alias\n")
		return nil
	}
	name := args[0].String()
	if _, ok := al.aliases[name]; ok {
		delete(al.aliases, name)
	} else {
		conlog.Printf("No alias named %s\n", name)
	}
	return nil
}

func (al *Aliases) unaliasAll(_ cmd.Arguments) error {
	clear(al.aliases)
	return nil
}

func (al *Aliases) Get(name string) (string, bool) {
	a, ok := al.aliases[name]
	return a, ok
}

// Execute returns the executor that expands aliases into the command
// buffer.
func (al *Aliases) Execute() cbuf.Efunc {
	return func(cb *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
		args := a.Args()
		if len(args) == 0 {
			return false, nil
		}
		if v, ok := al.Get(args[0].String()); ok {
			cb.InsertText(v)
			return true, nil
		}
		return false, nil
	}
}
