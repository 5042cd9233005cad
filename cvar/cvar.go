// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"gosnd/cmd"
	"gosnd/conlog"
)

var (
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	NONE    flag = 0
	ARCHIVE flag = 1
	// latched values only take effect on the next sound system restart
	LATCH flag = 1 << 1
	ROM   flag = 1 << 6
	// created by the user with set
	USERDEFINED flag = 1 << 17
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	archive  bool
	latch    bool
	rom      bool
	user     bool
	modified bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
	id           int
}

func All() []*Cvar {
	return cvarArray
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) Latched() bool {
	return cv.latch
}

func (cv *Cvar) UserDefined() bool {
	return cv.user
}

// Modified reports whether the value changed since the last ClearModified.
func (cv *Cvar) Modified() bool {
	return cv.modified
}

func (cv *Cvar) ClearModified() {
	cv.modified = false
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	if s != cv.stringValue {
		cv.modified = true
	}
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(strings.TrimSpace(cv.stringValue), 32)
	cv.value = float32(pf)
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) Default() string {
	return cv.defaultValue
}

func (cv *Cvar) ID() int {
	return cv.id
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

func (cv *Cvar) Int() int {
	return int(cv.value)
}

func (cv *Cvar) SetValue(value float32) {
	if float32(int(value)) == value {
		v := strconv.FormatInt(int64(value), 10)
		cv.SetByString(v)
	} else {
		v := strconv.FormatFloat(float64(value), 'f', -1, 32)
		cv.SetByString(v)
	}
}

func (cv *Cvar) Toggle() {
	if cv.String() == "1" {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0" && cv.stringValue != ""
}

func Get(name string) (*Cvar, bool) {
	cv, ok := cvarByName[strings.ToLower(name)]
	return cv, ok
}

func GetByID(id int) (*Cvar, error) {
	if id < 0 || id >= len(cvarArray) {
		return nil, fmt.Errorf("id out of bounds")
	}
	return cvarArray[id], nil
}

// Set changes an existing cvar or creates a user defined one.
func Set(name, value string) {
	if cv, ok := Get(name); ok {
		cv.SetByString(value)
		return
	}
	cv := create(name, value)
	cv.user = true
}

func create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.SetByString(value)
	cv.modified = false
	pos := len(cvarArray)
	cvarArray = append(cvarArray, cv)
	cvarByName[strings.ToLower(name)] = cv
	cv.id = pos
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := Get(name); ok {
		return nil, fmt.Errorf("Can't register variable %s, already defined", name)
	}

	cv := create(name, value)
	cv.archive = flags&ARCHIVE != 0
	cv.latch = flags&LATCH != 0
	cv.rom = flags&ROM != 0
	cv.user = flags&USERDEFINED != 0
	return cv, nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		log.Panic(n)
	}
	return cv
}

// Execute handles a console line whose first word names a cvar: with no
// further argument it prints the value, otherwise it sets it.
func Execute(a cmd.Arguments) (bool, error) {
	args := a.Args()
	if len(args) == 0 {
		return false, nil
	}
	cv, ok := Get(args[0].String())
	if !ok {
		return false, nil
	}
	if len(args) == 1 {
		conlog.Printf("\"%s\" is \"%s\" default \"%s\"\n", cv.Name(), cv.String(), cv.Default())
		return true, nil
	}
	cv.SetByString(args[1].String())
	return true, nil
}

func init() {
	cmd.Must(cmd.AddCommand("cvarlist", list))
	cmd.Must(cmd.AddCommand("cycle", cycle))
	cmd.Must(cmd.AddCommand("inc", inc))
	cmd.Must(cmd.AddCommand("reset", reset))
	cmd.Must(cmd.AddCommand("resetall", resetAll))
	cmd.Must(cmd.AddCommand("set", set))
	cmd.Must(cmd.AddCommand("toggle", toggle))
}

func set(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) < 2 {
		conlog.Printf("set <cvar> <value>\n")
		return nil
	}
	if cmd.Exists(args[0].String()) {
		conlog.Printf("conflict with command\n")
		return nil
	}
	Set(args[0].String(), args[1].String())
	return nil
}

func toggle(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("toggle <cvar> : toggle cvar\n")
		return nil
	}
	arg := args[0].String()
	if cv, ok := Get(arg); ok {
		cv.Toggle()
	} else {
		conlog.Printf("toggle: variable %v not found\n", arg)
	}
	return nil
}

func incr(n string, v float32) {
	if cv, ok := Get(n); ok {
		cv.SetValue(cv.Value() + v)
	} else {
		conlog.Printf("inc: variable %v not found\n", n)
	}
}

func inc(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 1:
		incr(args[0].String(), 1)
	case 2:
		incr(args[0].String(), args[1].Float32())
	default:
		conlog.Printf("inc <cvar> [amount] : increment cvar\n")
	}
	return nil
}

func reset(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("reset <cvar> : reset cvar to default\n")
		return nil
	}
	arg := args[0].String()
	if cv, ok := Get(arg); ok {
		cv.Reset()
	} else {
		conlog.Printf("reset: variable %v not found\n", arg)
	}
	return nil
}

func resetAll(_ cmd.Arguments) error {
	for _, cv := range All() {
		cv.Reset()
	}
	return nil
}

func list(a cmd.Arguments) error {
	prefix := ""
	if args := a.Args(); len(args) > 1 {
		prefix = strings.ToLower(args[1].String())
	}
	cvars := make([]*Cvar, 0, len(cvarArray))
	for _, v := range cvarArray {
		if strings.HasPrefix(strings.ToLower(v.Name()), prefix) {
			cvars = append(cvars, v)
		}
	}
	sort.Slice(cvars, func(i, j int) bool { return cvars[i].name < cvars[j].name })
	for _, v := range cvars {
		f := " "
		if v.Archive() {
			f = "*"
		}
		if v.Latched() {
			f += "L"
		} else {
			f += " "
		}
		conlog.Printf("%s %s \"%s\"\n", f, v.Name(), v.String())
	}
	if prefix != "" {
		conlog.Printf("%v cvars beginning with \"%s\"\n", len(cvars), prefix)
	} else {
		conlog.Printf("%v cvars\n", len(cvars))
	}
	return nil
}

func cycle(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) < 2 {
		conlog.Printf("cycle <cvar> <value list>: cycle cvar through a list of values\n")
		return nil
	}
	cv, ok := Get(args[0].String())
	if !ok {
		conlog.Printf("cycle: variable %v not found\n", args[0].String())
		return nil
	}
	oldValue := cv.String()
	i := 0
	for i < len(args)-1 {
		i++
		if oldValue == args[i].String() {
			break
		}
	}
	i %= len(args) - 1
	i++
	cv.SetByString(args[i].String())
	return nil
}
