// Package swaytest provides an in-memory compositor for tests. It applies the
// subset of commands swaytile emits and, like the real compositor, refuses to
// rename a workspace onto a number or name that is already taken.
package swaytest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/swaytile/internal/sway"
)

var (
	renameRe       = regexp.MustCompile(`^rename workspace '(.*)' to '(.*)'$`)
	focusNumRe     = regexp.MustCompile(`^workspace number (-?\d+)$`)
	moveNumRe      = regexp.MustCompile(`^\[con_id=__focused__\] move container to workspace number (-?\d+), focus$`)
	focusOutputRe  = regexp.MustCompile(`^focus output (\S+)$`)
	moveOutputRe   = regexp.MustCompile(`^\[con_id=__focused__\] move container to output (\S+), focus$`)
	leadingDigitRe = regexp.MustCompile(`^\d+`)
)

// Fake is an in-memory compositor. The zero value has no outputs.
type Fake struct {
	Workspaces []sway.Workspace
	Outputs    []sway.Output
	// Containers holds the number of tiling children per workspace ID.
	Containers map[int64]int
	// Requests records every RUN_COMMAND payload in order.
	Requests []string
	// Err, when set, fails every query and command.
	Err error
	// Closed reports whether Close was called.
	Closed bool

	nextID int64
}

// New returns a fake with the given outputs and workspaces.
func New(outputs []sway.Output, workspaces ...sway.Workspace) *Fake {
	f := &Fake{
		Outputs:    outputs,
		Workspaces: workspaces,
		Containers: make(map[int64]int),
		nextID:     1000,
	}
	return f
}

// Output returns an active output at (x, y).
func Output(name string, x, y int) sway.Output {
	return sway.Output{Name: name, Active: true, Rect: sway.Rect{X: x, Y: y, Width: 1920, Height: 1080}}
}

// Workspace returns a workspace named after num.
func Workspace(id int64, num int, output string) sway.Workspace {
	return sway.Workspace{ID: id, Num: num, Name: strconv.Itoa(num), Output: output}
}

func (f *Fake) GetWorkspaces(context.Context) ([]sway.Workspace, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]sway.Workspace, len(f.Workspaces))
	copy(out, f.Workspaces)
	return out, nil
}

func (f *Fake) GetOutputs(context.Context) ([]sway.Output, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]sway.Output, len(f.Outputs))
	copy(out, f.Outputs)
	return out, nil
}

// GetTree builds root → outputs → workspaces → Containers[ws.ID] children.
func (f *Fake) GetTree(context.Context) (*sway.Node, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	root := &sway.Node{ID: 1, Type: sway.NodeRoot, Name: "root"}
	for i, out := range f.Outputs {
		outNode := &sway.Node{ID: int64(10 + i), Type: sway.NodeOutput, Name: out.Name}
		for _, ws := range f.Workspaces {
			if ws.Output != out.Name {
				continue
			}
			wsNode := &sway.Node{ID: ws.ID, Type: sway.NodeWorkspace, Name: ws.Name, Focused: ws.Focused}
			for c := 0; c < f.Containers[ws.ID]; c++ {
				wsNode.Nodes = append(wsNode.Nodes, &sway.Node{ID: ws.ID*100 + int64(c), Type: sway.NodeContainer})
			}
			outNode.Nodes = append(outNode.Nodes, wsNode)
		}
		root.Nodes = append(root.Nodes, outNode)
	}
	return root, nil
}

// RunCommand applies every "; "-separated command, continuing past failures
// the way the compositor does.
func (f *Fake) RunCommand(_ context.Context, command string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Requests = append(f.Requests, command)

	var errs []error
	for i, cmd := range strings.Split(command, "; ") {
		if err := f.apply(cmd); err != nil {
			errs = append(errs, &sway.CommandError{Index: i, Message: err.Error()})
		}
	}
	return errors.Join(errs...)
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Commands flattens every recorded request into single commands.
func (f *Fake) Commands() []string {
	var out []string
	for _, req := range f.Requests {
		out = append(out, strings.Split(req, "; ")...)
	}
	return out
}

// Numbers returns the live workspace numbers in ascending order.
func (f *Fake) Numbers() []int {
	nums := make([]int, 0, len(f.Workspaces))
	for _, ws := range f.Workspaces {
		nums = append(nums, ws.Num)
	}
	sort.Ints(nums)
	return nums
}

// Focused returns the focused workspace.
func (f *Fake) Focused() (sway.Workspace, bool) {
	for _, ws := range f.Workspaces {
		if ws.Focused {
			return ws, true
		}
	}
	return sway.Workspace{}, false
}

func (f *Fake) apply(cmd string) error {
	if m := renameRe.FindStringSubmatch(cmd); m != nil {
		return f.rename(m[1], m[2])
	}
	if m := focusNumRe.FindStringSubmatch(cmd); m != nil {
		num, _ := strconv.Atoi(m[1])
		f.focusNumber(num)
		return nil
	}
	if m := moveNumRe.FindStringSubmatch(cmd); m != nil {
		num, _ := strconv.Atoi(m[1])
		f.focusNumber(num)
		return nil
	}
	if m := focusOutputRe.FindStringSubmatch(cmd); m != nil {
		return f.focusOutput(m[1])
	}
	if m := moveOutputRe.FindStringSubmatch(cmd); m != nil {
		return f.focusOutput(m[1])
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (f *Fake) rename(from, to string) error {
	idx := -1
	for i, ws := range f.Workspaces {
		if ws.Name == from {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("there is no workspace with name %s", from)
	}

	num := parseNumber(to)
	for i, ws := range f.Workspaces {
		if i == idx {
			continue
		}
		if ws.Name == to {
			return fmt.Errorf("workspace %s already exists", to)
		}
		if num >= 0 && ws.Num == num {
			return fmt.Errorf("workspace number %d already in use by %s", num, ws.Name)
		}
	}
	f.Workspaces[idx].Name = to
	f.Workspaces[idx].Num = num
	return nil
}

func (f *Fake) focusNumber(num int) {
	output := ""
	for i := range f.Workspaces {
		if f.Workspaces[i].Focused {
			output = f.Workspaces[i].Output
		}
		f.Workspaces[i].Focused = false
	}
	for i := range f.Workspaces {
		if f.Workspaces[i].Num == num {
			f.Workspaces[i].Focused = true
			return
		}
	}
	f.nextID++
	ws := Workspace(f.nextID, num, output)
	ws.Focused = true
	f.Workspaces = append(f.Workspaces, ws)
}

func (f *Fake) focusOutput(name string) error {
	target := -1
	for i, ws := range f.Workspaces {
		if ws.Output == name {
			target = i
			break
		}
	}
	if target < 0 {
		return fmt.Errorf("no output %s", name)
	}
	for i := range f.Workspaces {
		f.Workspaces[i].Focused = i == target
	}
	return nil
}

func parseNumber(name string) int {
	digits := leadingDigitRe.FindString(name)
	if digits == "" {
		return -1
	}
	num, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return num
}
