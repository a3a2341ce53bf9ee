package layout

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/swaytile/internal/sway"
)

// stagingBase lifts a target into a range no canonical number (at most 99)
// can occupy. The compositor rejects a rename onto a number that is still in
// use, so every rename goes through stagingBase+target first.
const stagingBase = 9000

// Conn is the part of the compositor connection a flush needs.
type Conn interface {
	GetWorkspaces(ctx context.Context) ([]sway.Workspace, error)
	RunCommand(ctx context.Context, command string) error
}

// Rename moves one live workspace to its target number.
type Rename struct {
	ID   int64
	Old  int    // live number, negative when unnumbered
	New  int    // target number
	Name string // display name without its numeric prefix
}

// Source is the workspace's current name as the compositor knows it.
func (r Rename) Source() string {
	if r.Old < 0 {
		return r.Name
	}
	return strconv.Itoa(r.Old) + r.Name
}

// Target is the name the workspace ends up with.
func (r Rename) Target() string {
	return strconv.Itoa(r.New) + r.Name
}

func (r Rename) staged() string {
	return strconv.Itoa(stagingBase+r.New) + r.Name
}

// StripNumber removes the leading decimal digits of a workspace name.
func StripNumber(name string) string {
	return strings.TrimLeftFunc(name, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
}

func renameCommand(from, to string) string {
	return fmt.Sprintf("rename workspace '%s' to '%s'", from, to)
}

// Renames diffs the mapping against a live workspace list. Workspaces the
// mapping does not know about, and those already on their target, are left
// alone. The result is ordered by target number.
func (n *Numberer) Renames(live []sway.Workspace) []Rename {
	var renames []Rename
	for _, ws := range live {
		target, ok := n.targets[ws.ID]
		if !ok || target == ws.Num {
			continue
		}
		renames = append(renames, Rename{
			ID:   ws.ID,
			Old:  ws.Num,
			New:  target,
			Name: StripNumber(ws.Name),
		})
	}
	sort.Slice(renames, func(i, j int) bool {
		return renames[i].New < renames[j].New
	})
	return renames
}

// StagedCommands schedules renames so that no two workspaces ever share a
// number: first every workspace moves to its staging number, then every
// staged workspace moves to its target.
func StagedCommands(renames []Rename) []string {
	if len(renames) == 0 {
		return nil
	}
	cmds := make([]string, 0, 2*len(renames))
	for _, r := range renames {
		cmds = append(cmds, renameCommand(r.Source(), r.staged()))
	}
	for _, r := range renames {
		cmds = append(cmds, renameCommand(r.staged(), r.Target()))
	}
	return cmds
}

// Reorder fetches the live workspaces from conn and renames every managed
// workspace whose number differs from the mapping, in one request. Nothing
// is sent when the numbering already matches. It returns the number of
// workspaces renamed.
func (n *Numberer) Reorder(ctx context.Context, conn Conn) (int, error) {
	live, err := conn.GetWorkspaces(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch workspaces: %w", err)
	}

	renames := n.Renames(live)
	if len(renames) == 0 {
		return 0, nil
	}
	if err := conn.RunCommand(ctx, strings.Join(StagedCommands(renames), "; ")); err != nil {
		return len(renames), fmt.Errorf("failed to rename workspaces: %w", err)
	}
	return len(renames), nil
}
