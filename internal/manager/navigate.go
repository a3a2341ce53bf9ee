package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/1broseidon/swaytile/internal/layout"
)

func focusCommand(num int) string {
	return fmt.Sprintf("workspace number %d", num)
}

func moveCommand(num int) string {
	return fmt.Sprintf("[con_id=__focused__] move container to workspace number %d, focus", num)
}

func focusOutputCommand(output string) string {
	return "focus output " + output
}

func moveOutputCommand(output string) string {
	return fmt.Sprintf("[con_id=__focused__] move container to output %s, focus", output)
}

// PositionFocusNext focuses the next workspace in the group, opening a new
// slot after the last one when there is room.
func (m *Manager) PositionFocusNext(ctx context.Context) error {
	num, err := m.next(ctx)
	if err != nil {
		return err
	}
	return m.run(ctx, focusCommand(num))
}

// PositionFocusPrev focuses the previous workspace in the group, opening a
// new slot before the first one when there is room.
func (m *Manager) PositionFocusPrev(ctx context.Context) error {
	num, err := m.prev(ctx)
	if err != nil {
		return err
	}
	return m.run(ctx, focusCommand(num))
}

// PositionFocusTo focuses position p of the current group. p is clamped.
func (m *Manager) PositionFocusTo(ctx context.Context, p int) error {
	pos, err := m.Positioner()
	if err != nil {
		return err
	}
	return m.run(ctx, focusCommand(pos.BoundedPositionTo(p)))
}

// PositionMoveNext moves the focused container to the next workspace.
func (m *Manager) PositionMoveNext(ctx context.Context) error {
	num, err := m.next(ctx)
	if err != nil {
		return err
	}
	return m.run(ctx, moveCommand(num))
}

// PositionMovePrev moves the focused container to the previous workspace.
func (m *Manager) PositionMovePrev(ctx context.Context) error {
	num, err := m.prev(ctx)
	if err != nil {
		return err
	}
	return m.run(ctx, moveCommand(num))
}

// PositionMoveTo moves the focused container to position p of the current group.
func (m *Manager) PositionMoveTo(ctx context.Context, p int) error {
	pos, err := m.Positioner()
	if err != nil {
		return err
	}
	return m.run(ctx, moveCommand(pos.BoundedPositionTo(p)))
}

// GroupFocusNext focuses the same position on the next group, wrapping.
func (m *Manager) GroupFocusNext(ctx context.Context) error {
	return m.groupStep(ctx, 1, m.GroupFocusTo)
}

// GroupFocusPrev focuses the same position on the previous group, wrapping.
func (m *Manager) GroupFocusPrev(ctx context.Context) error {
	return m.groupStep(ctx, -1, m.GroupFocusTo)
}

// GroupFocusTo focuses the same position on group g. g is clamped to the
// groups in use. Focus follows the group's output when it has one.
func (m *Manager) GroupFocusTo(ctx context.Context, g int) error {
	num, output, err := m.groupTarget(g)
	if err != nil {
		return err
	}
	if output == "" {
		return m.run(ctx, focusCommand(num))
	}
	return m.run(ctx, focusOutputCommand(output), focusCommand(num))
}

// GroupMoveNext moves the focused container to the next group, wrapping.
func (m *Manager) GroupMoveNext(ctx context.Context) error {
	return m.groupStep(ctx, 1, m.GroupMoveTo)
}

// GroupMovePrev moves the focused container to the previous group, wrapping.
func (m *Manager) GroupMovePrev(ctx context.Context) error {
	return m.groupStep(ctx, -1, m.GroupMoveTo)
}

// GroupMoveTo moves the focused container to the same position on group g,
// carrying it across outputs.
func (m *Manager) GroupMoveTo(ctx context.Context, g int) error {
	num, output, err := m.groupTarget(g)
	if err != nil {
		return err
	}
	if output == "" {
		return m.run(ctx, moveCommand(num))
	}
	return m.run(ctx, moveOutputCommand(output), moveCommand(num))
}

// next picks the target after the focused workspace. At the end of a group
// that still has room, a slot is opened after the focus and the renumbering
// is flushed first. A workspace with at most one container wraps instead.
func (m *Manager) next(ctx context.Context) (int, error) {
	pos, err := m.Positioner()
	if err != nil {
		return 0, err
	}
	if pos.IsEnd() && !pos.IsFull() && !m.alone {
		num := m.numberer.AppendAt(pos.Num())
		m.logger.Debug("opening slot", "decision", "insert", "after", pos.Num(), "target", num)
		if _, err := m.Reorder(ctx); err != nil {
			return 0, err
		}
		return num, nil
	}
	num := pos.WrappingPositionTo(pos.Position + 1)
	m.logger.Debug("stepping", "decision", "wrap", "target", num)
	return num, nil
}

func (m *Manager) prev(ctx context.Context) (int, error) {
	pos, err := m.Positioner()
	if err != nil {
		return 0, err
	}
	if pos.IsStart() && !pos.IsFull() && !m.alone {
		num := m.numberer.PrependAt(pos.Num())
		m.logger.Debug("opening slot", "decision", "insert", "before", pos.Num(), "target", num)
		if _, err := m.Reorder(ctx); err != nil {
			return 0, err
		}
		return num, nil
	}
	num := pos.WrappingPositionTo(pos.Position - 1)
	m.logger.Debug("stepping", "decision", "wrap", "target", num)
	return num, nil
}

func (m *Manager) groupStep(ctx context.Context, delta int, to func(context.Context, int) error) error {
	pos, err := m.Positioner()
	if err != nil {
		return err
	}
	group, _ := layout.Split(pos.WrappingGroupTo(pos.Group + delta))
	return to(ctx, group)
}

// groupTarget resolves group g to a workspace number and the output that
// hosts the group, if any workspace of the group exists yet.
func (m *Manager) groupTarget(g int) (int, string, error) {
	pos, err := m.Positioner()
	if err != nil {
		return 0, "", err
	}
	num := pos.SaturatingGroupTo(g)
	group, _ := layout.Split(num)
	for _, ws := range m.workspaces {
		if !ws.Numbered() {
			continue
		}
		if g, _ := layout.Split(ws.Num); g == group {
			return num, ws.Output, nil
		}
	}
	return num, "", nil
}

// run sends commands as one request.
func (m *Manager) run(ctx context.Context, commands ...string) error {
	command := strings.Join(commands, "; ")
	m.logger.Debug("running command", "command", command)
	if err := m.conn.RunCommand(ctx, command); err != nil {
		return fmt.Errorf("failed to run command: %w", err)
	}
	return nil
}
