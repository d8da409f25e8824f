package snap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

// Trace logs an action trace line.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// DumpDescriptor writes every field of the descriptor as a table.
func DumpDescriptor(w io.Writer, d *JobDescriptor) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Job Descriptor (%d bytes)", DescriptorSize))
	t.AppendHeader(table.Row{"Offset", "Field", "Value"})

	t.AppendRow(table.Row{"0x00", "control.sat", d.Control.Sat})
	t.AppendRow(table.Row{"0x01", "control.flags",
		fmt.Sprintf("0x%02x", d.Control.Flags)})
	t.AppendRow(table.Row{"0x02", "control.seq", d.Control.Seq})
	t.AppendRow(table.Row{"0x04", "control.retc",
		fmt.Sprintf("0x%x (%s)", d.Control.Retc, d.Retc().Name())})
	t.AppendSeparator()

	appendAddrRows(t, ControlSize, "in", d.Job.In)
	appendAddrRows(t, ControlSize+AddrSize, "out", d.Job.Out)
	t.AppendSeparator()

	t.AppendRow(table.Row{
		fmt.Sprintf("0x%02x", ControlSize+PayloadSize),
		"padding",
		fmt.Sprintf("%d bytes", PaddingSize),
	})

	t.Render()
}

func appendAddrRows(t table.Writer, base int, name string, a Addr) {
	t.AppendRow(table.Row{fmt.Sprintf("0x%02x", base),
		name + ".addr", fmt.Sprintf("0x%016x", a.Addr)})
	t.AppendRow(table.Row{fmt.Sprintf("0x%02x", base+8),
		name + ".size", a.Size})
	t.AppendRow(table.Row{fmt.Sprintf("0x%02x", base+12),
		name + ".type", fmt.Sprintf("0x%04x", a.Type)})
	t.AppendRow(table.Row{fmt.Sprintf("0x%02x", base+14),
		name + ".flags", fmt.Sprintf("0x%04x", a.Flags)})
}
