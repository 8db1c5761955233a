package display

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jcalvinowens/planeyeller/pkg/geometry"
	"github.com/jcalvinowens/planeyeller/pkg/sbs"
)

// View is the full-screen live table. It owns the tview application;
// Update may be called from any goroutine.
type View struct {
	app     *tview.Application
	table   *tview.Table
	status  *tview.TextView
	obs     geometry.Observer
	maxRows int
	onQuit  func()
}

// NewView builds the table UI. onQuit is invoked when the user presses
// q or Escape; it must make the main loop shut down and call Stop.
func NewView(obs geometry.Observer, maxRows int, onQuit func()) *View {
	v := &View{
		app:     tview.NewApplication(),
		table:   tview.NewTable(),
		status:  tview.NewTextView(),
		obs:     obs,
		maxRows: maxRows,
		onQuit:  onQuit,
	}

	v.table.SetBorder(true).SetTitle(" planeyeller ")
	v.table.SetFixed(1, 0)
	for col, h := range Headers {
		v.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAlign(tview.AlignRight))
	}

	v.status.SetDynamicColors(true)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true).
		AddItem(v.status, 1, 0, false)

	v.app.SetRoot(layout, true)
	v.app.SetInputCapture(v.handleKeyboard)
	return v
}

// Run blocks driving the terminal until Stop is called.
func (v *View) Run() error {
	return v.app.Run()
}

// Stop tears down the terminal UI.
func (v *View) Stop() {
	v.app.Stop()
}

// Update redraws the table from current tracker state.
func (v *View) Update(t *sbs.Tracker, now time.Time) {
	rows, omitted := Snapshot(t, v.obs, now, v.maxRows)

	v.app.QueueUpdateDraw(func() {
		for r := v.table.GetRowCount() - 1; r > len(rows); r-- {
			v.table.RemoveRow(r)
		}
		for i, row := range rows {
			for col, cell := range row.Cells {
				align := tview.AlignRight
				if col == 1 {
					align = tview.AlignLeft
				}
				v.table.SetCell(i+1, col,
					tview.NewTableCell(cell).SetAlign(align))
			}
		}

		if omitted > 0 {
			v.status.SetText(fmt.Sprintf("[gray]...%d more omitted[-]", omitted))
		} else {
			v.status.SetText("")
		}
	})
}

func (v *View) handleKeyboard(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape || event.Rune() == 'q' {
		if v.onQuit != nil {
			v.onQuit()
		}
		return nil
	}
	return event
}
