package main

import (
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
)

const (
	leftPanelWidth  = 260
	rightPanelWidth = 400
	toolbarHeight   = 48
	statusHeight    = 24
)

var tabNames = []string{"Enemies", "Operators", "Skills", "Levels"}

// editorUI holds the widgets the app updates after construction.
type editorUI struct {
	ui         *ebitenui.UI
	kit        *kit
	tabBtns    []*widget.Button
	tabRadio   *widget.RadioGroup
	list       *entryList
	rightPanel *widget.Container
	confirm    *confirmDialog
	prompt     *promptDialog
}

type uiActions struct {
	onTab      func(idx int)
	onSelect   func(idx int)
	onNew      func()
	onDelete   func()
	onCopy     func()
	onPaste    func()
	onSaveAll  func()
	onReload   func()
	onOpenRoot func()
}

func buildEditorUI(act uiActions) *editorUI {
	ui := &ebitenui.UI{}
	fontFace := loadFace(14)
	ui.PrimaryTheme = newEditorTheme(&fontFace)
	k := &kit{theme: ui.PrimaryTheme, face: &fontFace}
	e := &editorUI{ui: ui, kit: k}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(1, toolbarHeight),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8, Right: 8}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(toolbarColor)),
	)
	for _, name := range tabNames {
		b := k.toggleButton(name, 90)
		e.tabBtns = append(e.tabBtns, b)
		toolbar.AddChild(b)
	}
	e.tabRadio = k.radio(e.tabBtns, act.onTab)
	toolbar.AddChild(k.button("Save All (Ctrl+S)", act.onSaveAll))
	toolbar.AddChild(k.button("Reload", act.onReload))
	toolbar.AddChild(k.button("Open root...", act.onOpenRoot))
	toolbar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchHorizontal:  true,
	}

	left := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(leftPanelWidth, 1),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(6),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: toolbarHeight + 8, Left: 8, Right: 8, Bottom: statusHeight}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
	)
	left.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	e.list = newEntryList(420, act.onSelect)
	left.AddChild(e.list.list)
	row1 := k.row(6)
	row1.AddChild(k.button("New", act.onNew))
	row1.AddChild(k.button("Delete", act.onDelete))
	left.AddChild(row1)
	row2 := k.row(6)
	row2.AddChild(k.button("Copy", act.onCopy))
	row2.AddChild(k.button("Paste", act.onPaste))
	left.AddChild(row2)

	e.rightPanel = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(rightPanelWidth, 1),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: toolbarHeight + 8, Left: 8, Right: 8, Bottom: statusHeight}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
	)
	e.rightPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}

	e.confirm = newConfirmDialog(k)
	e.prompt = newPromptDialog(k)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(left)
	root.AddChild(e.rightPanel)
	root.AddChild(toolbar)
	root.AddChild(e.confirm.Overlay)
	root.AddChild(e.prompt.Overlay)
	ui.Container = root
	return e
}

// showPanel swaps the right panel content.
func (e *editorUI) showPanel(c *widget.Container) {
	e.rightPanel.RemoveChildren()
	if c != nil {
		e.rightPanel.AddChild(c)
	}
}
