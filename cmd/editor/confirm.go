package main

import (
	"github.com/ebitenui/ebitenui/widget"
)

// confirmDialog is a modal yes/no overlay. Only one question is open at a
// time; opening another replaces it.
type confirmDialog struct {
	Overlay *widget.Container
	message *widget.Text
	yesBtn  *widget.Button
	onYes   func()
	onNo    func()
}

func newConfirmDialog(k *kit) *confirmDialog {
	d := &confirmDialog{}
	d.Overlay = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(fillParent()),
			widget.WidgetOpts.MinSize(1, 1),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(overlayColor)),
	)
	d.Overlay.GetWidget().Visibility = widget.Visibility_Hide

	box := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(420, 140),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(dialogColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(12),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Left: 16, Right: 16, Bottom: 16}),
			),
		),
	)
	box.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}

	d.message = k.text("", darkLabel.Idle)
	buttons := k.row(8)
	d.yesBtn = k.button("Yes", func() {
		cb := d.onYes
		d.close()
		if cb != nil {
			cb()
		}
	})
	noBtn := k.button("Cancel", func() {
		cb := d.onNo
		d.close()
		if cb != nil {
			cb()
		}
	})
	buttons.AddChild(d.yesBtn)
	buttons.AddChild(noBtn)
	box.AddChild(d.message)
	box.AddChild(buttons)
	d.Overlay.AddChild(box)
	return d
}

// Open shows message. onNo may be nil.
func (d *confirmDialog) Open(message, yesLabel string, onYes, onNo func()) {
	if yesLabel == "" {
		yesLabel = "Yes"
	}
	d.message.Label = message
	setButtonLabel(d.yesBtn, yesLabel)
	d.onYes = onYes
	d.onNo = onNo
	d.Overlay.GetWidget().Visibility = widget.Visibility_Show
}

func (d *confirmDialog) IsOpen() bool {
	return d.Overlay.GetWidget().Visibility == widget.Visibility_Show
}

func (d *confirmDialog) close() {
	d.onYes = nil
	d.onNo = nil
	d.Overlay.GetWidget().Visibility = widget.Visibility_Hide
}
