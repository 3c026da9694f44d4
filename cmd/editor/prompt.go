package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// promptDialog asks for one line of text. Enter submits, Esc or Cancel
// closes without calling back.
type promptDialog struct {
	Overlay *widget.Container
	label   *widget.Text
	input   *widget.TextInput
	onEnter func(string)
}

func newPromptDialog(k *kit) *promptDialog {
	d := &promptDialog{}
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
			widget.WidgetOpts.MinSize(420, 120),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(dialogColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(10),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Left: 16, Right: 16, Bottom: 16}),
			),
		),
	)
	box.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}

	d.label = k.text("", darkLabel.Idle)
	d.input = widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(388, 26),
		),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(inputColor),
			Disabled: solidNineSlice(disabledColor),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.Black,
			Disabled: color.Gray{Y: 120},
			Caret:    color.Black,
		}),
		widget.TextInputOpts.Face(k.face),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			d.submit(args.InputText)
		}),
	)

	buttons := k.row(8)
	buttons.AddChild(k.button("OK", func() { d.submit(d.input.GetText()) }))
	buttons.AddChild(k.button("Cancel", d.close))
	box.AddChild(d.label)
	box.AddChild(d.input)
	box.AddChild(buttons)
	d.Overlay.AddChild(box)
	return d
}

// Open shows the prompt with initial text and focuses the input.
func (d *promptDialog) Open(label, initial string, onEnter func(string)) {
	if label == "" {
		label = "Input:"
	}
	d.label.Label = label
	d.onEnter = onEnter
	d.input.SetText(initial)
	d.input.Focus(true)
	d.Overlay.GetWidget().Visibility = widget.Visibility_Show
}

func (d *promptDialog) IsOpen() bool {
	return d.Overlay.GetWidget().Visibility == widget.Visibility_Show
}

// HandleKeys closes an open prompt on Esc.
func (d *promptDialog) HandleKeys() {
	if d.IsOpen() && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		d.close()
	}
}

// submit closes before calling back so the callback can open another prompt.
func (d *promptDialog) submit(text string) {
	if !d.IsOpen() {
		return
	}
	cb := d.onEnter
	d.close()
	if cb != nil {
		cb(text)
	}
}

func (d *promptDialog) close() {
	d.onEnter = nil
	d.input.Focus(false)
	d.Overlay.GetWidget().Visibility = widget.Visibility_Hide
}
