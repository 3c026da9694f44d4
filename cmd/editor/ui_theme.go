package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	panelColor    = color.RGBA{40, 40, 40, 255}
	toolbarColor  = color.RGBA{220, 220, 240, 255}
	dialogColor   = color.RGBA{220, 220, 220, 255}
	overlayColor  = color.RGBA{0, 0, 0, 160}
	inputColor    = color.RGBA{245, 245, 245, 255}
	disabledColor = color.RGBA{200, 200, 200, 255}
	labelColor    = &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}
	darkLabel     = &widget.LabelColor{Idle: color.Black, Disabled: color.Gray{Y: 140}}
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func loadFace(size float64) text.Face {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	return &text.GoTextFace{Source: s, Size: size}
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.Black,
				Selected:            color.RGBA{0, 0, 128, 255},
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 64},
				SelectingBackground: color.RGBA{200, 220, 255, 255},
				SelectedBackground:  color.RGBA{180, 200, 255, 255},
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(color.RGBA{220, 220, 220, 255}),
				Mask: solidNineSlice(color.RGBA{220, 220, 220, 255}),
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(panelColor),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle:     color.Black,
				Hover:    color.Black,
				Pressed:  color.RGBA{0, 0, 200, 255},
				Disabled: color.Gray{Y: 128},
			},
		},
	}
}

// kit builds the widgets every panel uses with one theme and face.
type kit struct {
	theme *widget.Theme
	face  *text.Face
}

func (k *kit) column(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(spacing),
			),
		),
	)
}

func (k *kit) row(spacing int) *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(spacing),
			),
		),
	)
}

func (k *kit) label(s string) *widget.Label {
	return widget.NewLabel(widget.LabelOpts.Text(s, k.face, labelColor))
}

// text is a label whose Label field is rewritten as state changes.
func (k *kit) text(s string, c color.Color) *widget.Text {
	return widget.NewText(widget.TextOpts.Text(s, k.face, c))
}

func (k *kit) button(label string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(k.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, k.face, k.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onClick != nil {
				onClick()
			}
		}),
	)
}

func (k *kit) toggleButton(label string, minW int) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(k.theme.ButtonTheme.Image),
		widget.ButtonOpts.Text(label, k.face, k.theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ToggleMode(),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(minW, 28),
		),
	)
}

func (k *kit) textInput(minW int) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(minW, 26),
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
	)
}

// radio groups buttons so exactly one is active and reports the active
// index.
func (k *kit) radio(buttons []*widget.Button, onChange func(idx int)) *widget.RadioGroup {
	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}
	return widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onChange == nil {
				return
			}
			for idx, b := range buttons {
				if args.Active == b {
					onChange(idx)
					return
				}
			}
		}),
	)
}

type hasWidget interface {
	GetWidget() *widget.Widget
}

func setVisible(c hasWidget, visible bool) {
	if visible {
		c.GetWidget().Visibility = widget.Visibility_Show
	} else {
		c.GetWidget().Visibility = widget.Visibility_Hide
	}
}

func setButtonLabel(b *widget.Button, label string) {
	if b == nil {
		return
	}
	if t := b.Text(); t != nil {
		t.Label = label
	}
}

func fillParent() widget.AnchorLayoutData {
	return widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchHorizontal:  true,
		StretchVertical:    true,
	}
}
