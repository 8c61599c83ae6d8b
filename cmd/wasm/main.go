//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"syscall/js"

	"github.com/MeKo-Tech/pixelcanvas/internal/brush"
	"github.com/MeKo-Tech/pixelcanvas/internal/config"
	"github.com/MeKo-Tech/pixelcanvas/internal/editor"
	"github.com/MeKo-Tech/pixelcanvas/internal/filter"
)

// ToolRequest is the tool state sent from JavaScript. Empty fields keep their
// current value.
type ToolRequest struct {
	Brush           string   `json:"brush"`
	Radius          *int     `json:"radius"`
	Density         *int     `json:"density"`
	Color           string   `json:"color"`
	Filter          string   `json:"filter"`
	BlurRadius      *int     `json:"blurRadius"`
	EdgeSensitivity *float64 `json:"edgeSensitivity"`
	ScaleX          *float64 `json:"scaleX"`
	ScaleY          *float64 `json:"scaleY"`
	MedianRadius    *int     `json:"medianRadius"`
	BilateralRadius *int     `json:"bilateralRadius"`
}

var (
	ed   *editor.Editor
	tool = config.Default()
)

// jsRenderer hands every frame to window.pixelcanvasRender(pixels, width, height).
type jsRenderer struct{}

func (jsRenderer) Render(pix []byte, width, height int) {
	fn := js.Global().Get("pixelcanvasRender")
	if fn.Type() != js.TypeFunction {
		return
	}
	arr := js.Global().Get("Uint8ClampedArray").New(len(pix))
	js.CopyBytesToJS(arr, pix)
	fn.Invoke(arr, width, height)
}

func errorResult(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}

func ok() map[string]any {
	return map[string]any{"status": "ok"}
}

// initCanvas(width, height) creates a fresh white canvas.
func initCanvas(this js.Value, args []js.Value) any {
	opts := []editor.Option{
		editor.WithRenderer(jsRenderer{}),
		editor.WithColorListener(onPicked),
	}
	if len(args) >= 2 {
		opts = append(opts, editor.WithSize(args[0].Int(), args[1].Int()))
	}

	e, err := editor.New(opts...)
	if err != nil {
		return errorResult(err)
	}
	ed = e
	ed.SettingsChanged(tool)
	w, h := e.Size()
	return map[string]any{"status": "ready", "width": w, "height": h}
}

// onPicked stores the picked color as the tool color and notifies JS.
func onPicked(c color.NRGBA) {
	tool.Brush.Color = c
	if fn := js.Global().Get("pixelcanvasColorPicked"); fn.Type() == js.TypeFunction {
		fn.Invoke(config.FormatColor(c))
	}
}

// setTool(json) updates the tool configuration.
func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult(fmt.Errorf("missing arguments"))
	}

	var req ToolRequest
	if err := json.Unmarshal([]byte(args[0].String()), &req); err != nil {
		return errorResult(fmt.Errorf("failed to parse tool: %w", err))
	}

	next := tool
	if req.Brush != "" {
		t, err := brush.ParseType(req.Brush)
		if err != nil {
			return errorResult(err)
		}
		next.Brush.Type = t
	}
	if req.Color != "" {
		c, err := config.ParseColor(req.Color)
		if err != nil {
			return errorResult(err)
		}
		next.Brush.Color = c
	}
	if req.Filter != "" {
		t, err := filter.ParseType(req.Filter)
		if err != nil {
			return errorResult(err)
		}
		next.Filter.Type = t
	}
	setInt(&next.Brush.Radius, req.Radius)
	setInt(&next.Brush.Density, req.Density)
	setInt(&next.Filter.BlurRadius, req.BlurRadius)
	setInt(&next.Filter.MedianRadius, req.MedianRadius)
	setInt(&next.Filter.BilateralRadius, req.BilateralRadius)
	setFloat(&next.Filter.EdgeSensitivity, req.EdgeSensitivity)
	setFloat(&next.Filter.ScaleX, req.ScaleX)
	setFloat(&next.Filter.ScaleY, req.ScaleY)

	if err := next.Validate(); err != nil {
		return errorResult(err)
	}
	tool = next
	if ed != nil {
		ed.SettingsChanged(tool)
	}
	return ok()
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// pointer wraps a pointer handler taking (x, y).
func pointer(fn func(x, y int, t config.Tool)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if ed == nil || len(args) < 2 {
			return nil
		}
		fn(args[0].Int(), args[1].Int(), tool)
		return nil
	})
}

func applyFilter(this js.Value, args []js.Value) any {
	if ed == nil {
		return errorResult(fmt.Errorf("canvas not initialized"))
	}
	if err := ed.ApplyFilter(tool); err != nil {
		return errorResult(err)
	}
	return ok()
}

// loadPixels(Uint8Array|Uint8ClampedArray, width, height) replaces the canvas.
func loadPixels(this js.Value, args []js.Value) any {
	if ed == nil || len(args) < 3 {
		return errorResult(fmt.Errorf("missing arguments"))
	}
	src := args[0]
	if src.InstanceOf(js.Global().Get("Uint8ClampedArray")) {
		src = js.Global().Get("Uint8Array").New(src.Get("buffer"), src.Get("byteOffset"), src.Get("byteLength"))
	}
	pix := make([]byte, src.Get("length").Int())
	js.CopyBytesToGo(pix, src)

	if err := ed.LoadRaw(pix, args[1].Int(), args[2].Int()); err != nil {
		return errorResult(err)
	}
	return ok()
}

func undo(this js.Value, args []js.Value) any {
	if ed == nil {
		return false
	}
	return ed.Undo()
}

func clearCanvas(this js.Value, args []js.Value) any {
	if ed != nil {
		ed.Clear()
	}
	return nil
}

func main() {
	c := make(chan struct{})

	js.Global().Set("pixelcanvasInit", js.FuncOf(initCanvas))
	js.Global().Set("pixelcanvasSetTool", js.FuncOf(setTool))
	js.Global().Set("pixelcanvasPointerDown", pointer(func(x, y int, t config.Tool) { ed.PointerDown(x, y, t) }))
	js.Global().Set("pixelcanvasPointerDrag", pointer(func(x, y int, t config.Tool) { ed.PointerDrag(x, y, t) }))
	js.Global().Set("pixelcanvasPointerUp", pointer(func(x, y int, t config.Tool) { ed.PointerUp(x, y, t) }))
	js.Global().Set("pixelcanvasApplyFilter", js.FuncOf(applyFilter))
	js.Global().Set("pixelcanvasLoadPixels", js.FuncOf(loadPixels))
	js.Global().Set("pixelcanvasUndo", js.FuncOf(undo))
	js.Global().Set("pixelcanvasClear", js.FuncOf(clearCanvas))

	fmt.Println("PixelCanvas WASM module loaded")
	<-c
}
