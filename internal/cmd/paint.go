package cmd

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pixelcanvas/internal/canvas"
	"github.com/MeKo-Tech/pixelcanvas/internal/config"
	"github.com/MeKo-Tech/pixelcanvas/internal/editor"
)

var paintCmd = &cobra.Command{
	Use:   "paint",
	Short: "Paint strokes onto an image",
	Long: `Replay pointer strokes with the selected brush and write the result.

Each --stroke is a space separated list of x,y points: the first point presses,
the following points drag and the last one releases. Fill, picker and
connected eraser act on the first point only.

Example:
  pixelcanvas paint --out sketch.png --brush linear --radius 5 --color '#ff0000' \
    --stroke "10,10 20,20 30,30" --stroke "40,10 40,60"`,
	RunE: runPaint,
}

func init() {
	rootCmd.AddCommand(paintCmd)

	paintCmd.Flags().String("in", "", "Input image (default: blank white canvas)")
	paintCmd.Flags().String("out", "", "Output image; format follows the extension")
	paintCmd.Flags().Bool("raw", false, "Write raw RGBA8 bytes instead of an encoded image ('-' for stdout)")
	paintCmd.Flags().Bool("raw-in", false, "Read --in as raw RGBA8 bytes of --width x --height ('-' for stdin)")
	paintCmd.Flags().Int("width", canvas.DefaultWidth, "Width of the blank canvas or raw input")
	paintCmd.Flags().Int("height", canvas.DefaultHeight, "Height of the blank canvas or raw input")
	paintCmd.Flags().Int("undo", 0, "Number of strokes to undo before writing")
	paintCmd.Flags().StringArray("stroke", nil, `Stroke points, e.g. "10,10 20,20" (repeatable)`)

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"paint.in", "in"},
		{"paint.out", "out"},
		{"paint.raw", "raw"},
		{"paint.raw_in", "raw-in"},
		{"paint.width", "width"},
		{"paint.height", "height"},
		{"paint.undo", "undo"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, paintCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runPaint(cmd *cobra.Command, args []string) error {
	in := viper.GetString("paint.in")
	out := viper.GetString("paint.out")
	raw := viper.GetBool("paint.raw")
	rawIn := viper.GetBool("paint.raw_in")
	width := viper.GetInt("paint.width")
	height := viper.GetInt("paint.height")
	undo := viper.GetInt("paint.undo")

	// Read directly: viper would split the points on commas.
	strokeArgs, err := cmd.Flags().GetStringArray("stroke")
	if err != nil {
		return err
	}

	if logger == nil {
		initLogging()
	}

	strokes := make([][]image.Point, 0, len(strokeArgs))
	for _, s := range strokeArgs {
		pts, err := parseStroke(s)
		if err != nil {
			return err
		}
		strokes = append(strokes, pts)
	}

	tool, err := loadTool()
	if err != nil {
		return err
	}

	picked := &pickedColor{}
	ed, err := editor.New(
		editor.WithLogger(logger),
		editor.WithSize(width, height),
		editor.WithColorListener(picked.set),
	)
	if err != nil {
		return err
	}
	if in != "" {
		if err := loadInput(ed, in, rawIn, width, height, cmd.InOrStdin()); err != nil {
			return err
		}
	}

	tool = replay(ed, tool, strokes, picked)

	for i := 0; i < undo; i++ {
		if !ed.Undo() {
			logger.Warn("Nothing left to undo", "requested", undo, "undone", i)
			break
		}
	}

	if err := writeOutput(out, raw, ed.Buffer(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	logger.Info("Paint complete",
		"brush", tool.Brush.Type.String(),
		"strokes", len(strokes),
		"color", config.FormatColor(tool.Brush.Color),
		"output", out)
	return nil
}

// pickedColor receives colors from the picker tool.
type pickedColor struct {
	c  color.NRGBA
	ok bool
}

func (p *pickedColor) set(c color.NRGBA) {
	p.c = c
	p.ok = true
}

// replay feeds strokes to the editor as pointer events. A color picked along
// the way becomes the tool color for the following strokes; the final tool is
// returned.
func replay(ed *editor.Editor, tool config.Tool, strokes [][]image.Point, picked *pickedColor) config.Tool {
	ed.SettingsChanged(tool)
	for _, pts := range strokes {
		if len(pts) == 0 {
			continue
		}
		ed.PointerDown(pts[0].X, pts[0].Y, tool)
		for _, p := range pts[1:] {
			ed.PointerDrag(p.X, p.Y, tool)
		}
		last := pts[len(pts)-1]
		ed.PointerUp(last.X, last.Y, tool)

		if picked != nil && picked.ok {
			tool.Brush.Color = picked.c
			picked.ok = false
		}
	}
	return tool
}

// parseStroke parses "x,y x,y ..." into points.
func parseStroke(s string) ([]image.Point, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty stroke")
	}

	pts := make([]image.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("invalid stroke point %q: expected x,y", f)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("invalid x in stroke point %q: %w", f, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("invalid y in stroke point %q: %w", f, err)
		}
		pts = append(pts, image.Pt(x, y))
	}
	return pts, nil
}
