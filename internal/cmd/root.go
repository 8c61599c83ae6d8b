package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/pixelcanvas/internal/brush"
	"github.com/MeKo-Tech/pixelcanvas/internal/config"
	"github.com/MeKo-Tech/pixelcanvas/internal/filter"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pixelcanvas",
	Short: "A raster image editing core with brushes, fills and filters",
	Long: `PixelCanvas edits RGBA images: it paints brush strokes, flood-fills regions
and applies neighborhood filters (blur, edge detection, scaling, median,
bilateral and more).

Tool settings come from flags, PIXELCANVAS_* environment variables or a
config.yaml with "tool" and "filter" sections.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	d := config.Default()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.Bool("verbose", false, "Enable verbose logging")

	// Brush
	flags.String("brush", d.Brush.Type.String(), "Brush: "+strings.Join(brush.Names(), ", "))
	flags.Int("radius", d.Brush.Radius, "Brush radius in pixels")
	flags.Int("density", d.Brush.Density, "Spray density (0-100)")
	flags.String("color", config.FormatColor(d.Brush.Color), "Tool color as #rrggbb or #rrggbbaa")
	flags.Int64("seed", d.Seed, "Spray random seed (0 = time based)")

	// Filter
	flags.String("filter", d.Filter.Type.String(), "Filter: "+strings.Join(filter.Names(), ", "))
	flags.Int("blur-radius", d.Filter.BlurRadius, "Gaussian blur radius")
	flags.Float64("edge-sensitivity", d.Filter.EdgeSensitivity, "Edge detection gain")
	flags.Float64("scale-x", d.Filter.ScaleX, "Horizontal scale factor")
	flags.Float64("scale-y", d.Filter.ScaleY, "Vertical scale factor")
	flags.Int("median-radius", d.Filter.MedianRadius, "Median window radius")
	flags.Int("bilateral-radius", d.Filter.BilateralRadius, "Bilateral window radius")
	flags.Float32("sharpen-sigma", d.Filter.SharpenSigma, "Unsharp mask blur sigma")
	flags.Float32("sharpen-amount", d.Filter.SharpenAmount, "Unsharp mask strength")
	flags.Float64("grain-scale", d.Filter.GrainScale, "Grain noise feature size in pixels")
	flags.Float64("grain-strength", d.Filter.GrainStrength, "Grain strength (0-1)")
	flags.Int64("grain-seed", d.Filter.GrainSeed, "Grain noise seed")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"verbose", "verbose"},
		{config.KeyBrush, "brush"},
		{config.KeyRadius, "radius"},
		{config.KeyDensity, "density"},
		{config.KeyColor, "color"},
		{config.KeySeed, "seed"},
		{config.KeyFilter, "filter"},
		{config.KeyBlurRadius, "blur-radius"},
		{config.KeyEdgeSensitivity, "edge-sensitivity"},
		{config.KeyScaleX, "scale-x"},
		{config.KeyScaleY, "scale-y"},
		{config.KeyMedianRadius, "median-radius"},
		{config.KeyBilateralRadius, "bilateral-radius"},
		{config.KeySharpenSigma, "sharpen-sigma"},
		{config.KeySharpenAmount, "sharpen-amount"},
		{config.KeyGrainScale, "grain-scale"},
		{config.KeyGrainStrength, "grain-strength"},
		{config.KeyGrainSeed, "grain-seed"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, flags.Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("PIXELCANVAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// loadTool reads the tool configuration from the global viper instance.
func loadTool() (config.Tool, error) {
	tool, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Tool{}, fmt.Errorf("failed to load tool settings: %w", err)
	}
	return tool, nil
}
