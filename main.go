package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/df07/go-implicit-raytracer/pkg/loaders"
	"github.com/df07/go-implicit-raytracer/pkg/renderer"
	"github.com/df07/go-implicit-raytracer/pkg/scene"
)

// renderFlags holds command line overrides for a scene's own settings
type renderFlags struct {
	scene            string
	width, height    int
	quality          string
	samples          int
	passes           int
	workers          int
	shadowQuality    int
	bounces          int
	intersections    int
	blendReflections bool
	draft            bool
	format           string
	out              string
	gamma            float64
	jpegQuality      int
	watch            bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "raymarch",
		Short:         "Ray marching renderer for implicit surfaces",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(h))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newRenderCmd(), newPickCmd(), newScenesCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		Long: "Render a built-in scene or a TOML/YAML scene file. Output defaults to\n" +
			"output/<scene>/render_<timestamp>.<format>.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			path, err := renderOnce(ctx, cmd, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", path)

			if f.watch {
				return watchScene(ctx, cmd, f)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.scene, "scene", "s", "sphere", "Built-in scene id or path to a .toml/.yaml scene file")
	fl.IntVar(&f.width, "width", 0, "Image width (default from scene)")
	fl.IntVar(&f.height, "height", 0, "Image height (default from scene)")
	fl.StringVarP(&f.quality, "quality", "q", "", "Quality preset: draft, normal, fine, super-fine")
	fl.IntVar(&f.samples, "samples", 0, "Supersampling grid size per axis")
	fl.IntVar(&f.passes, "passes", 0, "Progressive passes")
	fl.IntVar(&f.workers, "workers", 0, "Worker goroutines (default NumCPU)")
	fl.IntVar(&f.shadowQuality, "shadow-quality", 0, "0 disables shadows, 1-5 hard, 6+ soft")
	fl.IntVar(&f.bounces, "bounces", 0, "Maximum reflection depth")
	fl.IntVar(&f.intersections, "intersections", 0, "Maximum surface crossings per pixel")
	fl.BoolVar(&f.blendReflections, "blend-reflections", false, "Blend reflections with local shading")
	fl.BoolVar(&f.draft, "draft", false, "Treat every material as a single-color material")
	fl.StringVarP(&f.format, "format", "f", "png", "Output format: png, jpeg, bmp, tiff, exr")
	fl.StringVarP(&f.out, "out", "o", "", "Output file")
	fl.Float64Var(&f.gamma, "gamma", 1, "Display gamma for 8-bit formats")
	fl.IntVar(&f.jpegQuality, "jpeg-quality", 90, "JPEG quality")
	fl.BoolVarP(&f.watch, "watch", "w", false, "Re-render when the scene file changes")
	return cmd
}

// loadScene opens the scene and applies the flags the user set explicitly
func loadScene(cmd *cobra.Command, f *renderFlags) (*loaders.SceneFile, error) {
	sf, err := loaders.Open(f.scene)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("quality") {
		q, err := renderer.ParseQuality(f.quality)
		if err != nil {
			return nil, err
		}
		sf.Config.ApplyQuality(q)
	}
	if fl.Changed("width") {
		sf.Width = f.width
	}
	if fl.Changed("height") {
		sf.Height = f.height
	}
	if fl.Changed("samples") {
		sf.Progressive.Supersample = f.samples
	}
	if fl.Changed("passes") {
		sf.Progressive.MaxPasses = f.passes
	}
	if fl.Changed("workers") {
		sf.Progressive.NumWorkers = f.workers
	}
	if fl.Changed("shadow-quality") {
		sf.Config.ShadowQuality = f.shadowQuality
	}
	if fl.Changed("bounces") {
		sf.Config.MaxRayBounces = f.bounces
	}
	if fl.Changed("intersections") {
		sf.Config.MaxIntersections = f.intersections
	}
	if fl.Changed("blend-reflections") {
		sf.Config.BlendReflections = f.blendReflections
	}
	if fl.Changed("draft") {
		sf.Config.DraftMode = f.draft
	}
	return sf, nil
}

func renderOnce(ctx context.Context, cmd *cobra.Command, f *renderFlags) (string, error) {
	format, err := loaders.ParseFormat(f.format)
	if err != nil {
		return "", err
	}
	sf, err := loadScene(cmd, f)
	if err != nil {
		return "", err
	}
	tracer, err := renderer.NewTracer(sf.Scene, sf.Config)
	if err != nil {
		return "", err
	}

	logger := slog.Default().With("scene", sf.Scene.Name)
	logger.Info("rendering", "width", sf.Width, "height", sf.Height,
		"supersample", sf.Progressive.Supersample, "passes", sf.Progressive.MaxPasses)

	frame, stats, err := renderer.Render(ctx, tracer, sf.Width, sf.Height, sf.Progressive, logger)
	if err != nil {
		return "", err
	}
	logger.Info("render completed", "duration", stats.Duration,
		"samples", stats.TotalSamples, "min", stats.MinSamples, "max", stats.MaxSamples)

	path := f.out
	if path == "" {
		path = defaultOutputPath(sf.Scene.Name, format, time.Now())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if ext := filepath.Ext(path); ext == "" {
		path += "." + string(format)
	}
	if err := loaders.SaveFrame(path, frame, loaders.EncodeOptions{Gamma: f.gamma, JPEGQuality: f.jpegQuality}); err != nil {
		return "", err
	}
	return path, nil
}

func defaultOutputPath(sceneName string, format loaders.Format, now time.Time) string {
	name := strings.ReplaceAll(strings.ToLower(sceneName), " ", "-")
	if name == "" {
		name = "scene"
	}
	return filepath.Join("output", name, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), format))
}

// watchScene re-renders every time the scene file is written
func watchScene(ctx context.Context, cmd *cobra.Command, f *renderFlags) error {
	if !isSceneFile(f.scene) {
		return fmt.Errorf("--watch needs a scene file, %q is a built-in scene", f.scene)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so watch the directory
	target, err := filepath.Abs(f.scene)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", f.scene, err)
	}
	slog.Info("watching for changes", "file", f.scene)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			path, err := renderOnce(ctx, cmd, f)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				slog.Error("render failed", "err", err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", path)
		}
	}
}

func isSceneFile(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

func newPickCmd() *cobra.Command {
	f := &renderFlags{}
	var u, v float64
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Print the surface point seen through image coordinates",
		Long:  "Coordinates are normalized: v runs from -1 (bottom) to 1 (top), u is scaled by the aspect ratio.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := loadScene(cmd, f)
			if err != nil {
				return err
			}
			tracer, err := renderer.NewTracer(sf.Scene, sf.Config)
			if err != nil {
				return err
			}
			res, ok := tracer.Pick(u, v)
			if !ok {
				return fmt.Errorf("nothing visible at (%g, %g)", u, v)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&f.scene, "scene", "s", "sphere", "Built-in scene id or path to a scene file")
	cmd.Flags().Float64Var(&u, "u", 0, "Horizontal image coordinate")
	cmd.Flags().Float64Var(&v, "v", 0, "Vertical image coordinate")
	return cmd
}

func newScenesCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := scene.ListScenes(dir)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, info := range list {
				ref := info.ID
				if info.FilePath != "" {
					ref = info.FilePath
				}
				fmt.Fprintf(w, "%-14s %-8s %s\n", info.ID, info.Type, ref)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "scenes", "Directory searched for scene files")
	return cmd
}
