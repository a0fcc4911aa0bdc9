package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lixenwraith/worldinput/stereo"
)

// parseVec parses "x,y,z"
func parseVec(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

func printMatrix(out io.Writer, label string, m *mat.Dense) {
	fmt.Fprintf(out, "%s =\n%v\n", label, mat.Formatted(m, mat.Prefix(""), mat.Squeeze()))
}

func newCaveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cave",
		Short: "Manage CAVE view calibrations",
	}

	calibrationPath := func() (string, error) {
		dir, err := opts.resolveConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, stereo.CalibrationFile), nil
	}

	// load returns the calibration, its path and a controller holding its valid views
	load := func() (*stereo.Calibration, string, *stereo.Controller, error) {
		path, err := calibrationPath()
		if err != nil {
			return nil, "", nil, err
		}
		cal, err := stereo.Load(path)
		if err != nil {
			return nil, "", nil, err
		}
		ctrl, err := cal.Controller(slog.Default())
		if err != nil {
			return nil, "", nil, err
		}
		return cal, path, ctrl, nil
	}

	save := func(cal *stereo.Calibration, path string, ctrl *stereo.Controller) error {
		cal.Capture(ctrl)
		return cal.Save(path)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List calibrated views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, path, ctrl, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s (%s, eye separation %g)\n", path, cal.RenderSystem, ctrl.EyeSeparation())
			for _, cfg := range ctrl.Configs() {
				fmt.Fprintf(out, "%s: tl=%s bl=%s br=%s eye=%s\n",
					cfg.Name, formatVec(cfg.TopLeft), formatVec(cfg.BottomLeft), formatVec(cfg.BottomRight), formatVec(cfg.Eye))
			}
			invalid := cal.Invalid()
			for _, r := range cal.Views {
				if err, bad := invalid[r.Name]; bad {
					fmt.Fprintf(out, "%s: invalid: %v\n", r.Name, err)
				}
			}
			return nil
		},
	}

	var corners struct{ tl, bl, br, eye string }
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or replace a view calibration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := stereo.ViewConfig{Name: args[0]}
			for _, f := range []struct {
				raw string
				dst *r3.Vec
			}{
				{corners.tl, &cfg.TopLeft},
				{corners.bl, &cfg.BottomLeft},
				{corners.br, &cfg.BottomRight},
				{corners.eye, &cfg.Eye},
			} {
				v, err := parseVec(f.raw)
				if err != nil {
					return err
				}
				*f.dst = v
			}

			cal, path, ctrl, err := load()
			if err != nil {
				return err
			}
			if _, lookupErr := ctrl.GetView(cfg.Name); lookupErr == nil {
				err = ctrl.ModifyView(cfg)
			} else {
				err = ctrl.AddView(cfg)
			}
			if err != nil {
				return err
			}
			if err := save(cal, path, ctrl); err != nil {
				return err
			}

			v, _ := ctrl.GetView(cfg.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s saved, vertical fov %.2f deg\n", cfg.Name, v.Frustum().FOVY()*180/math.Pi)
			return nil
		},
	}
	add.Flags().StringVar(&corners.tl, "top-left", "", "Top-left screen corner x,y,z")
	add.Flags().StringVar(&corners.bl, "bottom-left", "", "Bottom-left screen corner x,y,z")
	add.Flags().StringVar(&corners.br, "bottom-right", "", "Bottom-right screen corner x,y,z")
	add.Flags().StringVar(&corners.eye, "eye", "0,0,0", "Eye position x,y,z")
	for _, name := range []string{"top-left", "bottom-left", "bottom-right"} {
		_ = add.MarkFlagRequired(name)
	}

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a view calibration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, path, ctrl, err := load()
			if err != nil {
				return err
			}
			if err := ctrl.RemoveView(args[0]); err != nil {
				if !errors.Is(err, stereo.ErrUnknownView) || !cal.Forget(args[0]) {
					return err
				}
			}
			if err := save(cal, path, ctrl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed\n", args[0])
			return nil
		},
	}

	var stereoPair bool
	project := &cobra.Command{
		Use:   "project <name>",
		Short: "Print the off-axis projection of a view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, ctrl, err := load()
			if err != nil {
				return err
			}
			v, err := ctrl.GetView(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			f := v.Frustum()
			fmt.Fprintf(out, "frustum l=%g r=%g b=%g t=%g n=%g f=%g (%s)\n",
				f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far, ctrl.RenderSystem())
			if !stereoPair {
				printMatrix(out, "projection", v.Projection())
				return nil
			}

			left, right, err := ctrl.StereoProjections(args[0])
			if err != nil {
				return err
			}
			printMatrix(out, "left", left)
			printMatrix(out, "right", right)
			return nil
		},
	}
	project.Flags().BoolVar(&stereoPair, "stereo", false, "Print left and right eye projections")

	cmd.AddCommand(list, add, remove, project)
	return cmd
}
