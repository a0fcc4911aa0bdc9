package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/worldinput/input"
)

func newBindingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Inspect and edit key bindings",
	}

	manager := func() (*input.ConfigManager, error) {
		dir, err := opts.resolveConfigDir()
		if err != nil {
			return nil, err
		}
		return input.NewConfigManager(dir, slog.Default()), nil
	}

	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective bindings of every group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := manager()
			if err != nil {
				return err
			}
			b, err := cfg.ParseConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", cfg.Path())
			for _, g := range []input.Group{input.GroupAvatar, input.GroupCamera} {
				t := b.Table(g)
				fmt.Fprintf(out, "[%s] %d bindings\n", g, t.Len())
				for _, seq := range t.Sequences() {
					name := t.Binding(seq)
					if name == "" {
						name = "-"
					}
					fmt.Fprintf(out, "  %-12s %s\n", seq, name)
				}
			}
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Drop custom bindings so the defaults apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := manager()
			if err != nil {
				return err
			}
			if err := cfg.ResetCustom(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "custom bindings cleared in %s\n", cfg.Path())
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <binding> <sequence>[,<sequence>...]",
		Short: "Rebind an action in the custom section",
		Long: `Rebind an action in the custom section.

The custom section is created from the effective bindings on first use.
An empty sequence list unbinds the action. Example:
  worldinput bindings set avatar.move.forward "W, Up"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := input.BindingByName(args[0])
			if !ok {
				return fmt.Errorf("unknown binding %q (known: %s)", args[0], strings.Join(input.BindingNames(), ", "))
			}

			var seqs []input.KeySequence
			for _, raw := range strings.Split(args[1], ",") {
				if strings.TrimSpace(raw) == "" {
					continue
				}
				seq, err := input.ParseKeySequence(raw)
				if err != nil {
					return err
				}
				seqs = append(seqs, seq)
			}

			cfg, err := manager()
			if err != nil {
				return err
			}
			b, err := cfg.ParseConfig()
			if err != nil {
				return err
			}

			t := b.Table(def.Group)
			for _, old := range t.ByBinding()[def.Name] {
				t.Unbind(old)
			}
			for _, seq := range seqs {
				t.Bind(seq, def.Name, def.Pair)
			}
			if err := cfg.WriteCustom(b); err != nil {
				return err
			}

			names := make([]string, len(seqs))
			for i, seq := range seqs {
				names[i] = seq.String()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", def.Name, strings.Join(names, ", "))
			return nil
		},
	}

	cmd.AddCommand(dump, reset, set)
	return cmd
}
