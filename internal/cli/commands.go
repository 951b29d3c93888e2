package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/asmtree/internal/app"
)

type appFactory func(cmd *cobra.Command) (*app.App, error)

func newDumpCommand(newApp appFactory) *cobra.Command {
	var opts app.DumpOptions
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the tree down to a depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Dump(cmd.OutOrStdout(), opts); err != nil {
				return failure(err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Depth, "depth", 2, "levels below the root to print")
	cmd.Flags().BoolVar(&opts.Comments, "comments", false, "print nodes as comment lines")
	return cmd
}

func newPathsCommand(newApp appFactory) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the identity path of every node down to a depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			a.LoadDepth(depth)
			if err := a.Paths(cmd.OutOrStdout()); err != nil {
				return failure(err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 3, "levels below the root to load")
	return cmd
}

func newResolveCommand(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH",
		Short: "Activate the reference at PATH and print where it leads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			n, err := a.Navigate(args[0])
			if err != nil {
				return failure(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.IdentityPath().String())
			return nil
		},
	}
}

func newBrowseCommand(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.Browse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return failure(err)
			}
			return nil
		},
	}
}

func newHighlightCommand(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:       "highlight [on|off]",
		Short:     "Show or change the syntax highlighting preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), onOff(a.Display().SyntaxHighlight()))
				return nil
			}
			v, err := parseOnOff(args[0])
			if err != nil {
				return usageError(err)
			}
			if err := a.Display().SetSyntaxHighlight(v); err != nil {
				return failure(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), onOff(v))
			return nil
		},
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid value %q: want on or off", s)
	}
	return v, nil
}
