package main

import (
	"strings"

	"github.com/gilberto978/bishbash-api/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var shove bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask for brutal advice",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				if shove {
					res, err := rt.Service.Shove(cmd.Context(), q)
					if err != nil {
						return err
					}
					return printJSON(cmd, res.Payload())
				}
				ans, err := rt.Service.Advise(cmd.Context(), q)
				if err != nil {
					return err
				}
				return printJSON(cmd, ans)
			})
		},
	}
	cmd.Flags().BoolVar(&shove, "shove", false, "use the four-part shove persona")
	return cmd
}

func newNewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "news <topic>",
		Short: "Print today's headlines for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				rep, err := rt.Service.FreshNews(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return printJSON(cmd, rep)
			})
		},
	}
}
