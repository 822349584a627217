package main

import (
	"strings"

	"github.com/gilberto978/bishbash-api/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a trust check and print the report",
	}
	cmd.AddCommand(newCheckBrokerCmd())
	cmd.AddCommand(newCheckDomainCmd())
	cmd.AddCommand(newCheckDealerCmd())
	return cmd
}

func newCheckBrokerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "broker <name>",
		Short: "Check a broker by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				rep, err := rt.Service.CheckBroker(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				return printJSON(cmd, rep)
			})
		},
	}
}

func newCheckDomainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domain <domain>",
		Short: "Check a site's reputation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				rep, err := rt.Service.SketchCheck(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, rep)
			})
		},
	}
}

func newCheckDealerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dealer <domain>",
		Short: "Check a watch dealer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				rep, err := rt.Service.CheckDealer(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, rep)
			})
		},
	}
}
