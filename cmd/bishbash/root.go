package main

import (
	"encoding/json"
	"fmt"

	"github.com/gilberto978/bishbash-api/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bishbash",
		Short:         "Brutal advice and trust checks for brokers, domains and watch dealers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newAskCmd())
	root.AddCommand(newNewsCmd())
	return root
}

// withRuntime starts the service with logs on stderr so stdout stays JSON.
func withRuntime(cmd *cobra.Command, fn func(rt *bootstrap.Runtime) error) error {
	rt, err := bootstrap.Start(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rt.Stop()
	return fn(rt)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
