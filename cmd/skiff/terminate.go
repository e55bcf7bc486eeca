package main

import (
	"fmt"
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/SkiffProject/skiff/pkg/config"
	"github.com/SkiffProject/skiff/pkg/deploy"
	"github.com/SkiffProject/skiff/pkg/provider/aws"
)

func terminateCmd() *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "terminate <instance-id>",
		Short: "Terminate a deployed instance",
		Long: `Terminate an instance created by skiff deploy.

Terminating an instance that no longer exists is not an error, so the
command is safe to retry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instanceID := args[0]

			if region == "" {
				region = defaultRegion()
			}
			if region == "" {
				region = config.DefaultRegion
			}

			prov, err := aws.New(cmd.Context(), aws.Config{Region: region})
			if err != nil {
				return fmt.Errorf("initializing provider: %w", err)
			}

			d := deploy.New(prov, nil, deploy.Config{Logger: slog.Default()})
			if err := d.Terminate(cmd.Context(), instanceID); err != nil {
				return err
			}

			pterm.Success.Printfln("Instance %s terminated", instanceID)
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "AWS region of the instance (env: SKIFF_REGION, AWS_REGION)")

	return cmd
}
