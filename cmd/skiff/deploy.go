package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/SkiffProject/skiff/pkg/config"
	"github.com/SkiffProject/skiff/pkg/deploy"
	"github.com/SkiffProject/skiff/pkg/health"
	"github.com/SkiffProject/skiff/pkg/preset"
	"github.com/SkiffProject/skiff/pkg/provider/aws"
)

func deployCmd() *cobra.Command {
	var (
		presetName   string
		instanceType string
		region       string
		timeoutSecs  int
		volumeSizeGB int
		tagFlags     []string
		file         string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Launch an instance and wait for the service to become ready",
		Long: `Launch an EC2 instance running a containerized document-processing
service, wait for it to answer health checks, and print its details.

If the deployment does not become ready within the timeout, the instance
is terminated before the command exits non-zero.

Examples:
  # Deploy the CPU-only model in the default region
  skiff deploy -c crf

  # Deploy the software-mentions model on a GPU instance
  skiff deploy -c mentions --instance-type g5.xlarge --region us-east-1

  # Deploy from a checked-in file
  skiff deploy -f skiff.yaml --tag team=ingest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadDeployConfig(file)
			if err != nil {
				return err
			}

			// Flags override file values.
			if cmd.Flags().Changed("config") {
				cfg.Config = presetName
			}
			if cmd.Flags().Changed("instance-type") {
				cfg.InstanceType = instanceType
			}
			if cmd.Flags().Changed("region") {
				cfg.Region = region
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = time.Duration(timeoutSecs) * time.Second
			}
			if cmd.Flags().Changed("volume-size") {
				cfg.VolumeSizeGB = volumeSizeGB
			}

			flagTags, err := parseTags(tagFlags)
			if err != nil {
				return err
			}
			if cfg.Tags == nil {
				cfg.Tags = make(map[string]string)
			}
			for k, v := range flagTags {
				cfg.Tags[k] = v
			}

			if cfg.Config == "" {
				return fmt.Errorf("a service preset is required via -c or a deploy file (known: %s)",
					strings.Join(preset.Names(), ", "))
			}
			presetCfg, err := preset.Resolve(cfg.Config)
			if err != nil {
				return err
			}

			prov, err := aws.New(ctx, aws.Config{Region: cfg.Region})
			if err != nil {
				return fmt.Errorf("initializing provider: %w", err)
			}

			d := deploy.New(prov, health.New(health.Config{}), deploy.Config{
				Logger: slog.Default(),
			})

			pterm.Info.Printfln("Deploying %s (%s) on %s in %s",
				presetCfg.Name, presetCfg.Image, cfg.InstanceType, cfg.Region)

			details, err := d.Deploy(ctx, deploy.Request{
				Config:       presetCfg,
				InstanceType: cfg.InstanceType,
				Tags:         cfg.Tags,
				Timeout:      cfg.Timeout,
				VolumeSizeGB: cfg.VolumeSizeGB,
			})
			if err != nil {
				pterm.Error.Println("Deployment failed")
				return err
			}

			pterm.Success.Printfln("Service ready at %s", details.APIURL)
			return printDetails(details, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&presetName, "config", "c", "", "Service preset (crf, full, mentions)")
	cmd.Flags().StringVar(&instanceType, "instance-type", config.DefaultInstanceType, "EC2 instance type")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (env: SKIFF_REGION, AWS_REGION)")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", int(deploy.DefaultTimeout/time.Second), "Readiness timeout in seconds")
	cmd.Flags().IntVar(&volumeSizeGB, "volume-size", 0, "Root volume size in GiB (0 = provider default)")
	cmd.Flags().StringArrayVar(&tagFlags, "tag", nil, "Instance tag as key=value (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Deploy file (default: auto-detect skiff.yaml)")

	return cmd
}

// loadDeployConfig resolves the effective deploy file. An explicit -f path
// must exist; otherwise discovery walks up from the working directory and
// no file at all just means flag defaults. Region resolution order is
// flag > deploy file > SKIFF_REGION/AWS_REGION > us-west-2; the flag layer
// is applied by the caller.
func loadDeployConfig(file string) (*config.DeployConfig, error) {
	path := file
	if path == "" {
		found, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		path = found
	}

	var cfg *config.DeployConfig
	if path == "" {
		cfg = &config.DeployConfig{InstanceType: config.DefaultInstanceType}
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		pterm.Info.Printfln("Using deploy file %s", path)
		cfg = loaded
	}

	if cfg.Region == "" {
		cfg.Region = defaultRegion()
	}
	if cfg.Region == "" {
		cfg.Region = config.DefaultRegion
	}
	return cfg, nil
}

// parseTags converts repeated key=value flags into a tag map.
func parseTags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid tag %q: expected key=value", pair)
		}
		tags[key] = value
	}
	return tags, nil
}
