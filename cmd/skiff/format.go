package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/SkiffProject/skiff/pkg/deploy"
)

func printDetails(details *deploy.InstanceDetails, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(details)
	case "table":
		return detailsTable(os.Stdout, details)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func detailsTable(w io.Writer, details *deploy.InstanceDetails) error {
	table := tablewriter.NewWriter(w)
	table.Append([]string{"Instance ID", "Region", "Instance Type", "Public IP", "Public DNS", "API URL"})
	table.Append([]string{
		details.InstanceID,
		details.Region,
		details.InstanceType,
		details.PublicIP,
		details.PublicDNS,
		details.APIURL,
	})
	table.Render()
	return nil
}
