package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyrocket/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered environments",
	Long:  `Shows every environment registered with skyrocket.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	envs := registry.List()
	if len(envs) == 0 {
		fmt.Println("No environments available.")
		return nil
	}

	base, err := loadBase()
	if err != nil {
		return err
	}

	maxIDLen := 2
	for _, e := range envs {
		maxIDLen = max(maxIDLen, len(e.ID))
	}

	fmt.Println("Available environments:")
	fmt.Println()
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "ID", "Obs", "Title")
	fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, "--", "---", "-----")
	for _, e := range envs {
		obs := "-"
		if cfg, err := registry.Config(e.ID, base); err == nil {
			obs = fmt.Sprint(cfg.ObservationSize())
		}
		fmt.Printf("  %-*s  %-5s  %s\n", maxIDLen, e.ID, obs, e.Title)
	}

	fmt.Println()
	fmt.Println("Run 'skyrocket play <id>' to fly, or 'skyrocket run <id>' to drive a policy.")
	return nil
}
