package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/network-actions-api/internal/repository"
)

func newReferenceCmd() *cobra.Command {
	ref := &cobra.Command{
		Use:   "reference",
		Short: "Inspect reference catalogs",
	}
	ref.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Parse a reference catalog and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.LoadReferenceFile(args[0])
			if err != nil {
				return err
			}
			catalog := repo.Catalog()
			active := 0
			for _, q := range catalog.AcademicYear.Quarters {
				if q.IsActive {
					active++
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "departments: %d\n", len(catalog.Departments))
			fmt.Fprintf(out, "families:    %d\n", len(catalog.Families))
			fmt.Fprintf(out, "groups:      %d\n", len(catalog.Groups))
			fmt.Fprintf(out, "objectives:  %d\n", len(catalog.Objectives))
			fmt.Fprintf(out, "networks:    %d\n", len(catalog.Networks))
			fmt.Fprintf(out, "centers:     %d\n", len(catalog.Centers))
			fmt.Fprintf(out, "quarters:    %d (%d active)\n", len(catalog.AcademicYear.Quarters), active)
			return nil
		},
	})
	return ref
}
