// cmd/portal/admin.go
package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// Admin subcommands drive the workflow services directly. They exist for
// operators; the public portal talks to the same services through its own
// frontend.

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job postings",
}

var jobsActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Activate a posting and fan out job alerts",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := d.postings.Activate(ctx, id); err != nil {
				return err
			}
			fmt.Printf("posting %d activated\n", id)
			// The alert fan-out runs on its own context; give it room to
			// finish before the process exits.
			time.Sleep(2 * time.Second)
			return nil
		})
	},
}

var jobsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := d.postings.Deactivate(ctx, id); err != nil {
				return err
			}
			fmt.Printf("posting %d deactivated\n", id)
			return nil
		})
	},
}

var jobsArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a posting and drop it from the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := d.postings.Archive(ctx, id); err != nil {
				return err
			}
			fmt.Printf("posting %d archived\n", id)
			return nil
		})
	},
}

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage company accounts",
}

var companyActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Unlock a company account and send the welcome mail",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := d.companies.SetActive(ctx, id, true)
			if err != nil {
				return err
			}
			fmt.Printf("company %d (%s) is active\n", c.ID, c.Name)
			return nil
		})
	},
}

var companyDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Lock a company account",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := d.companies.SetActive(ctx, id, false)
			if err != nil {
				return err
			}
			fmt.Printf("company %d (%s) is inactive\n", c.ID, c.Name)
			return nil
		})
	},
}

var transitionCmd = &cobra.Command{
	Use:   "transition",
	Short: "Apply a status transition as a given role",
}

var transitionRole string

var transitionApplicationCmd = &cobra.Command{
	Use:   "application <id> <status>",
	Short: "Transition an application",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, role, err := parseIDAndRole(args[0])
			if err != nil {
				return err
			}
			to, err := models.ParseApplicationStatus(args[1])
			if err != nil {
				return err
			}
			app, err := d.apps.Transition(ctx, id, role, to)
			if err != nil {
				return err
			}
			fmt.Printf("application %d is now %s\n", app.ID, app.Status)
			return nil
		})
	},
}

var transitionJobRequestCmd = &cobra.Command{
	Use:   "job-request <id> <status>",
	Short: "Transition a job request",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, role, err := parseIDAndRole(args[0])
			if err != nil {
				return err
			}
			to, err := models.ParseJobRequestStatus(args[1])
			if err != nil {
				return err
			}
			jr, err := d.jobReqs.Transition(ctx, id, role, to)
			if err != nil {
				return err
			}
			fmt.Printf("job request %d is now %s\n", jr.ID, jr.Status)
			return nil
		})
	},
}

var transitionCompanyRequestCmd = &cobra.Command{
	Use:   "company-request <id> <status>",
	Short: "Transition a company request",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			id, role, err := parseIDAndRole(args[0])
			if err != nil {
				return err
			}
			to, err := models.ParseCompanyRequestStatus(args[1])
			if err != nil {
				return err
			}
			cr, err := d.compReqs.Transition(ctx, id, role, to)
			if err != nil {
				return err
			}
			fmt.Printf("company request %d is now %s\n", cr.ID, cr.Status)
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Lowercase legacy status enum values",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDeps(func(ctx context.Context, d *deps) error {
			return d.store.MigrateLowercaseEnums(ctx)
		})
	},
}

func init() {
	jobsCmd.AddCommand(jobsActivateCmd, jobsDeactivateCmd, jobsArchiveCmd)
	companyCmd.AddCommand(companyActivateCmd, companyDeactivateCmd)
	transitionCmd.PersistentFlags().StringVar(&transitionRole, "role", string(models.RoleAdmin), "acting role (administrator, company, applicant)")
	transitionCmd.AddCommand(transitionApplicationCmd, transitionJobRequestCmd, transitionCompanyRequestCmd)
	rootCmd.AddCommand(jobsCmd, companyCmd, transitionCmd, migrateCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDAndRole(s string) (int64, models.Role, error) {
	id, err := parseID(s)
	if err != nil {
		return 0, "", err
	}
	role, err := models.ParseRole(transitionRole)
	if err != nil {
		return 0, "", err
	}
	return id, role, nil
}

// withDeps wires the full service graph for a one-shot command.
func withDeps(fn func(ctx context.Context, d *deps) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()
	return fn(ctx, d)
}
