package cli

import (
	"fmt"
	"strings"

	"github.com/hardhatlabs/constructpro/internal/model"
	"github.com/spf13/cobra"
)

// Commands for the locally persisted collections. They all ride on the
// same CRUD factory; only the entity shape and flags differ.

var personnelCmd = &cobra.Command{
	Use:   "personnel",
	Short: "Manage site personnel",
}

var materialCmd = &cobra.Command{
	Use:   "material",
	Short: "Manage material inventory",
}

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Manage the finance ledger",
}

var labTestCmd = &cobra.Command{
	Use:   "labtest",
	Short: "Manage lab test records",
}

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Manage marketplace listings",
}

var siteTaskCmd = &cobra.Command{
	Use:   "sitetask",
	Short: "Manage site tasks",
}

var (
	personRole      string
	personPhone     string
	personEmail     string
	personDailyRate float64

	materialUnit     string
	materialQuantity float64
	materialPrice    float64
	materialSupplier string

	financeKind     string
	financeCategory string
	financeAmount   float64
	financeDate     string
	financeProject  string

	labSample     string
	labResult     string
	labPassed     bool
	labTechnician string

	listingPrice    float64
	listingCategory string
	listingContact  string

	taskProject  string
	taskAssignee string
	taskDue      string
)

func init() {
	personnelAdd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				p := a.store.Personnel().Add(model.Personnel{
					Name: args[0], Role: personRole, Phone: personPhone,
					Email: personEmail, DailyRate: personDailyRate, Status: "active",
				})
				fmt.Printf("Added %s (id: %s)\n", p.Name, p.ID)
				return nil
			})
		},
	}
	personnelAdd.Flags().StringVar(&personRole, "role", "", "Role on site")
	personnelAdd.Flags().StringVar(&personPhone, "phone", "", "Phone number")
	personnelAdd.Flags().StringVar(&personEmail, "email", "", "Email address")
	personnelAdd.Flags().Float64Var(&personDailyRate, "rate", 0, "Daily rate")

	personnelCmd.AddCommand(personnelAdd)
	personnelCmd.AddCommand(listCommand("personnel", func(a *app) []row {
		return rowsOf(a.store.Personnel().List(), func(p model.Personnel) row {
			return row{p.ID, p.Name, p.Role}
		})
	}))
	personnelCmd.AddCommand(rmCommand("person", func(a *app, id string) bool {
		_, ok := a.store.Personnel().Delete(id)
		return ok
	}))

	materialAdd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				m := a.store.Materials().Add(model.Material{
					Name: args[0], Unit: materialUnit, Quantity: materialQuantity,
					UnitPrice: materialPrice, Supplier: materialSupplier,
				})
				fmt.Printf("Added %s (id: %s)\n", m.Name, m.ID)
				return nil
			})
		},
	}
	materialAdd.Flags().StringVar(&materialUnit, "unit", "pc", "Unit of measure")
	materialAdd.Flags().Float64Var(&materialQuantity, "qty", 0, "Quantity in stock")
	materialAdd.Flags().Float64Var(&materialPrice, "price", 0, "Unit price")
	materialAdd.Flags().StringVar(&materialSupplier, "supplier", "", "Supplier name")

	materialCmd.AddCommand(materialAdd)
	materialCmd.AddCommand(listCommand("materials", func(a *app) []row {
		return rowsOf(a.store.Materials().List(), func(m model.Material) row {
			return row{m.ID, m.Name, fmt.Sprintf("%.1f %s", m.Quantity, m.Unit)}
		})
	}))
	materialCmd.AddCommand(rmCommand("material", func(a *app, id string) bool {
		_, ok := a.store.Materials().Delete(id)
		return ok
	}))

	financeAdd := &cobra.Command{
		Use:   "add [note]",
		Short: "Add a ledger entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if financeKind != "income" && financeKind != "expense" {
					return fmt.Errorf("kind must be income or expense")
				}
				t := a.store.Transactions().Add(model.Transaction{
					Note: args[0], Kind: financeKind, Category: financeCategory,
					Amount: financeAmount, Date: financeDate, ProjectName: financeProject,
				})
				fmt.Printf("Recorded %s of %.2f (id: %s)\n", t.Kind, t.Amount, t.ID)
				return nil
			})
		},
	}
	financeAdd.Flags().StringVar(&financeKind, "kind", "expense", "income or expense")
	financeAdd.Flags().StringVar(&financeCategory, "category", "", "Category")
	financeAdd.Flags().Float64Var(&financeAmount, "amount", 0, "Amount")
	financeAdd.Flags().StringVar(&financeDate, "date", "", "Date (YYYY-MM-DD)")
	financeAdd.Flags().StringVar(&financeProject, "project", "", "Project name")

	financeCmd.AddCommand(financeAdd)
	financeCmd.AddCommand(listCommand("transactions", func(a *app) []row {
		return rowsOf(a.store.Transactions().List(), func(t model.Transaction) row {
			return row{t.ID, fmt.Sprintf("%s %.2f", t.Kind, t.Amount), t.Note}
		})
	}))
	financeCmd.AddCommand(rmCommand("transaction", func(a *app, id string) bool {
		_, ok := a.store.Transactions().Delete(id)
		return ok
	}))

	labTestAdd := &cobra.Command{
		Use:   "add [test-type]",
		Short: "Add a lab test record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				l := a.store.LabTests().Add(model.LabTest{
					TestType: args[0], Sample: labSample, Result: labResult,
					Passed: labPassed, Technician: labTechnician,
				})
				fmt.Printf("Recorded %s (id: %s)\n", l.TestType, l.ID)
				return nil
			})
		},
	}
	labTestAdd.Flags().StringVar(&labSample, "sample", "", "Sample identifier")
	labTestAdd.Flags().StringVar(&labResult, "result", "", "Test result")
	labTestAdd.Flags().BoolVar(&labPassed, "passed", false, "Whether the sample passed")
	labTestAdd.Flags().StringVar(&labTechnician, "technician", "", "Technician name")

	labTestCmd.AddCommand(labTestAdd)
	labTestCmd.AddCommand(listCommand("lab tests", func(a *app) []row {
		return rowsOf(a.store.LabTests().List(), func(l model.LabTest) row {
			verdict := "failed"
			if l.Passed {
				verdict = "passed"
			}
			return row{l.ID, l.TestType, fmt.Sprintf("%s (%s)", l.Result, verdict)}
		})
	}))
	labTestCmd.AddCommand(rmCommand("lab test", func(a *app, id string) bool {
		_, ok := a.store.LabTests().Delete(id)
		return ok
	}))

	listingAdd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a marketplace listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				l := a.store.Listings().Add(model.Listing{
					Title: args[0], Price: listingPrice,
					Category: listingCategory, Contact: listingContact,
				})
				fmt.Printf("Listed %s (id: %s)\n", l.Title, l.ID)
				return nil
			})
		},
	}
	listingAdd.Flags().Float64Var(&listingPrice, "price", 0, "Asking price")
	listingAdd.Flags().StringVar(&listingCategory, "category", "", "Listing category")
	listingAdd.Flags().StringVar(&listingContact, "contact", "", "Contact details")

	listingCmd.AddCommand(listingAdd)
	listingCmd.AddCommand(listCommand("listings", func(a *app) []row {
		return rowsOf(a.store.Listings().List(), func(l model.Listing) row {
			return row{l.ID, l.Title, fmt.Sprintf("%.2f", l.Price)}
		})
	}))
	listingCmd.AddCommand(rmCommand("listing", func(a *app, id string) bool {
		_, ok := a.store.Listings().Delete(id)
		return ok
	}))

	siteTaskAdd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a site task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				t := a.store.SiteTasks().Add(model.SiteTask{
					Title: args[0], ProjectName: taskProject,
					AssignedTo: taskAssignee, DueDate: taskDue,
				})
				fmt.Printf("Added task %s (id: %s)\n", t.Title, t.ID)
				return nil
			})
		},
	}
	siteTaskAdd.Flags().StringVar(&taskProject, "project", "", "Project name")
	siteTaskAdd.Flags().StringVar(&taskAssignee, "assignee", "", "Assigned person")
	siteTaskAdd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")

	siteTaskCmd.AddCommand(siteTaskAdd)
	siteTaskCmd.AddCommand(listCommand("site tasks", func(a *app) []row {
		return rowsOf(a.store.SiteTasks().List(), func(t model.SiteTask) row {
			status := "open"
			if t.Done {
				status = "done"
			}
			return row{t.ID, t.Title, status}
		})
	}))
	siteTaskCmd.AddCommand(rmCommand("site task", func(a *app, id string) bool {
		_, ok := a.store.SiteTasks().Delete(id)
		return ok
	}))
}

type row struct {
	id, name, detail string
}

func rowsOf[T any](items []T, f func(T) row) []row {
	out := make([]row, 0, len(items))
	for _, item := range items {
		out = append(out, f(item))
	}
	return out
}

func withApp(cmd *cobra.Command, f func(a *app) error) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	return f(a)
}

func listCommand(plural string, rows func(a *app) []row) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s", plural),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				items := rows(a)
				if len(items) == 0 {
					fmt.Printf("No %s found.\n", plural)
					return nil
				}
				fmt.Println()
				for _, r := range items {
					fmt.Printf("  %-36s  %-28s  %s\n", r.id, r.name, r.detail)
				}
				fmt.Println(strings.Repeat("─", 80))
				fmt.Printf("  %d %s\n\n", len(items), plural)
				return nil
			})
		},
	}
}

func rmCommand(singular string, remove func(a *app, id string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: fmt.Sprintf("Remove a %s", singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if !remove(a, args[0]) {
					return fmt.Errorf("%s not found: %s", singular, args[0])
				}
				fmt.Printf("Removed %s %s\n", singular, args[0])
				return nil
			})
		},
	}
}
