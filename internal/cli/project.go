package cli

import (
	"fmt"
	"strings"

	"github.com/hardhatlabs/constructpro/internal/model"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Create, list, and manage construction projects on the server.`,
}

var projectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new project",
	Long: `Create a new project on the server.

Examples:
  constructpro project add "Riverside Apartments" --budget 2500000 --start 2024-01-01 --end 2024-12-31
  constructpro project add "Warehouse Retrofit" --client "ACME Logistics" --priority high`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE:    runProjectList,
}

var projectSetCmd = &cobra.Command{
	Use:   "set [project-id]",
	Short: "Update project fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectSet,
}

var projectBinCmd = &cobra.Command{
	Use:   "bin [project-id]",
	Short: "Move a project to the bin",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectBin,
}

var projectRestoreCmd = &cobra.Command{
	Use:   "restore [project-id]",
	Short: "Restore a binned project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRestore,
}

var projectPurgeCmd = &cobra.Command{
	Use:   "purge [project-id]",
	Short: "Permanently delete a binned project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectPurge,
}

var (
	projectDescription string
	projectStart       string
	projectEnd         string
	projectBudget      float64
	projectStatus      string
	projectPriority    string
	projectTeam        []string
	projectLocation    string
	projectType        string
	projectClient      string
	projectCompletion  int
	projectColor       string
	projectShowBin     bool
	projectName        string
)

func init() {
	addFlags := projectAddCmd.Flags()
	addFlags.StringVar(&projectDescription, "description", "", "Project description")
	addFlags.StringVar(&projectStart, "start", "", "Start date (YYYY-MM-DD)")
	addFlags.StringVar(&projectEnd, "end", "", "End date (YYYY-MM-DD)")
	addFlags.Float64Var(&projectBudget, "budget", 0, "Project budget")
	addFlags.StringVar(&projectStatus, "status", "", "Status (planning, active, on-hold, completed, cancelled)")
	addFlags.StringVar(&projectPriority, "priority", "", "Priority (low, medium, high, urgent)")
	addFlags.StringSliceVar(&projectTeam, "team", nil, "Assigned team members")
	addFlags.StringVar(&projectLocation, "location", "", "Site location")
	addFlags.StringVar(&projectType, "type", "", "Project type")
	addFlags.StringVar(&projectClient, "client", "", "Client name")
	addFlags.StringVarP(&projectColor, "color", "c", "", "Project color (hex)")

	setFlags := projectSetCmd.Flags()
	setFlags.StringVar(&projectName, "name", "", "Project name")
	setFlags.StringVar(&projectDescription, "description", "", "Project description")
	setFlags.StringVar(&projectStart, "start", "", "Start date (YYYY-MM-DD)")
	setFlags.StringVar(&projectEnd, "end", "", "End date (YYYY-MM-DD)")
	setFlags.Float64Var(&projectBudget, "budget", 0, "Project budget")
	setFlags.StringVar(&projectStatus, "status", "", "Status")
	setFlags.StringVar(&projectPriority, "priority", "", "Priority")
	setFlags.StringSliceVar(&projectTeam, "team", nil, "Assigned team members")
	setFlags.StringVar(&projectLocation, "location", "", "Site location")
	setFlags.StringVar(&projectType, "type", "", "Project type")
	setFlags.StringVar(&projectClient, "client", "", "Client name")
	setFlags.IntVar(&projectCompletion, "completion", 0, "Completion percentage")
	setFlags.StringVarP(&projectColor, "color", "c", "", "Project color (hex)")

	projectListCmd.Flags().BoolVar(&projectShowBin, "bin", false, "Show binned projects instead of active ones")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectSetCmd)
	projectCmd.AddCommand(projectBinCmd)
	projectCmd.AddCommand(projectRestoreCmd)
	projectCmd.AddCommand(projectPurgeCmd)
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	draft := model.ProjectDraft{
		Name:         args[0],
		Description:  projectDescription,
		StartDate:    projectStart,
		EndDate:      projectEnd,
		Budget:       projectBudget,
		Status:       projectStatus,
		Priority:     projectPriority,
		AssignedTeam: projectTeam,
		Location:     projectLocation,
		Type:         projectType,
		ClientName:   projectClient,
		Color:        projectColor,
	}

	p, err := a.store.AddProject(cmd.Context(), draft)
	if err != nil {
		return err
	}

	fmt.Printf("Created project: %s (id: %s)\n", p.Name, p.ID)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	projects := a.store.Projects()
	heading := "Projects"
	if projectShowBin {
		projects = a.store.BinnedProjects()
		heading = "Binned projects"
	}

	if len(projects) == 0 {
		fmt.Printf("No %s found.\n", strings.ToLower(heading))
		return nil
	}

	fmt.Println()
	fmt.Printf("  %-36s  %-24s  %-10s  %s\n", "ID", "Name", "Status", "Budget")
	fmt.Println(strings.Repeat("─", 90))
	for _, p := range projects {
		fmt.Printf("  %-36s  %-24s  %-10s  %.2f\n", p.ID, p.Name, p.Status, p.Budget)
	}
	fmt.Println(strings.Repeat("─", 90))
	fmt.Printf("  %d %s\n\n", len(projects), strings.ToLower(heading))

	return nil
}

func runProjectSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	var patch model.ProjectPatch
	flags := cmd.Flags()
	if flags.Changed("name") {
		patch.Name = &projectName
	}
	if flags.Changed("description") {
		patch.Description = &projectDescription
	}
	if flags.Changed("start") {
		patch.StartDate = &projectStart
	}
	if flags.Changed("end") {
		patch.EndDate = &projectEnd
	}
	if flags.Changed("budget") {
		patch.Budget = &projectBudget
	}
	if flags.Changed("status") {
		patch.Status = &projectStatus
	}
	if flags.Changed("priority") {
		patch.Priority = &projectPriority
	}
	if flags.Changed("team") {
		patch.AssignedTeam = &projectTeam
	}
	if flags.Changed("location") {
		patch.Location = &projectLocation
	}
	if flags.Changed("type") {
		patch.Type = &projectType
	}
	if flags.Changed("client") {
		patch.ClientName = &projectClient
	}
	if flags.Changed("completion") {
		patch.Completion = &projectCompletion
	}
	if flags.Changed("color") {
		patch.Color = &projectColor
	}

	p, err := a.store.UpdateProject(cmd.Context(), args[0], patch)
	if err != nil {
		return err
	}

	fmt.Printf("Updated project: %s\n", p.Name)
	return nil
}

func runProjectBin(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.store.BinProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Moved to bin: %s\n", p.Name)
	return nil
}

func runProjectRestore(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.store.RestoreProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Restored: %s\n", p.Name)
	return nil
}

func runProjectPurge(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.PurgeProject(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Permanently deleted project %s\n", args[0])
	return nil
}
