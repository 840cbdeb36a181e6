package main

import (
	"fmt"

	"github.com/funktionslust/boxbulk"
	"github.com/funktionslust/boxbulk/boxapi"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// environment loads the configuration of the invoked command and builds its app.
type environment struct {
	home string
}

func (e *environment) app(cmd *cobra.Command) (*app, error) {
	configFile, _ := cmd.Flags().GetString(flagConfig)
	debug, _ := cmd.Flags().GetBool(flagDebug)
	v := newViper(configFile, e.home)
	if err := v.BindPFlag("settings.output_json", cmd.Flags().Lookup(flagJSON)); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("settings.no_color", cmd.Flags().Lookup(flagNoColor)); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("config error: %v", err)
	}
	return newApp(cmd.Context(), cfg, debug)
}

// addSaveFlags registers the per-invocation save flags.
func addSaveFlags(flags *pflag.FlagSet) {
	flags.Bool(flagSave, false, "save the results to a report")
	flags.String(flagSaveToPath, "", "report destination directory, implies --save")
	flags.String(flagFileFormat, "", "report file format: csv or json")
}

// saveOverride reads the save flags of the command.
func saveOverride(flags *pflag.FlagSet) (boxbulk.SaveOverride, error) {
	save, _ := flags.GetBool(flagSave)
	path, _ := flags.GetString(flagSaveToPath)
	rawFormat, _ := flags.GetString(flagFileFormat)
	override := boxbulk.SaveOverride{Save: save, Path: path}
	if rawFormat == "" {
		return override, nil
	}
	format, err := boxbulk.ParseReportFormat(rawFormat)
	if err != nil {
		return override, err
	}
	override.Format = format
	return override, nil
}

// bulkCmd returns a command applying the operation to every record of a bulk file.
func bulkCmd(env *environment, command string, opType boxbulk.OperationType, schema boxbulk.RequestSchema, short string, call func(c *boxapi.Client) boxbulk.OperationFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   opType.String(),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := saveOverride(cmd.Flags())
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString(flagBulkFilePath)
			a, err := env.app(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			_, err = a.runner.RunBulk(cmd.Context(), boxbulk.BulkJob{
				Command:   command,
				Path:      path,
				Schema:    schema,
				Operation: boxbulk.NewOperation(opType, call(a.client)),
				Save:      override,
			})
			return err
		},
	}
	cmd.Flags().String(flagBulkFilePath, "", "CSV or JSON file with one record per row, optionally gzipped")
	_ = cmd.MarkFlagRequired(flagBulkFilePath)
	addSaveFlags(cmd.Flags())
	return cmd
}

// listCmd returns a command listing a remote collection. The fetcher is built from the
// positional arguments.
func listCmd(env *environment, command, use string, args cobra.PositionalArgs, mapper boxbulk.Mapper, short string, fetcher func(c *boxapi.Client, args []string) boxbulk.PageFetcher) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			override, err := saveOverride(cmd.Flags())
			if err != nil {
				return err
			}
			a, err := env.app(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.runner.RunList(cmd.Context(), boxbulk.ListJob{
				Command:    command,
				SubCommand: cmd.Name(),
				Mapper:     mapper,
				Fetch:      fetcher(a.client, args),
				Save:       override,
			})
		},
	}
	addSaveFlags(cmd.Flags())
	return cmd
}

func foldersCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "folders", Short: "Manage folders"}
	cmd.AddCommand(
		bulkCmd(env, "folders", boxbulk.OperationTypeCreate, boxbulk.FolderCreateSchema, "Create folders",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.CreateFolder }),
		bulkCmd(env, "folders", boxbulk.OperationTypeUpdate, boxbulk.FolderUpdateSchema, "Update folders",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.UpdateFolder }),
		bulkCmd(env, "folders", boxbulk.OperationTypeDelete, boxbulk.FolderDeleteSchema, "Delete folders with their content",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.DeleteFolder }),
		listCmd(env, "folders", "list-items <folder-id>", cobra.ExactArgs(1), boxbulk.ItemMapper, "List the items of a folder",
			func(c *boxapi.Client, args []string) boxbulk.PageFetcher { return c.FolderItemsFetcher(args[0]) }),
	)
	return cmd
}

func filesCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "files", Short: "Manage files"}
	cmd.AddCommand(
		bulkCmd(env, "files", boxbulk.OperationTypeUpdate, boxbulk.FileUpdateSchema, "Rename and move files",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.UpdateFile }),
	)
	return cmd
}

func usersCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage users"}
	cmd.AddCommand(
		bulkCmd(env, "users", boxbulk.OperationTypeCreate, boxbulk.UserCreateSchema, "Create users",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.CreateUser }),
		bulkCmd(env, "users", boxbulk.OperationTypeUpdate, boxbulk.UserUpdateSchema, "Update users",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.UpdateUser }),
		listCmd(env, "users", "list", cobra.NoArgs, boxbulk.UserMapper, "List enterprise users",
			func(c *boxapi.Client, args []string) boxbulk.PageFetcher { return c.UsersFetcher() }),
	)
	return cmd
}

func groupsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "groups", Short: "Manage groups"}
	cmd.AddCommand(
		bulkCmd(env, "groups", boxbulk.OperationTypeCreate, boxbulk.GroupCreateSchema, "Create groups",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.CreateGroup }),
		listCmd(env, "groups", "list", cobra.NoArgs, boxbulk.GroupMapper, "List enterprise groups",
			func(c *boxapi.Client, args []string) boxbulk.PageFetcher { return c.GroupsFetcher() }),
	)
	return cmd
}

func collaborationsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "collaborations", Short: "Manage collaborations"}
	cmd.AddCommand(
		bulkCmd(env, "collaborations", boxbulk.OperationTypeAdd, boxbulk.CollaborationAddSchema, "Add collaborations",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.AddCollaboration }),
		listCmd(env, "collaborations", "list <folder|file> <item-id>", cobra.ExactArgs(2), boxbulk.CollaborationMapper, "List the collaborations of an item",
			func(c *boxapi.Client, args []string) boxbulk.PageFetcher {
				return c.CollaborationsFetcher(args[0], args[1])
			}),
	)
	return cmd
}

func metadataCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "metadata", Short: "Manage metadata instances"}
	cmd.AddCommand(
		bulkCmd(env, "metadata", boxbulk.OperationTypeCreate, boxbulk.MetadataCreateSchema, "Apply metadata templates to items",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.CreateMetadata }),
	)
	return cmd
}

func tasksCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "Manage tasks"}
	cmd.AddCommand(
		bulkCmd(env, "tasks", boxbulk.OperationTypeCreate, boxbulk.TaskCreateSchema, "Create tasks on files",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.CreateTask }),
		bulkCmd(env, "tasks", boxbulk.OperationTypeUpdate, boxbulk.TaskUpdateSchema, "Update tasks",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.UpdateTask }),
	)
	return cmd
}

func taskAssignmentsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{Use: "task-assignments", Short: "Manage task assignments"}
	cmd.AddCommand(
		bulkCmd(env, "task-assignments", boxbulk.OperationTypeCreate, boxbulk.TaskAssignmentCreateSchema, "Assign tasks",
			func(c *boxapi.Client) boxbulk.OperationFunc { return c.CreateTaskAssignment }),
		listCmd(env, "task-assignments", "list <task-id>", cobra.ExactArgs(1), boxbulk.TaskAssignmentMapper, "List the assignments of a task",
			func(c *boxapi.Client, args []string) boxbulk.PageFetcher { return c.TaskAssignmentsFetcher(args[0]) }),
	)
	return cmd
}
