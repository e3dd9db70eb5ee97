package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/source"
	"github.com/matzehuels/crumbtrail/pkg/source/file"
	"github.com/matzehuels/crumbtrail/pkg/source/mongo"
	"github.com/matzehuels/crumbtrail/pkg/source/sqlite"
)

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	sqlitePath string // target database
	table      string // target table
	toMongo    bool   // write to the [mongo] collection instead
}

// importCommand creates the import command, which copies a JSON or TOML
// node file into a database source.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Copy a node file into SQLite or MongoDB",
		Example: `  crumbtrail import nav.json --sqlite site.db
  crumbtrail import nav.toml --mongo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database to write")
	cmd.Flags().StringVar(&opts.table, "table", sqlite.DefaultTable, "SQLite table to create")
	cmd.Flags().BoolVar(&opts.toMongo, "mongo", false, "write to the collection in the [mongo] config section")
	cmd.MarkFlagsOneRequired("sqlite", "mongo")
	cmd.MarkFlagsMutuallyExclusive("sqlite", "mongo")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, path string, opts *importOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	nodes, err := file.Import[source.ID](path)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s contains no nodes", path)
	}

	var target string
	if opts.toMongo {
		target, err = importMongo(ctx, c.Config.Mongo, nodes)
	} else {
		target, err = importSQLite(ctx, opts.sqlitePath, opts.table, nodes)
	}
	if err != nil {
		return err
	}
	prog.done("Imported "+path, "nodes", len(nodes), "target", target)

	printSuccess("Imported %s nodes", humanize.Comma(int64(len(nodes))))
	printFile(target)
	if !opts.toMongo {
		printNextStep("Render a trail", "crumbtrail render "+opts.sqlitePath+" --table "+opts.table+" --path "+nodes[0].Path)
	}
	return nil
}

func importSQLite(ctx context.Context, dsn, table string, nodes []breadcrumb.Node[source.ID]) (string, error) {
	dst, err := sqlite.Open[source.ID](ctx, dsn, table)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if err := dst.CreateTable(ctx); err != nil {
		return "", err
	}
	if err := dst.Insert(ctx, nodes); err != nil {
		return "", err
	}
	return dst.Name(), nil
}

func importMongo(ctx context.Context, cfg mongo.Config, nodes []breadcrumb.Node[source.ID]) (string, error) {
	dst, err := mongo.Connect[source.ID](ctx, cfg)
	if err != nil {
		return "", err
	}
	defer dst.Close(context.Background())

	if err := dst.Insert(ctx, nodes); err != nil {
		return "", err
	}
	return dst.Name(), nil
}
