package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	dir   string
	force bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the built-in content tables to a directory",
	Long: `Write the built-in tables as YAML files so they can be edited. Point HACKEMON_CONTENT_DIR
(or ContentDir in the config file) at the directory to play with the edited tables.

Existing files are kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportTables(cmd, global.Files, engine.DefaultTables(), exportFlags.dir, exportFlags.force)
	},
}

func exportTables(cmd *cobra.Command, files afero.Fs, tables fs.FS, dir string, force bool) error {
	if err := files.MkdirAll(dir, 0750); err != nil {
		return err
	}

	return fs.WalkDir(tables, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}

		target := filepath.Join(dir, filepath.FromSlash(path))
		exists, err := afero.Exists(files, target)
		if err != nil {
			return err
		}
		if exists && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite it", target)
		}

		data, err := fs.ReadFile(tables, path)
		if err != nil {
			return err
		}
		if err := files.MkdirAll(filepath.Dir(target), 0750); err != nil {
			return err
		}
		if err := afero.WriteFile(files, target, data, 0644); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
		return nil
	})
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.dir, "dir", "", "directory to write the tables to")
	exportCmd.Flags().BoolVar(&exportFlags.force, "force", false, "overwrite existing files")
	_ = exportCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(exportCmd)
}
