package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"bookshelf/internal/config"
	"bookshelf/internal/menu"
	"bookshelf/internal/model"
	"bookshelf/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what the persistent pre-run builds for every subcommand.
type app struct {
	cfgFile string
	logger  *zap.Logger
	store   store.Store
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:               "shelf",
		Short:             "shelf - a personal library catalog",
		Long:              "shelf keeps book records in a JSON file. Without a subcommand it starts the interactive menu.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
		RunE:              a.runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Path to a config file (yaml, json or toml)")
	pf.String("file", "books.json", "Path to the catalog JSON file")
	pf.Bool("memory", false, "Keep the catalog in memory only, nothing is saved")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-format", "console", "Log format: console or json")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "Start the interactive menu",
			Args:  cobra.NoArgs,
			RunE:  a.runMenu,
		},
		a.addCmd(),
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a book by id",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runRemove,
		},
		&cobra.Command{
			Use:   "update <id> <status-code>",
			Short: "Set the status of a book (1 = available, 2 = issued)",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runUpdate,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List every book",
			Args:  cobra.NoArgs,
			RunE:  a.runList,
		},
		a.searchCmd(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	a.logger = logger

	if cfg.Memory {
		a.logger.Warn("Using an in-memory catalog, changes will not be saved")
		a.store = store.NewMemoryStore()
		return nil
	}

	fileStore, err := store.NewFileStore(cfg.DataFile, logger)
	if err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}
	a.store = fileStore
	return nil
}

func (a *app) teardown(*cobra.Command, []string) {
	_ = a.logger.Sync()
}

func (a *app) runMenu(cmd *cobra.Command, _ []string) error {
	return menu.New(a.store, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger).Run(cmd.Context())
}

func (a *app) addCmd() *cobra.Command {
	var (
		title, author, status string
		year                  int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if year < 0 {
				return fmt.Errorf("invalid year %d: must not be negative", year)
			}
			book, err := model.NewBookWithStatus(title, author, year, status)
			if err != nil {
				return err
			}
			if err := a.store.Add(cmd.Context(), &book); err != nil {
				return err
			}

			a.logger.Info("Book added", zap.Int("id", book.ID()))
			fmt.Fprintln(cmd.OutOrStdout(), book)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Book title")
	cmd.Flags().StringVar(&author, "author", "", "Book author")
	cmd.Flags().IntVar(&year, "year", 0, "Publication year")
	cmd.Flags().StringVar(&status, "status", model.StatusAvailable.Code(), "Status code: 1 = available, 2 = issued")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func (a *app) runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.store.Remove(cmd.Context(), id); err != nil {
		return err
	}
	a.logger.Info("Book removed", zap.Int("id", id))
	return nil
}

func (a *app) runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := model.ParseStatus(args[1])
	if err != nil {
		return err
	}
	if err := a.store.UpdateStatus(cmd.Context(), id, status); err != nil {
		return err
	}
	a.logger.Info("Status updated", zap.Int("id", id), zap.Stringer("status", status))
	return nil
}

func (a *app) runList(cmd *cobra.Command, _ []string) error {
	books, err := a.store.List(cmd.Context())
	if err != nil {
		return err
	}
	printBooks(cmd, books)
	return nil
}

func (a *app) searchCmd() *cobra.Command {
	var q store.Query
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search books by title, author and year",
		Long:  "Title and author match case-insensitive substrings, year matches exactly. Omitted filters match everything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if q.Year < 0 {
				return fmt.Errorf("invalid year %d: must not be negative", q.Year)
			}
			books, err := a.store.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			printBooks(cmd, books)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Title, "title", "", "Title contains")
	cmd.Flags().StringVar(&q.Author, "author", "", "Author contains")
	cmd.Flags().IntVar(&q.Year, "year", 0, "Publication year")
	return cmd
}

func printBooks(cmd *cobra.Command, books []model.Book) {
	for _, b := range books {
		fmt.Fprintln(cmd.OutOrStdout(), b)
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q: must be a non-negative integer", arg)
	}
	return id, nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
