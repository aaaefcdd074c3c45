package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-catalog/pkg/catalog"
	"github.com/tendant/simple-catalog/pkg/catalog/admin"
	repopg "github.com/tendant/simple-catalog/pkg/catalog/repo/postgres"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog tables",
		Long:  `Create the catalog schema, tables and indexes in PostgreSQL. Safe to run repeatedly.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseType != "postgres" {
				return fmt.Errorf("migrate requires a postgres DATABASE_URL, got %q", cfg.DatabaseType)
			}

			ctx := cmd.Context()
			pool, err := cfg.OpenPostgres(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := repopg.EnsureSchema(ctx, pool, cfg.DBSchema); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema %q is up to date\n", cfg.DBSchema)
			return nil
		},
	}
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load categories and content from a YAML file",
		Long: `Load categories and content from a YAML file.

Categories are matched by name and content by source_name/source_id, so
running the same file twice creates nothing new. Content entries without a
source are created on every run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeedFile(args[0])
			if err != nil {
				return err
			}

			svc, closeSvc, err := openService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeSvc()

			report, err := applySeed(cmd.Context(), svc, seed)
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, report)
			}
			fmt.Fprintf(out, "Categories: %d created, %d already present\n", report.CategoriesCreated, report.CategoriesExisting)
			fmt.Fprintf(out, "Content:    %d created, %d already present\n", report.ContentCreated, report.ContentExisting)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the report as JSON")

	return cmd
}

// NewCategoriesCommand creates the categories command
func NewCategoriesCommand() *cobra.Command {
	var skip, limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeSvc, err := openService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeSvc()

			categories, err := svc.ListCategories(cmd.Context(), skip, limit)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			return printCategories(cmd.OutOrStdout(), categories)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Number of categories to skip")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of categories (0: default page size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// NewContentCommand creates the content command
func NewContentCommand() *cobra.Command {
	var req catalog.ListContentRequest
	var featured, trending bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "content",
		Short: "List and search content",
		Long:  `List content with the same filters, sorting and text search as GET /content.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("featured") {
				req.Featured = &featured
			}
			if cmd.Flags().Changed("trending") {
				req.Trending = &trending
			}

			svc, closeSvc, err := openService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeSvc()

			items, err := svc.ListContent(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to list content: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return printContent(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().IntVar(&req.Skip, "skip", 0, "Number of items to skip")
	cmd.Flags().IntVarP(&req.Limit, "limit", "l", 0, "Maximum number of items (0: default page size)")
	cmd.Flags().StringVarP(&req.SearchQuery, "query", "q", "", "Search title and description")
	cmd.Flags().StringVarP(&req.ContentType, "type", "t", "", "Content type, e.g. MOVIE")
	cmd.Flags().StringVar(&req.CategoryName, "category", "", "Category name")
	cmd.Flags().StringVar(&req.SortBy, "sort-by", "", "Sort field, prefix with - for descending")
	cmd.Flags().BoolVar(&featured, "featured", false, "Only featured (or, with =false, non-featured) content")
	cmd.Flags().BoolVar(&trending, "trending", false, "Only trending (or, with =false, non-trending) content")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, closeRepo, err := openRepository(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeRepo()

			resp, err := admin.New(repo).GetStatistics(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get statistics: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return printStatistics(cmd.OutOrStdout(), &resp.Statistics)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCategories(w io.Writer, categories []*catalog.Category) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	fmt.Fprintf(tw, "\n%d categories\n", len(categories))
	return tw.Flush()
}

func printContent(w io.Writer, items []*catalog.Content) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tRATING\tCATEGORIES")
	for _, c := range items {
		rating := "-"
		if c.Rating != nil {
			rating = fmt.Sprintf("%.1f", *c.Rating)
		}
		names := make([]string, 0, len(c.Categories))
		for _, cat := range c.Categories {
			names = append(names, cat.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Title, c.ContentType, rating, strings.Join(names, ", "))
	}
	fmt.Fprintf(tw, "\n%d items\n", len(items))
	return tw.Flush()
}

func printStatistics(w io.Writer, stats *catalog.Statistics) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Categories:\t%d\n", stats.Categories)
	fmt.Fprintf(tw, "Content:\t%d\n", stats.Content)
	types := make([]string, 0, len(stats.ByContentType))
	for t := range stats.ByContentType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(tw, "  %s:\t%d\n", t, stats.ByContentType[t])
	}
	fmt.Fprintf(tw, "Featured:\t%d\n", stats.Featured)
	fmt.Fprintf(tw, "Trending:\t%d\n", stats.Trending)
	fmt.Fprintf(tw, "Watchlist items:\t%d\n", stats.WatchlistItems)
	fmt.Fprintf(tw, "Watch history items:\t%d\n", stats.WatchHistoryItems)
	fmt.Fprintf(tw, "Active users:\t%d\n", stats.ActiveUsers)
	if stats.OldestContent != nil && stats.NewestContent != nil {
		fmt.Fprintf(tw, "Content created:\t%s .. %s\n",
			stats.OldestContent.Format(time.RFC3339), stats.NewestContent.Format(time.RFC3339))
	}
	return tw.Flush()
}
